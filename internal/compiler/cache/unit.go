package cache

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/conduit-lang/typestream/internal/compiler/codec"
	"github.com/conduit-lang/typestream/internal/compiler/intern"
	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// Unit envelope: the outer file format around one encoded stream. The codec
// deliberately defines no header of its own, so the envelope carries what a
// later session needs to interpret a blob: a magic, a format version, the
// producing session id, and the root entity kind of the payload.
//
//	magic "CTSU" | version u8 | session uuid (16 bytes) | kind u8 | payload

var unitMagic = []byte("CTSU")

// UnitVersion is bumped whenever the envelope or codec layout changes.
// Blobs with a different version are treated as misses, never decoded.
const UnitVersion = 1

// UnitKind identifies the root entity of a unit payload.
type UnitKind byte

const (
	// UnitType is a payload whose root record is a type.
	UnitType UnitKind = iota + 1
	// UnitPredicate is a payload whose root record is a predicate.
	UnitPredicate
	// UnitSummary is a payload whose root record is a check summary.
	UnitSummary
)

func (k UnitKind) String() string {
	switch k {
	case UnitType:
		return "type"
	case UnitPredicate:
		return "predicate"
	case UnitSummary:
		return "summary"
	default:
		return fmt.Sprintf("unknown(%d)", byte(k))
	}
}

// Unit is a parsed envelope.
type Unit struct {
	Session uuid.UUID
	Kind    UnitKind
	Payload []byte
}

const unitHeaderLen = 4 + 1 + 16 + 1

// BuildUnit wraps an encoded payload in the unit envelope.
func BuildUnit(session uuid.UUID, kind UnitKind, payload []byte) []byte {
	blob := make([]byte, 0, unitHeaderLen+len(payload))
	blob = append(blob, unitMagic...)
	blob = append(blob, UnitVersion)
	blob = append(blob, session[:]...)
	blob = append(blob, byte(kind))
	return append(blob, payload...)
}

// ParseUnit validates and splits a unit envelope.
func ParseUnit(blob []byte) (*Unit, error) {
	if len(blob) < unitHeaderLen {
		return nil, fmt.Errorf("unit blob too short: %d bytes", len(blob))
	}
	if !bytes.Equal(blob[:4], unitMagic) {
		return nil, fmt.Errorf("bad unit magic %q", blob[:4])
	}
	if blob[4] != UnitVersion {
		return nil, fmt.Errorf("unsupported unit version %d (want %d)", blob[4], UnitVersion)
	}
	var session uuid.UUID
	copy(session[:], blob[5:21])
	return &Unit{
		Session: session,
		Kind:    UnitKind(blob[21]),
		Payload: blob[unitHeaderLen:],
	}, nil
}

// EncodeTypeUnit encodes a type into a self-describing blob.
func EncodeTypeUnit(cx *intern.Context, session uuid.UUID, t types.Type, hooks codec.SessionHooks) ([]byte, error) {
	e := codec.NewEncoder(cx, hooks)
	if err := e.EncodeType(t); err != nil {
		return nil, fmt.Errorf("failed to encode type unit: %w", err)
	}
	return BuildUnit(session, UnitType, e.Data()), nil
}

// EncodePredicateUnit encodes a predicate into a self-describing blob.
func EncodePredicateUnit(cx *intern.Context, session uuid.UUID, p types.Predicate, hooks codec.SessionHooks) ([]byte, error) {
	e := codec.NewEncoder(cx, hooks)
	if err := e.EncodePredicate(p); err != nil {
		return nil, fmt.Errorf("failed to encode predicate unit: %w", err)
	}
	return BuildUnit(session, UnitPredicate, e.Data()), nil
}

// EncodeSummaryUnit encodes a check summary into a self-describing blob.
func EncodeSummaryUnit(cx *intern.Context, session uuid.UUID, s *types.CheckSummary, hooks codec.SessionHooks) ([]byte, error) {
	e := codec.NewEncoder(cx, hooks)
	if err := e.EncodeSummary(s); err != nil {
		return nil, fmt.Errorf("failed to encode summary unit: %w", err)
	}
	return BuildUnit(session, UnitSummary, e.Data()), nil
}

// DecodeType decodes a type unit into the given context.
func (u *Unit) DecodeType(cx *intern.Context, hooks codec.SessionHooks) (types.Type, error) {
	if u.Kind != UnitType {
		return 0, fmt.Errorf("unit is a %s, not a type", u.Kind)
	}
	d := codec.NewDecoder(cx, u.Payload, hooks)
	t, err := d.DecodeType()
	if err != nil {
		return 0, fmt.Errorf("failed to decode type unit: %w", err)
	}
	return t, nil
}

// DecodePredicate decodes a predicate unit into the given context.
func (u *Unit) DecodePredicate(cx *intern.Context, hooks codec.SessionHooks) (types.Predicate, error) {
	if u.Kind != UnitPredicate {
		return 0, fmt.Errorf("unit is a %s, not a predicate", u.Kind)
	}
	d := codec.NewDecoder(cx, u.Payload, hooks)
	p, err := d.DecodePredicate()
	if err != nil {
		return 0, fmt.Errorf("failed to decode predicate unit: %w", err)
	}
	return p, nil
}

// DecodeSummary decodes a summary unit into the given context's arena.
func (u *Unit) DecodeSummary(cx *intern.Context, hooks codec.SessionHooks) (*types.CheckSummary, error) {
	if u.Kind != UnitSummary {
		return nil, fmt.Errorf("unit is a %s, not a summary", u.Kind)
	}
	d := codec.NewDecoder(cx, u.Payload, hooks)
	s, err := d.DecodeSummary()
	if err != nil {
		return nil, fmt.Errorf("failed to decode summary unit: %w", err)
	}
	return s, nil
}
