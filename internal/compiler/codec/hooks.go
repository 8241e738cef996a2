package codec

import "github.com/conduit-lang/typestream/internal/compiler/types"

// SessionHooks supplies the allocation-id codec owned by the surrounding
// compilation session. Allocation identity spans multiple encode/decode
// sessions (incremental caches remap ids between runs), so this core never
// interprets an AllocID itself.
type SessionHooks interface {
	// EncodeAllocID writes id using session-specific remapping state.
	EncodeAllocID(e *Encoder, id types.AllocID) error

	// DecodeAllocID reads an id written by EncodeAllocID and maps it into
	// the current session.
	DecodeAllocID(d *Decoder) (types.AllocID, error)
}

// PassthroughAllocHooks encodes allocation ids verbatim. Suitable only when
// encoder and decoder share one allocation namespace, e.g. in tests or
// single-session tools.
type PassthroughAllocHooks struct{}

// EncodeAllocID writes the raw id.
func (PassthroughAllocHooks) EncodeAllocID(e *Encoder, id types.AllocID) error {
	e.EmitU64(uint64(id))
	return nil
}

// DecodeAllocID reads the raw id.
func (PassthroughAllocHooks) DecodeAllocID(d *Decoder) (types.AllocID, error) {
	return types.AllocID(d.ReadU64()), nil
}
