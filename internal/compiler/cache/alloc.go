package cache

import (
	"sync"

	"github.com/conduit-lang/typestream/internal/compiler/codec"
	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// AllocBridge implements codec.SessionHooks by remapping session-local
// allocation ids to stable ids that survive across encode/decode sessions.
// The codec core cannot own this state because allocation identity spans
// sessions: the same allocation must encode to the same stable id in every
// run so cached blobs stay valid.
type AllocBridge struct {
	mu         sync.Mutex
	toStable   map[types.AllocID]uint64
	fromStable map[uint64]types.AllocID
	nextStable uint64
	nextLocal  types.AllocID
}

// NewAllocBridge creates an empty bridge.
func NewAllocBridge() *AllocBridge {
	return &AllocBridge{
		toStable:   make(map[types.AllocID]uint64),
		fromStable: make(map[uint64]types.AllocID),
		nextStable: 1,
		nextLocal:  1,
	}
}

// EncodeAllocID writes the stable id for a session-local allocation id,
// assigning a fresh stable id on first sight.
func (b *AllocBridge) EncodeAllocID(e *codec.Encoder, id types.AllocID) error {
	b.mu.Lock()
	stable, ok := b.toStable[id]
	if !ok {
		stable = b.nextStable
		b.nextStable++
		b.toStable[id] = stable
		b.fromStable[stable] = id
	}
	b.mu.Unlock()
	e.EmitU64(stable)
	return nil
}

// DecodeAllocID reads a stable id and maps it into the current session,
// minting a fresh local id for stable ids this session has not seen.
func (b *AllocBridge) DecodeAllocID(d *codec.Decoder) (types.AllocID, error) {
	stable := d.ReadU64()
	b.mu.Lock()
	defer b.mu.Unlock()
	if local, ok := b.fromStable[stable]; ok {
		return local, nil
	}
	local := b.nextLocal
	b.nextLocal++
	b.fromStable[stable] = local
	b.toStable[local] = stable
	if stable >= b.nextStable {
		b.nextStable = stable + 1
	}
	return local, nil
}

// snapshot returns a copy of the stable→local mapping for persistence.
func (b *AllocBridge) snapshot() map[uint64]types.AllocID {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[uint64]types.AllocID, len(b.fromStable))
	for k, v := range b.fromStable {
		out[k] = v
	}
	return out
}

// restore installs a persisted mapping, replacing the current one.
func (b *AllocBridge) restore(m map[uint64]types.AllocID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toStable = make(map[types.AllocID]uint64, len(m))
	b.fromStable = make(map[uint64]types.AllocID, len(m))
	b.nextStable = 1
	b.nextLocal = 1
	for stable, local := range m {
		b.fromStable[stable] = local
		b.toStable[local] = stable
		if stable >= b.nextStable {
			b.nextStable = stable + 1
		}
		if local >= b.nextLocal {
			b.nextLocal = local + 1
		}
	}
}
