// Package arena provides bump allocation for long-lived compiler values.
// Allocations live exactly as long as the owning arena; there is no
// per-object free. A context tears down all of its arena storage at once by
// dropping the arena itself.
package arena

const defaultChunkBytes = 64 * 1024

// ByteArena is a bump-pointer allocator over large contiguous byte chunks.
// It backs raw byte payloads (for example constant allocation memory) so
// that thousands of small blobs do not become individual heap objects.
type ByteArena struct {
	chunks  [][]byte
	current []byte
	offset  int
	used    int
}

// NewByteArena creates a byte arena with the given initial chunk size.
func NewByteArena(initialSize int) *ByteArena {
	if initialSize <= 0 {
		initialSize = defaultChunkBytes
	}
	buf := make([]byte, initialSize)
	return &ByteArena{
		chunks:  [][]byte{buf},
		current: buf,
	}
}

// Alloc copies b into the arena and returns the arena-owned copy.
// The returned slice must not be grown by the caller.
func (a *ByteArena) Alloc(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	dst := a.reserve(len(b))
	copy(dst, b)
	return dst
}

func (a *ByteArena) reserve(size int) []byte {
	if a.offset+size > len(a.current) {
		chunkSize := defaultChunkBytes
		if size > chunkSize {
			chunkSize = size
		}
		chunk := make([]byte, chunkSize)
		a.chunks = append(a.chunks, chunk)
		a.current = chunk
		a.offset = 0
	}
	buf := a.current[a.offset : a.offset+size : a.offset+size]
	a.offset += size
	a.used += size
	return buf
}

// BytesUsed returns the number of bytes handed out so far.
func (a *ByteArena) BytesUsed() int { return a.used }

// Slab is a typed bump allocator. Values allocated from a slab have stable
// addresses for the slab's lifetime, unlike elements of a growing slice.
type Slab[T any] struct {
	chunks  [][]T
	current []T
	offset  int
	count   int
}

const slabChunkLen = 1024

// NewSlab creates an empty slab.
func NewSlab[T any]() *Slab[T] {
	return &Slab[T]{}
}

// Alloc stores v in the slab and returns a pointer to the stored copy.
func (s *Slab[T]) Alloc(v T) *T {
	dst := s.reserve(1)
	dst[0] = v
	return &dst[0]
}

// AllocSlice copies vs into slab storage and returns the stored slice.
// The result aliases slab memory and must not be appended to.
func (s *Slab[T]) AllocSlice(vs []T) []T {
	if len(vs) == 0 {
		return nil
	}
	dst := s.reserve(len(vs))
	copy(dst, vs)
	return dst
}

func (s *Slab[T]) reserve(n int) []T {
	if s.current == nil || s.offset+n > len(s.current) {
		chunkLen := slabChunkLen
		if n > chunkLen {
			chunkLen = n
		}
		chunk := make([]T, chunkLen)
		s.chunks = append(s.chunks, chunk)
		s.current = chunk
		s.offset = 0
	}
	out := s.current[s.offset : s.offset+n : s.offset+n]
	s.offset += n
	s.count += n
	return out
}

// Len returns the number of values allocated from the slab.
func (s *Slab[T]) Len() int { return s.count }
