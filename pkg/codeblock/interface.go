//go:generate go run go.uber.org/mock/mockgen -destination=codeblock_mock.go -package=codeblock -source=interface.go

package codeblock

// Deriver produces the code block for a sub-epoch index. Implementations
// must be deterministic and safe for concurrent use.
type Deriver interface {
	Block(index uint32, bitLength uint32) []byte
}

// Source is a Deriver bound to one seed and scheme.
type Source struct {
	seed   []byte
	scheme Scheme
}

// NewSource copies seed so later changes by the caller do not affect derived
// blocks.
func NewSource(seed []byte, scheme Scheme) *Source {
	s := &Source{seed: make([]byte, len(seed)), scheme: scheme}
	copy(s.seed, seed)
	return s
}

// Block implements Deriver.
func (s *Source) Block(index uint32, bitLength uint32) []byte {
	return s.scheme.Derive(s.seed, index, bitLength)
}

// Scheme returns the scheme the source derives with.
func (s *Source) Scheme() Scheme { return s.scheme }

// Close wipes the seed copy. Block must not be called afterwards.
func (s *Source) Close() {
	wipe(s.seed)
	s.seed = nil
}
