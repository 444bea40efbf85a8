package schedule

import "encoding/hex"

// Schedule holds the blocks of one epoch in index order.
type Schedule struct {
	Params Params
	Blocks [][]byte
}

// Count returns the number of blocks.
func (s *Schedule) Count() int { return len(s.Blocks) }

// Concatenated joins all blocks in index order. An empty schedule yields an
// empty, non-nil slice.
func (s *Schedule) Concatenated() []byte {
	size := 0
	for _, b := range s.Blocks {
		size += len(b)
	}
	out := make([]byte, 0, size)
	for _, b := range s.Blocks {
		out = append(out, b...)
	}
	return out
}

// Hex returns each block hex encoded.
func (s *Schedule) Hex() []string {
	out := make([]string, len(s.Blocks))
	for i, b := range s.Blocks {
		out[i] = hex.EncodeToString(b)
	}
	return out
}

// ConcatenatedHex returns the hex encoding of Concatenated.
func (s *Schedule) ConcatenatedHex() string {
	return hex.EncodeToString(s.Concatenated())
}
