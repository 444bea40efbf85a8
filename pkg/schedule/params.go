// Package schedule partitions an epoch into sub-epochs and derives the code
// block for each one.
package schedule

import (
	"errors"
	"fmt"

	"github.com/LumeraProtocol/codegen/pkg/codeblock"
)

// MaxBlocks is the largest sub-epoch count an epoch may have: every index must
// fit in a uint32.
const MaxBlocks = uint64(1) << 32

var (
	ErrZeroSubEpoch     = errors.New("sub_epoch_length must be greater than 0")
	ErrZeroBitLength    = codeblock.ErrZeroBitLength
	ErrIndexOverflow    = errors.New("sub-epoch count exceeds the 32-bit index space")
	ErrTooManyBlocks    = errors.New("sub-epoch count exceeds the configured block limit")
	ErrOffsetOutOfRange = errors.New("offset is outside the scheduled epoch")
)

// Params describes one epoch schedule. Lengths are in seconds.
type Params struct {
	EpochLength    uint64
	SubEpochLength uint64
	BitLength      uint32
}

// Validate rejects parameters no schedule can be built from.
func (p Params) Validate() error {
	if p.SubEpochLength == 0 {
		return ErrZeroSubEpoch
	}
	if p.BitLength == 0 {
		return ErrZeroBitLength
	}
	return nil
}

// Count returns N = floor(EpochLength / SubEpochLength).
func (p Params) Count() (uint64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	n := p.EpochLength / p.SubEpochLength
	if n > MaxBlocks {
		return 0, fmt.Errorf("%w: %d sub-epochs", ErrIndexOverflow, n)
	}
	return n, nil
}

// BlockBytes is the byte size of every block in the schedule.
func (p Params) BlockBytes() int { return codeblock.ByteLength(p.BitLength) }

// IndexAt returns the index of the sub-epoch that is live offset seconds
// into the epoch. Time left over after the last full sub-epoch has no block.
func (p Params) IndexAt(offset uint64) (uint32, error) {
	n, err := p.Count()
	if err != nil {
		return 0, err
	}
	idx := offset / p.SubEpochLength
	if idx >= n {
		return 0, fmt.Errorf("%w: offset %ds, %d sub-epochs of %ds", ErrOffsetOutOfRange, offset, n, p.SubEpochLength)
	}
	return uint32(idx), nil
}
