package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/LumeraProtocol/codegen/pkg/codeblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestGenerateTwoByteSchedule(t *testing.T) {
	t.Parallel()

	src := codeblock.NewSource([]byte{0x00}, codeblock.DefaultScheme)
	s, err := NewGenerator(src).Generate(context.Background(), Params{EpochLength: 2, SubEpochLength: 1, BitLength: 8})
	require.NoError(t, err)

	assert.Equal(t, []string{"2b", "76"}, s.Hex())
	assert.Equal(t, "2b76", s.ConcatenatedHex())
}

func TestGenerateEmptyEpoch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mock := codeblock.NewMockDeriver(ctrl)
	// No EXPECT: any call fails the test.

	s, err := NewGenerator(mock).Generate(context.Background(), Params{EpochLength: 0, SubEpochLength: 30, BitLength: 8})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, "", s.ConcatenatedHex())
}

func TestGenerateCallsEachIndexOnce(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mock := codeblock.NewMockDeriver(ctrl)
	for i := uint32(0); i < 10; i++ {
		mock.EXPECT().Block(i, uint32(12)).Return([]byte{byte(i), 0x0f}).Times(1)
	}

	g := NewGenerator(mock, WithWorkers(4), WithBatchSize(3))
	s, err := g.Generate(context.Background(), Params{EpochLength: 100, SubEpochLength: 10, BitLength: 12})
	require.NoError(t, err)
	require.Equal(t, 10, s.Count())
	for i, b := range s.Blocks {
		assert.Equal(t, []byte{byte(i), 0x0f}, b)
	}
}

func TestGenerateIndependentOfWorkerCount(t *testing.T) {
	t.Parallel()

	src := codeblock.NewSource([]byte("parallel"), codeblock.SchemeBLAKE3)
	p := Params{EpochLength: 3600, SubEpochLength: 1, BitLength: 33}

	serial, err := NewGenerator(src, WithWorkers(1)).Generate(context.Background(), p)
	require.NoError(t, err)

	for _, cfg := range []struct{ workers, batch int }{{2, 1}, {8, 7}, {16, 256}, {64, 1000}} {
		got, err := NewGenerator(src, WithWorkers(cfg.workers), WithBatchSize(cfg.batch)).Generate(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, serial.Blocks, got.Blocks, "workers=%d batch=%d", cfg.workers, cfg.batch)
	}

	for i, b := range serial.Blocks {
		require.Equal(t, src.Block(uint32(i), 33), b)
	}
}

func TestGenerateValidation(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mock := codeblock.NewMockDeriver(ctrl)
	g := NewGenerator(mock)

	_, err := g.Generate(context.Background(), Params{EpochLength: 10, SubEpochLength: 0, BitLength: 8})
	assert.True(t, errors.Is(err, ErrZeroSubEpoch))

	_, err = g.Generate(context.Background(), Params{EpochLength: 10, SubEpochLength: 1, BitLength: 0})
	assert.True(t, errors.Is(err, ErrZeroBitLength))

	_, err = g.Generate(context.Background(), Params{EpochLength: MaxBlocks * 2, SubEpochLength: 1, BitLength: 8})
	assert.True(t, errors.Is(err, ErrIndexOverflow))
}

func TestGenerateMaxBlocks(t *testing.T) {
	t.Parallel()

	src := codeblock.NewSource([]byte{1}, codeblock.DefaultScheme)
	g := NewGenerator(src, WithMaxBlocks(5))

	_, err := g.Generate(context.Background(), Params{EpochLength: 6, SubEpochLength: 1, BitLength: 8})
	assert.True(t, errors.Is(err, ErrTooManyBlocks))

	s, err := g.Generate(context.Background(), Params{EpochLength: 5, SubEpochLength: 1, BitLength: 8})
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count())
}

func TestGenerateCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := codeblock.NewSource([]byte{1}, codeblock.DefaultScheme)
	_, err := NewGenerator(src, WithWorkers(4)).Generate(ctx, Params{EpochLength: 10000, SubEpochLength: 1, BitLength: 8})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBlockAt(t *testing.T) {
	t.Parallel()

	src := codeblock.NewSource([]byte{0x00}, codeblock.DefaultScheme)
	p := Params{EpochLength: 2, SubEpochLength: 1, BitLength: 8}

	idx, block, err := BlockAt(src, p, 1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx)
	assert.Equal(t, []byte{0x76}, block)

	_, _, err = BlockAt(src, p, 2)
	assert.True(t, errors.Is(err, ErrOffsetOutOfRange))
}
