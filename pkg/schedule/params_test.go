package schedule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		params  Params
		want    uint64
		wantErr error
	}{
		{"100 over 30", Params{EpochLength: 100, SubEpochLength: 30, BitLength: 8}, 3, nil},
		{"exact division", Params{EpochLength: 90, SubEpochLength: 30, BitLength: 8}, 3, nil},
		{"empty epoch", Params{EpochLength: 0, SubEpochLength: 30, BitLength: 8}, 0, nil},
		{"epoch shorter than sub-epoch", Params{EpochLength: 29, SubEpochLength: 30, BitLength: 8}, 0, nil},
		{"two seconds of one", Params{EpochLength: 2, SubEpochLength: 1, BitLength: 8}, 2, nil},
		{"full index space", Params{EpochLength: MaxBlocks, SubEpochLength: 1, BitLength: 1}, MaxBlocks, nil},
		{"index overflow", Params{EpochLength: MaxBlocks + 1, SubEpochLength: 1, BitLength: 1}, 0, ErrIndexOverflow},
		{"zero sub-epoch", Params{EpochLength: 100, SubEpochLength: 0, BitLength: 8}, 0, ErrZeroSubEpoch},
		{"zero bit length", Params{EpochLength: 100, SubEpochLength: 30, BitLength: 0}, 0, ErrZeroBitLength},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.params.Count()
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParamsIndexAt(t *testing.T) {
	t.Parallel()

	p := Params{EpochLength: 100, SubEpochLength: 30, BitLength: 16}

	tests := []struct {
		offset  uint64
		want    uint32
		wantErr bool
	}{
		{0, 0, false},
		{29, 0, false},
		{30, 1, false},
		{89, 2, false},
		// seconds 90..99 are past the last full sub-epoch
		{90, 0, true},
		{1000, 0, true},
	}

	for _, tc := range tests {
		got, err := p.IndexAt(tc.offset)
		if tc.wantErr {
			require.Error(t, err, "offset=%d", tc.offset)
			assert.True(t, errors.Is(err, ErrOffsetOutOfRange))
			continue
		}
		require.NoError(t, err, "offset=%d", tc.offset)
		assert.Equal(t, tc.want, got, "offset=%d", tc.offset)
	}

	_, err := Params{EpochLength: 10, SubEpochLength: 0, BitLength: 8}.IndexAt(0)
	assert.True(t, errors.Is(err, ErrZeroSubEpoch))
}

func TestParamsBlockBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, Params{BitLength: 17}.BlockBytes())
	assert.Equal(t, 32, Params{BitLength: 256}.BlockBytes())
}

func TestScheduleConcatenation(t *testing.T) {
	t.Parallel()

	s := &Schedule{Blocks: [][]byte{{0x2b}, {0x76}}}
	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []byte{0x2b, 0x76}, s.Concatenated())
	assert.Equal(t, []string{"2b", "76"}, s.Hex())
	assert.Equal(t, "2b76", s.ConcatenatedHex())

	empty := &Schedule{}
	assert.NotNil(t, empty.Concatenated())
	assert.Empty(t, empty.Concatenated())
	assert.Equal(t, "", empty.ConcatenatedHex())
	assert.Empty(t, empty.Hex())
}
