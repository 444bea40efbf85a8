package verifier

import (
	"context"
	"testing"

	"github.com/LumeraProtocol/codegen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyConfig(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*config.Config)
		wantValid    bool
		wantErrors   []string
		wantWarnings []string
		summary      string
	}{
		{
			name:      "defaults are valid",
			mutate:    func(*config.Config) {},
			wantValid: true,
			summary:   "valid",
		},
		{
			name:         "non-default scheme warns",
			mutate:       func(c *config.Config) { c.Derivation.Scheme = "blake3-chacha20" },
			wantValid:    true,
			wantWarnings: []string{"derivation.scheme"},
			summary:      "valid with warnings",
		},
		{
			name:       "unknown scheme",
			mutate:     func(c *config.Config) { c.Derivation.Scheme = "rc4" },
			wantErrors: []string{"derivation.scheme"},
			summary:    "invalid: check errors",
		},
		{
			name: "negative numbers",
			mutate: func(c *config.Config) {
				c.Derivation.CacheSize = -1
				c.Generation.Workers = -2
				c.Generation.BatchSize = -3
			},
			wantErrors: []string{"derivation.cache_size", "generation.workers", "generation.batch_size"},
			summary:    "invalid: check errors",
		},
		{
			name: "odd but usable values",
			mutate: func(c *config.Config) {
				c.Generation.Workers = 100000
				c.Generation.MaxBlocks = 1 << 40
				c.Log.Level = "trace"
			},
			wantValid:    true,
			wantWarnings: []string{"generation.workers", "generation.max_blocks", "log.level"},
			summary:      "valid with warnings",
		},
		{
			name:       "unknown format",
			mutate:     func(c *config.Config) { c.Output.Format = "xml" },
			wantErrors: []string{"output.format"},
			summary:    "invalid: check errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			res, err := NewConfigVerifier(cfg).VerifyConfig(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantValid, res.IsValid())
			assert.Equal(t, tt.summary, res.Summary())
			assert.ElementsMatch(t, tt.wantErrors, fields(res.Errors))
			assert.ElementsMatch(t, tt.wantWarnings, fields(res.Warnings))
		})
	}
}

func TestVerifyNilConfig(t *testing.T) {
	_, err := NewConfigVerifier(nil).VerifyConfig(context.Background())
	require.Error(t, err)
}

func fields(errs []ConfigError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}
