package verifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/LumeraProtocol/codegen/internal/config"
	"github.com/LumeraProtocol/codegen/pkg/codeblock"
	"github.com/LumeraProtocol/codegen/pkg/logtrace"
	"github.com/LumeraProtocol/codegen/pkg/schedule"
)

// maxSensibleWorkers is above any realistic core count; larger values are
// almost certainly typos.
const maxSensibleWorkers = 4096

type ConfigVerifier struct {
	config *config.Config
}

func NewConfigVerifier(cfg *config.Config) ConfigVerifierService {
	return &ConfigVerifier{config: cfg}
}

func (cv *ConfigVerifier) VerifyConfig(ctx context.Context) (*VerificationResult, error) {
	if cv.config == nil {
		return nil, fmt.Errorf("no configuration to verify")
	}
	result := &VerificationResult{Valid: true, Errors: []ConfigError{}, Warnings: []ConfigError{}}
	logtrace.Debug(ctx, "Starting config verification", logtrace.Fields{logtrace.FieldScheme: cv.config.Derivation.Scheme, logtrace.FieldWorkers: cv.config.Generation.Workers})

	cv.checkScheme(result)
	cv.checkGeneration(result)
	cv.checkOutput(result)
	cv.checkLogLevel(result)

	logtrace.Debug(ctx, "Config verification completed", logtrace.Fields{"valid": result.IsValid(), "errors": len(result.Errors), "warnings": len(result.Warnings)})
	return result, nil
}

func (cv *ConfigVerifier) checkScheme(result *VerificationResult) {
	scheme, err := codeblock.ParseScheme(cv.config.Derivation.Scheme)
	if err != nil {
		names := make([]string, 0, len(codeblock.Schemes()))
		for _, s := range codeblock.Schemes() {
			names = append(names, s.String())
		}
		result.Valid = false
		result.Errors = append(result.Errors, ConfigError{Field: "derivation.scheme", Expected: strings.Join(names, "|"), Actual: cv.config.Derivation.Scheme, Message: err.Error()})
		return
	}
	if scheme != codeblock.DefaultScheme {
		result.Warnings = append(result.Warnings, ConfigError{
			Field:    "derivation.scheme",
			Expected: codeblock.DefaultScheme.String(),
			Actual:   scheme.String(),
			Message:  fmt.Sprintf("Scheme %s produces schedules that differ from %s; every party must use the same scheme", scheme, codeblock.DefaultScheme),
		})
	}
	if cv.config.Derivation.CacheSize < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, ConfigError{Field: "derivation.cache_size", Expected: ">= 0", Actual: fmt.Sprintf("%d", cv.config.Derivation.CacheSize), Message: "Cache size cannot be negative"})
	}
}

func (cv *ConfigVerifier) checkGeneration(result *VerificationResult) {
	g := cv.config.Generation
	if g.Workers < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, ConfigError{Field: "generation.workers", Expected: ">= 0", Actual: fmt.Sprintf("%d", g.Workers), Message: "Worker count cannot be negative (0 selects one per CPU)"})
	} else if g.Workers > maxSensibleWorkers {
		result.Warnings = append(result.Warnings, ConfigError{Field: "generation.workers", Actual: fmt.Sprintf("%d", g.Workers), Message: fmt.Sprintf("Worker count %d is unusually high", g.Workers)})
	}
	if g.BatchSize < 0 {
		result.Valid = false
		result.Errors = append(result.Errors, ConfigError{Field: "generation.batch_size", Expected: "> 0", Actual: fmt.Sprintf("%d", g.BatchSize), Message: "Batch size must be positive"})
	}
	if g.MaxBlocks > schedule.MaxBlocks {
		result.Warnings = append(result.Warnings, ConfigError{Field: "generation.max_blocks", Expected: fmt.Sprintf("<= %d", schedule.MaxBlocks), Actual: fmt.Sprintf("%d", g.MaxBlocks), Message: "Limit is above the 32-bit index space and has no effect"})
	}
}

func (cv *ConfigVerifier) checkOutput(result *VerificationResult) {
	switch cv.config.Output.Format {
	case config.FormatText, config.FormatHex, config.FormatJSON:
	default:
		result.Valid = false
		result.Errors = append(result.Errors, ConfigError{Field: "output.format", Expected: "text|hex|json", Actual: cv.config.Output.Format, Message: fmt.Sprintf("Unknown output format %q", cv.config.Output.Format)})
	}
}

func (cv *ConfigVerifier) checkLogLevel(result *VerificationResult) {
	switch strings.ToLower(cv.config.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		result.Warnings = append(result.Warnings, ConfigError{Field: "log.level", Expected: "debug|info|warn|error", Actual: cv.config.Log.Level, Message: "Unknown log level, info will be used"})
	}
}
