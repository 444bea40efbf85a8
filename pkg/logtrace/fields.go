package logtrace

// Fields is a type alias for structured log fields
type Fields map[string]interface{}

// WithFields returns a copy of base with extra fields merged in.
func WithFields(base Fields, extra Fields) Fields {
	fields := Fields{}
	for key, value := range base {
		fields[key] = value
	}
	for key, value := range extra {
		fields[key] = value
	}
	return fields
}

// Field names shared across packages. Seed material is never logged; use
// FieldSeedFingerprint instead.
const (
	FieldCorrelationID   = "correlation_id"
	FieldOrigin          = "origin"
	FieldService         = "service"
	FieldMethod          = "method"
	FieldModule          = "module"
	FieldError           = "error"
	FieldStatus          = "status"
	FieldScheme          = "scheme"
	FieldSeedFingerprint = "seed_fp"
	FieldSeedBytes       = "seed_bytes"
	FieldEpochLength     = "epoch_length"
	FieldSubEpochLength  = "sub_epoch_length"
	FieldBitLength       = "bit_length"
	FieldBlockCount      = "blocks"
	FieldBlockIndex      = "index"
	FieldWorkers         = "workers"
	FieldBatchSize       = "batch_size"
	FieldDurationMS      = "ms"
	FieldConfigPath      = "config_path"
)
