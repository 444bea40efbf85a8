package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. CODEGEN_GENERATION_WORKERS.
const EnvPrefix = "CODEGEN"

// Output formats understood by the generate command.
const (
	FormatText = "text"
	FormatHex  = "hex"
	FormatJSON = "json"
)

// Config represents the codegen configuration
type Config struct {
	Derivation DerivationConfig `yaml:"derivation" mapstructure:"derivation"`
	Generation GenerationConfig `yaml:"generation" mapstructure:"generation"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DerivationConfig selects how blocks are derived from the seed
type DerivationConfig struct {
	Scheme    string `yaml:"scheme" mapstructure:"scheme"`         // Key derivation scheme name
	CacheSize int64  `yaml:"cache_size" mapstructure:"cache_size"` // Blocks memoized by lookups; 0 disables
}

// GenerationConfig controls multi-block generation
type GenerationConfig struct {
	Workers   int    `yaml:"workers" mapstructure:"workers"`       // Concurrent batches; 0 = one per CPU
	BatchSize int    `yaml:"batch_size" mapstructure:"batch_size"` // Indices per batch
	MaxBlocks uint64 `yaml:"max_blocks" mapstructure:"max_blocks"` // Upper bound on N; 0 = unlimited
}

// OutputConfig controls how schedules are printed
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // text, hex or json
}

// LogConfig controls diagnostic logging on stderr
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Derivation: DerivationConfig{
			Scheme:    "sha256-chacha20",
			CacheSize: 4096,
		},
		Generation: GenerationConfig{
			Workers:   0,
			BatchSize: 256,
			MaxBlocks: 0,
		},
		Output: OutputConfig{
			Format: FormatText,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DefaultPath returns ~/.codegen/config.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".codegen", "config.yml"), nil
}

// Load builds the configuration from defaults, the YAML file at path and
// CODEGEN_* environment variables, in increasing precedence. An empty path
// skips the file; a non-empty path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("error getting absolute path for config file: %w", err)
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s does not exist", absPath)
		}
		v.SetConfigFile(absPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", absPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("derivation.scheme", d.Derivation.Scheme)
	v.SetDefault("derivation.cache_size", d.Derivation.CacheSize)
	v.SetDefault("generation.workers", d.Generation.Workers)
	v.SetDefault("generation.batch_size", d.Generation.BatchSize)
	v.SetDefault("generation.max_blocks", d.Generation.MaxBlocks)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("log.level", d.Log.Level)
}

// applyDefaults fills values a file may have blanked out explicitly.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if strings.TrimSpace(c.Derivation.Scheme) == "" {
		c.Derivation.Scheme = d.Derivation.Scheme
	}
	if c.Generation.BatchSize == 0 {
		c.Generation.BatchSize = d.Generation.BatchSize
	}
	if strings.TrimSpace(c.Output.Format) == "" {
		c.Output.Format = d.Output.Format
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = d.Log.Level
	}
}

// Save writes configuration to a file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// YAML renders cfg as it would be saved.
func YAML(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
