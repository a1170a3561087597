// Package config loads passgen settings from an optional TOML file, an
// optional dotenv file and PASSGEN_* environment variables. Command line
// flags are applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/isseis/go-passgen/internal/digest"
	"github.com/isseis/go-passgen/internal/generator"
	"github.com/isseis/go-passgen/internal/logging"
	"github.com/isseis/go-passgen/internal/mask"
	"github.com/isseis/go-passgen/internal/safefileio"
	"github.com/isseis/go-passgen/internal/table"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Default values for configuration fields
const (
	DefaultWarnLength = 10
	DefaultWarnCount  = 10_000_000
	DefaultLogLevel   = "info"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "PASSGEN_"

// Config holds every setting that can come from a file or the environment.
type Config struct {
	TablePath   string           `toml:"table_path"`
	Table       string           `toml:"table"`
	HashAlg     digest.Algorithm `toml:"hash_alg"`
	DisableHash bool             `toml:"disable_hash"`
	Mask        string           `toml:"mask"`
	MaskClasses bool             `toml:"mask_classes"`
	// Workers bounds the digest pool. Zero selects the number of CPUs.
	Workers int `toml:"workers"`
	// WarnLength and WarnCount trigger the large-input warning. Zero disables each check.
	WarnLength int    `toml:"warn_length"`
	WarnCount  int64  `toml:"warn_count"`
	LogLevel   string `toml:"log_level"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Table:      table.DefaultTableName,
		HashAlg:    digest.DefaultAlgorithm,
		WarnLength: DefaultWarnLength,
		WarnCount:  DefaultWarnCount,
		LogLevel:   DefaultLogLevel,
	}
}

// Load reads a TOML file over the defaults. Keys not listed in Config are rejected.
func Load(path string) (Config, error) {
	content, err := safefileio.SafeReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(content)
}

// Parse decodes TOML content over the defaults.
func Parse(content []byte) (Config, error) {
	cfg := Default()
	decoder := toml.NewDecoder(bytes.NewReader(content)).DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, strictErr.String())
		}
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile parses a dotenv file.
func LoadEnvFile(path string) (map[string]string, error) {
	content, err := safefileio.SafeReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file %s securely: %w", path, err)
	}
	env, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment file %s: %w", path, err)
	}
	return env, nil
}

// ProcessEnv returns the PASSGEN_* variables of the current process.
func ProcessEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, EnvPrefix) {
			env[key] = value
		}
	}
	return env
}

// MergeEnv merges sources left to right; later sources win.
func MergeEnv(sources ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, src := range sources {
		maps.Copy(merged, src)
	}
	return merged
}

// ApplyEnv overrides fields from PASSGEN_* keys in env. Other keys are ignored.
func (c *Config) ApplyEnv(env map[string]string) error {
	for key, value := range env {
		field, ok := strings.CutPrefix(key, EnvPrefix)
		if !ok {
			continue
		}
		if err := c.set(strings.ToLower(field), value); err != nil {
			return &ValidationError{Field: key, Value: value, Err: err}
		}
	}
	return nil
}

func (c *Config) set(field, value string) error {
	var err error
	switch field {
	case "table_path":
		c.TablePath = value
	case "table":
		c.Table = value
	case "hash_alg":
		c.HashAlg, err = digest.ParseAlgorithm(value)
	case "disable_hash":
		c.DisableHash, err = strconv.ParseBool(value)
	case "mask":
		c.Mask = value
	case "mask_classes":
		c.MaskClasses, err = strconv.ParseBool(value)
	case "workers":
		c.Workers, err = strconv.Atoi(value)
	case "warn_length":
		c.WarnLength, err = strconv.Atoi(value)
	case "warn_count":
		c.WarnCount, err = strconv.ParseInt(value, 10, 64)
	case "log_level":
		c.LogLevel = value
	}
	return err
}

// Validate checks field ranges and that names resolve to known values.
func (c *Config) Validate() error {
	if c.Table == "" {
		return &ValidationError{Field: "table", Err: errors.New("must not be empty")}
	}
	if !c.DisableHash && !c.HashAlg.Valid() {
		return &ValidationError{Field: "hash_alg", Value: c.HashAlg.String(), Err: digest.ErrUnsupportedAlgorithm}
	}
	if c.Mask != "" {
		if _, err := mask.Parse(c.Mask); err != nil {
			return &ValidationError{Field: "mask", Value: c.Mask, Err: err}
		}
	}
	if c.Workers < 0 {
		return &ValidationError{Field: "workers", Value: strconv.Itoa(c.Workers), Err: errors.New("must not be negative")}
	}
	if c.Workers > generator.MaxWorkers {
		return &ValidationError{Field: "workers", Value: strconv.Itoa(c.Workers), Err: fmt.Errorf("must not exceed %d", generator.MaxWorkers)}
	}
	if c.WarnLength < 0 {
		return &ValidationError{Field: "warn_length", Value: strconv.Itoa(c.WarnLength), Err: errors.New("must not be negative")}
	}
	if c.WarnCount < 0 {
		return &ValidationError{Field: "warn_count", Value: strconv.FormatInt(c.WarnCount, 10), Err: errors.New("must not be negative")}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Field: "log_level", Value: c.LogLevel, Err: err}
	}
	return nil
}
