package dedup

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/banks1923/docdedup/internal/minhash"
)

// Config holds configuration for the duplicate detection engine.
type Config struct {
	// Threshold is the minimum similarity (0.0-1.0) for two documents to be
	// considered near-duplicates.
	// Higher values = more conservative (fewer false positives, more false negatives)
	// Lower values = more aggressive (more false positives, fewer false negatives)
	// Default: 0.8
	Threshold float64 `yaml:"threshold"`

	// NumPerm is the MinHash signature length (number of hash functions).
	// More permutations = tighter similarity estimates, slower signatures.
	// Default: 128
	NumPerm int `yaml:"num_perm"`

	// NumBands is the number of LSH bands the signature is split into.
	// More bands = higher candidate recall, more false-positive candidates.
	// NumPerm must be evenly divisible by NumBands; truncated division would
	// silently drop trailing signature slots from bucketing.
	// Default: 16 (8 rows per band at NumPerm=128)
	NumBands int `yaml:"num_bands"`

	// ShingleSize is the k-gram width used when shingling text.
	// Default: 3
	ShingleSize int `yaml:"shingle_size"`

	// Seed drives the MinHash coefficient generator. Signatures are only
	// comparable between detectors sharing the same Seed and NumPerm.
	// Default: minhash.DefaultSeed
	Seed int64 `yaml:"seed"`

	// PreviewLength is how many leading characters of each document are kept
	// on its record for diagnostics and match reporting.
	// Default: 200
	PreviewLength int `yaml:"preview_length"`
}

// DefaultConfig returns the default detection configuration.
//
// These defaults are chosen to:
// - Catch rephrasings, not just byte-identical copies (0.8 threshold)
// - Keep signature cost moderate (128 permutations)
// - Band evenly (128 / 16 bands = 8 rows, no unused slots)
// - Stay reproducible across runs (fixed seed)
func DefaultConfig() Config {
	return Config{
		Threshold:     0.8,
		NumPerm:       128,
		NumBands:      16,
		ShingleSize:   3,
		Seed:          minhash.DefaultSeed,
		PreviewLength: 200,
	}
}

// Validate checks if the configuration has valid values.
func (c Config) Validate() error {
	if c.Threshold <= 0.0 || c.Threshold > 1.0 {
		return fmt.Errorf("threshold must be in (0.0, 1.0] (got %.2f)", c.Threshold)
	}
	if c.NumPerm <= 0 {
		return fmt.Errorf("num_perm must be positive (got %d)", c.NumPerm)
	}
	if c.NumPerm > 4096 {
		return fmt.Errorf("num_perm too large (got %d, max 4096)", c.NumPerm)
	}
	if c.NumBands <= 0 {
		return fmt.Errorf("num_bands must be positive (got %d)", c.NumBands)
	}
	if c.NumBands > c.NumPerm {
		return fmt.Errorf("num_bands (%d) cannot exceed num_perm (%d)", c.NumBands, c.NumPerm)
	}
	if c.NumPerm%c.NumBands != 0 {
		return fmt.Errorf("num_perm (%d) must be divisible by num_bands (%d)", c.NumPerm, c.NumBands)
	}
	if c.ShingleSize <= 0 {
		return fmt.Errorf("shingle_size must be positive (got %d)", c.ShingleSize)
	}
	if c.ShingleSize > 32 {
		return fmt.Errorf("shingle_size too large (got %d, max 32)", c.ShingleSize)
	}
	if c.PreviewLength < 0 {
		return fmt.Errorf("preview_length cannot be negative (got %d)", c.PreviewLength)
	}
	return nil
}

// String returns a human-readable representation of the config.
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Threshold: %.2f, NumPerm: %d, NumBands: %d, ShingleSize: %d, Seed: %d, PreviewLen: %d}",
		c.Threshold, c.NumPerm, c.NumBands, c.ShingleSize, c.Seed, c.PreviewLength,
	)
}

// ConfigFromEnv creates a Config from environment variables, falling back to defaults.
//
// Environment variables:
//   - DOCDEDUP_THRESHOLD: Minimum similarity (0.0-1.0) for near-duplicates (default: 0.8)
//   - DOCDEDUP_NUM_PERM: MinHash signature length (default: 128)
//   - DOCDEDUP_NUM_BANDS: LSH band count (default: 16)
//   - DOCDEDUP_SHINGLE_SIZE: k-gram width (default: 3)
//   - DOCDEDUP_SEED: MinHash coefficient seed (default: 5)
//   - DOCDEDUP_PREVIEW_LENGTH: Stored preview length in characters (default: 200)
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvFloat("DOCDEDUP_THRESHOLD", &cfg.Threshold); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("DOCDEDUP_NUM_PERM", &cfg.NumPerm); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("DOCDEDUP_NUM_BANDS", &cfg.NumBands); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("DOCDEDUP_SHINGLE_SIZE", &cfg.ShingleSize); err != nil {
		return cfg, err
	}
	if err := parseEnvInt64("DOCDEDUP_SEED", &cfg.Seed); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("DOCDEDUP_PREVIEW_LENGTH", &cfg.PreviewLength); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile loads a Config from a YAML file, starting from defaults so
// omitted keys keep their default values.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// parseEnvFloat parses a float64 from an environment variable.
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvInt parses an int from an environment variable.
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvInt64 parses an int64 from an environment variable.
func parseEnvInt64(key string, dest *int64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
