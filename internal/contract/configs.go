package contract

import (
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/elcfinder/elcfinder/schema"
)

// Default values for configuration.
const (
	DefaultSource       = "schools.json"
	DefaultResultLimit  = 50
	MaxResultLimit      = 1000
	DefaultPrecision    = 2
	MaxPrecision        = 3
	DefaultCacheTTL     = time.Hour
	DefaultFetchTimeout = 10 * time.Second
	DefaultAddr         = ":8080"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// WeightsRawInput holds the per-criterion weights from the YAML config file.
// Pointers distinguish an explicit 0 from an omitted criterion.
type WeightsRawInput struct {
	Cost       *float64 `mapstructure:"cost"`
	Education  *float64 `mapstructure:"education"`
	Staff      *float64 `mapstructure:"staff"`
	Facilities *float64 `mapstructure:"facilities"`
	Reputation *float64 `mapstructure:"reputation"`
	NQS        *float64 `mapstructure:"nqs"`
}

// Config holds the runtime configuration for ranking.
// This struct remains the "final, validated" config.
type Config struct {
	Source      string
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Explain     bool
	Cards       bool
	Width       int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	CacheTTL       time.Duration
	FetchTimeout   time.Duration
	MissingRatings schema.MissingRatings
	TieBreak       schema.TieBreak

	// Weights is the final weight vector, computed from defaults + config file + overrides
	Weights schema.Weights

	// Statuses overlays a status onto schools by ID after loading
	Statuses map[int]schema.SchoolStatus

	Addr        string
	Watch       bool
	CORSOrigins []string

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Source           string `mapstructure:"source"`
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	Detail           bool   `mapstructure:"detail"`
	Width            int    `mapstructure:"width"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	FetchTimeout     string `mapstructure:"fetch-timeout"`
	MissingRatings   string `mapstructure:"missing-ratings"`
	TieBreak         string `mapstructure:"tie-break"`
	Color            string `mapstructure:"color"`
	WeightsOverride  string `mapstructure:"weights-override"`

	// --- Fields from rankCmd.Flags() ---
	Explain bool `mapstructure:"explain"`
	Cards   bool `mapstructure:"cards"`

	// --- Fields from serveCmd.Flags() ---
	Addr        string `mapstructure:"addr"`
	Watch       bool   `mapstructure:"watch"`
	CORSOrigins string `mapstructure:"cors-origins"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`

	// --- Status overlay from config file, keyed by school ID ---
	Statuses map[string]string `mapstructure:"statuses"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights != nil {
		clone.Weights = c.Weights.Clone()
	}
	if c.Statuses != nil {
		clone.Statuses = make(map[int]schema.SchoolStatus, len(c.Statuses))
		maps.Copy(clone.Statuses, c.Statuses)
	}
	if c.CORSOrigins != nil {
		clone.CORSOrigins = make([]string, len(c.CORSOrigins))
		copy(clone.CORSOrigins, c.CORSOrigins)
	}
	return &clone
}

// CloneWithWeights creates a copy of the Config with the given weights merged over its own.
func (c *Config) CloneWithWeights(overrides schema.Weights) *Config {
	clone := c.Clone()
	if clone.Weights == nil {
		clone.Weights = schema.DefaultWeights()
	}
	maps.Copy(clone.Weights, overrides)
	return clone
}

// RunParams returns the settings recorded alongside a ranking run.
func (c *Config) RunParams() map[string]any {
	weights := make(map[string]float64, len(c.Weights))
	for k, v := range c.Weights.Normalized() {
		weights[string(k)] = v
	}
	return map[string]any{
		"source":          c.Source,
		"weights":         weights,
		"tie_break":       string(c.TieBreak),
		"limit":           c.ResultLimit,
		"missing_ratings": string(c.MissingRatings),
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := processStatuses(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// Validate that cache and history use different SQLite files
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.Cards = input.Cards
	cfg.Width = input.Width
	cfg.Watch = input.Watch

	cfg.Source = strings.TrimSpace(input.Source)
	if cfg.Source == "" {
		cfg.Source = DefaultSource
	}

	cfg.Addr = strings.TrimSpace(input.Addr)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	cfg.CORSOrigins = nil
	for origin := range strings.SplitSeq(input.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, trimmed)
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Policy Validation ---
	cfg.MissingRatings = schema.MissingRatings(strings.ToLower(input.MissingRatings))
	if cfg.MissingRatings == "" {
		cfg.MissingRatings = schema.ZeroMissingRatings
	}
	if _, ok := schema.ValidMissingRatings[cfg.MissingRatings]; !ok {
		return fmt.Errorf("invalid missing-ratings policy '%s'. must be zero, skip", input.MissingRatings)
	}

	cfg.TieBreak = schema.TieBreak(strings.ToLower(input.TieBreak))
	if cfg.TieBreak == "" {
		cfg.TieBreak = schema.InputOrderTieBreak
	}
	if _, ok := schema.ValidTieBreaks[cfg.TieBreak]; !ok {
		return fmt.Errorf("invalid tie-break '%s'. must be input, pairwise, name", input.TieBreak)
	}

	return nil
}

// processDurations parses the cache TTL and fetch timeout.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	cfg.FetchTimeout = DefaultFetchTimeout
	if input.FetchTimeout != "" {
		timeout, err := time.ParseDuration(input.FetchTimeout)
		if err != nil {
			return fmt.Errorf("invalid fetch-timeout '%s': %w", input.FetchTimeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("fetch-timeout must be positive (received %s)", input.FetchTimeout)
		}
		cfg.FetchTimeout = timeout
	}
	return nil
}

// ValidateWeight checks that a weight is finite and within the accepted range.
func ValidateWeight(c schema.Criterion, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("weight for %s must be a finite number", c)
	}
	if v < schema.MinWeight || v > schema.MaxWeight {
		return fmt.Errorf("weight for %s must be between %.0f and %.0f (received %g)", c, schema.MinWeight, schema.MaxWeight, v)
	}
	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into a partial weights map.
// Omitted criteria are absent from the result.
func ProcessWeightsRawInput(raw WeightsRawInput) (schema.Weights, error) {
	result := schema.Weights{}
	fields := map[schema.Criterion]*float64{
		schema.CostCriterion:       raw.Cost,
		schema.EducationCriterion:  raw.Education,
		schema.StaffCriterion:      raw.Staff,
		schema.FacilitiesCriterion: raw.Facilities,
		schema.ReputationCriterion: raw.Reputation,
		schema.NQSCriterion:        raw.NQS,
	}
	for c, v := range fields {
		if v == nil {
			continue
		}
		if err := ValidateWeight(c, *v); err != nil {
			return nil, err
		}
		result[c] = *v
	}
	return result, nil
}

// ParseWeightsString parses a string like "cost:5,nqs:8" into a partial weights map.
func ParseWeightsString(s string) (schema.Weights, error) {
	weights := schema.Weights{}
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, found := strings.Cut(part, ":")
		if !found {
			return nil, fmt.Errorf("invalid weight format '%s', expected 'criterion:value'", part)
		}

		c := schema.Criterion(strings.ToLower(strings.TrimSpace(key)))
		if _, ok := schema.ValidCriteria[c]; !ok {
			return nil, fmt.Errorf("invalid criterion '%s', must be cost, education, staff, facilities, reputation, or nqs", key)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight value '%s' for %s: %w", value, c, err)
		}
		if err := ValidateWeight(c, v); err != nil {
			return nil, err
		}
		weights[c] = v
	}
	return weights, nil
}

// processWeights computes the final weights: defaults, then the config file,
// then the --weights-override flag.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.DefaultWeights()

	fromFile, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}
	maps.Copy(weights, fromFile)

	if input.WeightsOverride != "" {
		overrides, err := ParseWeightsString(input.WeightsOverride)
		if err != nil {
			return fmt.Errorf("invalid --weights-override: %w", err)
		}
		maps.Copy(weights, overrides)
	}

	cfg.Weights = weights
	return nil
}

// processStatuses converts the raw status overlay into a map keyed by school ID.
func processStatuses(cfg *Config, input *ConfigRawInput) error {
	cfg.Statuses = make(map[int]schema.SchoolStatus, len(input.Statuses))
	for rawID, rawStatus := range input.Statuses {
		id, err := strconv.Atoi(strings.TrimSpace(rawID))
		if err != nil {
			return fmt.Errorf("invalid school id '%s' in statuses: %w", rawID, err)
		}
		status, ok := schema.ParseSchoolStatus(rawStatus)
		if !ok {
			return fmt.Errorf("invalid status '%s' for school %d", rawStatus, id)
		}
		cfg.Statuses[id] = status
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
