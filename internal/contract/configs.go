package contract

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/botscan/internal/scanfile"
	"github.com/huangsam/botscan/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 50
	MaxResultLimit     = 10000
	DefaultPrecision   = 2
	DefaultTimeout     = 30 * time.Second
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for an evaluation.
// This struct remains the "final, validated" config.
type Config struct {
	Inputs       []string // URLs, submission ids or scan files from positional args
	URLs         []string // URLs read from the url file
	Platform     schema.Platform
	ResultLimit  int
	Workers      int
	Timeout      time.Duration
	Precision    int
	Output       schema.OutputMode
	OutputFile   string
	Width        int // Terminal width override (0 = auto-detect)
	Simple       bool
	Record       bool
	FailOnReject bool

	ScanBackend   schema.DatabaseBackend
	ScanDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	Args []string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Workers          int    `mapstructure:"workers"`
	Timeout          string `mapstructure:"timeout"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	Width            int    `mapstructure:"width"`
	Platform         string `mapstructure:"platform"`
	ScanBackend      string `mapstructure:"scan-backend"`
	ScanDBConnect    string `mapstructure:"scan-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Color            string `mapstructure:"color"`

	// --- Fields from batchCmd.Flags() ---
	URLFile      string `mapstructure:"url-file"`
	Simple       bool   `mapstructure:"simple"`
	Record       bool   `mapstructure:"record"`
	FailOnReject bool   `mapstructure:"fail-on-reject"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Inputs != nil {
		clone.Inputs = make([]string, len(c.Inputs))
		copy(clone.Inputs, c.Inputs)
	}
	if c.URLs != nil {
		clone.URLs = make([]string, len(c.URLs))
		copy(clone.URLs, c.URLs)
	}
	return &clone
}

// Params returns the settings recorded alongside an evaluation run.
func (c *Config) Params() map[string]any {
	return map[string]any{
		"workers":  c.Workers,
		"platform": string(c.Platform),
		"inputs":   len(c.Inputs) + len(c.URLs),
		"record":   c.Record,
	}
}

// BatchTargets returns every URL or submission id to evaluate, args first.
func (c *Config) BatchTargets() []string {
	targets := make([]string, 0, len(c.Inputs)+len(c.URLs))
	targets = append(targets, c.Inputs...)
	return append(targets, c.URLs...)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processPlatform(cfg, input); err != nil {
		return err
	}
	if err := processTargets(cfg, input); err != nil {
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

// validateBackendConfigs validates scan and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Scan Backend Validation ---
	cfg.ScanBackend = schema.DatabaseBackend(strings.ToLower(input.ScanBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.ScanBackend]; !ok {
		return fmt.Errorf("invalid scan backend '%s'. must be sqlite, mysql, postgresql, none", input.ScanBackend)
	}
	cfg.ScanDBConnect = input.ScanDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ScanBackend, cfg.ScanDBConnect); err != nil {
		return fmt.Errorf("scan store: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.NoneBackend
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history store: %w", err)
	}

	// Scans and history must not share one SQLite file
	if cfg.ScanBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		scanDBPath := cfg.ScanDBConnect
		if scanDBPath == "" {
			scanDBPath = GetScanDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if scanDBPath == historyDBPath {
			return fmt.Errorf("scan and history storage must use different SQLite database files. Both resolve to %q", scanDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-target fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Simple = input.Simple
	cfg.Record = input.Record
	cfg.FailOnReject = input.FailOnReject

	// Parse color flag
	cfg.UseColors = false
	if input.Color != "" {
		colors, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		cfg.UseColors = colors
	}

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Timeout Validation ---
	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	// --- 5. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processPlatform handles the optional platform override.
func processPlatform(cfg *Config, input *ConfigRawInput) error {
	cfg.Platform = ""
	if strings.TrimSpace(input.Platform) == "" {
		return nil
	}
	p, err := schema.ParsePlatform(input.Platform)
	if err != nil {
		return fmt.Errorf("invalid --platform value: %w", err)
	}
	cfg.Platform = p
	return nil
}

// processTargets collects positional args and the optional URL list file.
func processTargets(cfg *Config, input *ConfigRawInput) error {
	cfg.Inputs = nil
	for _, arg := range input.Args {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			cfg.Inputs = append(cfg.Inputs, trimmed)
		}
	}

	cfg.URLs = nil
	if input.URLFile == "" {
		return nil
	}
	urls, err := scanfile.ReadURLFile(input.URLFile)
	if err != nil {
		return fmt.Errorf("failed to read url file: %w", err)
	}
	cfg.URLs = urls
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
