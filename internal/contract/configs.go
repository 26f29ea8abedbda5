package contract

import (
	"fmt"
	"maps"
	"os"
	"sort"
	"strings"

	"github.com/jblievremont/sonarqube/internal/logging"
	"github.com/jblievremont/sonarqube/schema"
)

// Default values for configuration.
const (
	DefaultLogLevel      = "info"
	DefaultTargetVersion = -1
)

// Config holds the runtime configuration for a run.
// This struct is the "final, validated" config.
type Config struct {
	ReportDir   string
	Backend     schema.DatabaseBackend
	DBConnect   string // Please use env var as this is plaintext
	LogLevel    string
	MetricsFile string
	Output      schema.OutputMode
	OutputFile  string
	UseColors   bool

	// TargetVersion is the schema version for "db migrate" (-1 = latest, 0 = empty schema).
	TargetVersion int

	// Settings are global property defaults, the lowest layer of project settings.
	Settings map[string]string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ReportDirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Backend     string `mapstructure:"db-backend"`
	DBConnect   string `mapstructure:"db-connect"`
	LogLevel    string `mapstructure:"log-level"`
	Color       string `mapstructure:"color"`
	Output      string `mapstructure:"output"`
	OutputFile  string `mapstructure:"output-file"`
	MetricsFile string `mapstructure:"metrics-file"`

	// --- Fields from dbMigrateCmd.Flags() ---
	TargetVersion int `mapstructure:"target-version"`

	// --- Global settings from config file ---
	Settings map[string]any `mapstructure:"settings"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Settings != nil {
		clone.Settings = make(map[string]string, len(c.Settings))
		maps.Copy(clone.Settings, c.Settings)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := processReportDir(cfg, input); err != nil {
		return err
	}
	cfg.Settings = FlattenSettings(input.Settings)
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
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
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

// ParseBackend normalizes a backend name. Empty means the default SQLite backend.
func ParseBackend(s string) (schema.DatabaseBackend, error) {
	if s == "" {
		return schema.SQLiteBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(s))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// FlattenSettings turns a nested settings tree into dotted property keys, so that
// "sonar: {qualitygate: 1}" and "sonar.qualitygate: 1" resolve to the same property.
func FlattenSettings(raw map[string]any) map[string]string {
	out := make(map[string]string)
	flattenInto(out, "", raw)
	return out
}

func flattenInto(out map[string]string, prefix string, raw map[string]any) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		switch v := raw[k].(type) {
		case map[string]any:
			flattenInto(out, full, v)
		case nil:
			out[full] = ""
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}

// validateBackendConfig validates the persistence backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseBackend(input.Backend)
	if err != nil {
		return err
	}
	cfg.Backend = backend
	cfg.DBConnect = input.DBConnect
	return ValidateDatabaseConnectionString(cfg.Backend, cfg.DBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.MetricsFile = input.MetricsFile
	cfg.TargetVersion = input.TargetVersion

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv", input.Output)
	}

	cfg.LogLevel = input.LogLevel
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if !logging.ParseLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	if input.Color == "" {
		cfg.UseColors = true
		return nil
	}
	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	cfg.UseColors = useColors
	return nil
}

// processReportDir checks the report directory when one was given.
func processReportDir(cfg *Config, input *ConfigRawInput) error {
	if input.ReportDirStr == "" {
		return nil
	}
	info, err := os.Stat(input.ReportDirStr)
	if err != nil {
		return fmt.Errorf("cannot access report directory %q: %w", input.ReportDirStr, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("report path %q is not a directory", input.ReportDirStr)
	}
	cfg.ReportDir = input.ReportDirStr
	return nil
}
