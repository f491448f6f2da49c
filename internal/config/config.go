// Package config loads and validates server settings.
// Settings come from defaults, an optional YAML config file, and
// BIO_MCP_-prefixed environment variables; environment wins over file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix scopes all environment overrides (BIO_MCP_SEQKIT_PATH, ...).
const EnvPrefix = "BIO_MCP"

// Defaults for every setting.
const (
	DefaultSeqKitPath    = "seqkit"
	DefaultTimeout       = 600 * time.Second
	DefaultMaxFileSize   = int64(10_000_000_000) // 10GB for large sequence files
	DefaultLogLevel      = "info"
	DefaultTraceExporter = "none"
	DefaultTraceEndpoint = "localhost:4317"
)

// Settings is the immutable configuration value handed to constructors.
// No component mutates it after Load.
type Settings struct {
	// SeqKitPath is the seqkit binary: a bare name resolved via PATH or an
	// absolute path.
	SeqKitPath string

	// TempDir is the parent directory for per-invocation workspaces.
	// Empty means the system temp directory.
	TempDir string

	// Timeout bounds each primary seqkit invocation.
	Timeout time.Duration

	// MaxFileSize is the input size ceiling in bytes.
	MaxFileSize int64

	Log     LogSettings
	Journal JournalSettings
	Trace   TraceSettings

	// ConfigFile is the file settings were read from, empty when none.
	ConfigFile string
}

// LogSettings configures the file logger.
type LogSettings struct {
	// Level is one of debug, info, warn, error.
	Level string

	// File is the log sink path; empty disables logging entirely
	// (stdout is never an option, the MCP stream owns it).
	File string
}

// JournalSettings configures the invocation journal.
type JournalSettings struct {
	// Path is the SQLite database file; empty disables the journal.
	Path string
}

// TraceSettings configures OpenTelemetry export.
type TraceSettings struct {
	// Exporter is one of none, stdout, otlp.
	Exporter string

	// Endpoint is the OTLP gRPC target, used only when Exporter is otlp.
	Endpoint string
}

// Load reads settings from defaults, the config file, and the environment.
// An explicit configFile must exist; the default lookup locations are
// optional. The returned Settings are fully validated.
func Load(configFile string) (Settings, error) {
	v := viper.New()

	v.SetDefault("seqkit_path", DefaultSeqKitPath)
	v.SetDefault("temp_dir", "")
	v.SetDefault("timeout", "600s")
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("journal.path", "")
	v.SetDefault("trace.exporter", DefaultTraceExporter)
	v.SetDefault("trace.endpoint", DefaultTraceEndpoint)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "bio-mcp-seqkit"))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Settings{}, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	timeout, err := parseTimeout(v.GetString("timeout"))
	if err != nil {
		return Settings{}, err
	}

	s := Settings{
		SeqKitPath:  v.GetString("seqkit_path"),
		TempDir:     v.GetString("temp_dir"),
		Timeout:     timeout,
		MaxFileSize: v.GetInt64("max_file_size"),
		Log: LogSettings{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
		Journal: JournalSettings{
			Path: v.GetString("journal.path"),
		},
		Trace: TraceSettings{
			Exporter: v.GetString("trace.exporter"),
			Endpoint: v.GetString("trace.endpoint"),
		},
		ConfigFile: v.ConfigFileUsed(),
	}

	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// parseTimeout accepts duration strings ("600s", "10m") and, for parity
// with the original BIO_MCP_TIMEOUT convention, bare integers as seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTimeout, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	return d, nil
}

func (s Settings) validate() error {
	if s.SeqKitPath == "" {
		return fmt.Errorf("seqkit_path must not be empty")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", s.Timeout)
	}
	if s.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be positive, got %d", s.MaxFileSize)
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", s.Log.Level)
	}
	switch s.Trace.Exporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown trace exporter %q (want none, stdout, or otlp)", s.Trace.Exporter)
	}
	if s.Trace.Exporter == "otlp" && s.Trace.Endpoint == "" {
		return fmt.Errorf("trace endpoint must be set for the otlp exporter")
	}
	return nil
}

// DefaultConfigPath returns the conventional config file location
// ($XDG_CONFIG_HOME/bio-mcp-seqkit/config.yaml or the OS equivalent).
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "bio-mcp-seqkit", "config.yaml"), nil
}
