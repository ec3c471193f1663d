// Package config loads mergeguard settings from defaults, an optional YAML
// file, the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/mergeguard"
	"github.com/rs/zerolog"
)

// Defaults.
const (
	DefaultRepositoryPath  = "."
	DefaultRemote          = "origin"
	DefaultTargetBranch    = "main"
	DefaultRenameThreshold = mergeguard.DefaultRenameThreshold
	DefaultModel           = "gemini-2.5-flash"
	DefaultWorkers         = 1
	DefaultMaxAttempts     = 1
	DefaultTimeout         = 60 * time.Second
	DefaultBackoff         = time.Second
	DefaultReportFile      = mergeguard.DefaultReportFile
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultTheme           = "dark"
	DefaultServerAddr      = ":8080"
)

// Config holds all mergeguard settings.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	APIKey     string           `mapstructure:"api_key"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Detection  DetectionConfig  `mapstructure:"detection"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Report     ReportConfig     `mapstructure:"report"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Output     OutputConfig     `mapstructure:"output"`
	Server     ServerConfig     `mapstructure:"server"`
}

// RepositoryConfig locates the working copy and the target branch.
type RepositoryConfig struct {
	Path         string `mapstructure:"path"`
	Remote       string `mapstructure:"remote"`
	TargetBranch string `mapstructure:"target_branch"`
}

// DetectionConfig tunes move detection.
type DetectionConfig struct {
	RenameThreshold float64 `mapstructure:"rename_threshold"`
}

// AnalysisConfig tunes the reasoning stage.
type AnalysisConfig struct {
	Model       string        `mapstructure:"model"`
	Workers     int           `mapstructure:"workers"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Backoff     time.Duration `mapstructure:"backoff"`
	Cache       bool          `mapstructure:"cache"`
	CacheDir    string        `mapstructure:"cache_dir"` // empty means the user cache dir
}

// ReportConfig names the output artifacts.
type ReportConfig struct {
	File      string `mapstructure:"file"`
	JSONLFile string `mapstructure:"jsonl_file"` // empty disables the JSONL sidecar
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// OutputConfig configures console output.
type OutputConfig struct {
	Theme string `mapstructure:"theme"` // dark or light
}

// ServerConfig configures the status server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Sentinel errors for configuration validation. Each wraps
// mergeguard.ErrPrecondition.
var (
	// ErrInvalidThreshold indicates a rename threshold outside (0, 1].
	ErrInvalidThreshold = fmt.Errorf("%w: detection.rename_threshold must be in (0, 1]", mergeguard.ErrPrecondition)
	// ErrInvalidWorkers indicates fewer than one analysis worker.
	ErrInvalidWorkers = fmt.Errorf("%w: analysis.workers must be at least 1", mergeguard.ErrPrecondition)
	// ErrInvalidMaxAttempts indicates fewer than one analysis attempt.
	ErrInvalidMaxAttempts = fmt.Errorf("%w: analysis.max_attempts must be at least 1", mergeguard.ErrPrecondition)
	// ErrInvalidTimeout indicates a non-positive analysis timeout.
	ErrInvalidTimeout = fmt.Errorf("%w: analysis.timeout must be positive", mergeguard.ErrPrecondition)
	// ErrInvalidBackoff indicates a negative retry backoff.
	ErrInvalidBackoff = fmt.Errorf("%w: analysis.backoff must be non-negative", mergeguard.ErrPrecondition)
	// ErrMissingTargetBranch indicates an empty remote or target branch.
	ErrMissingTargetBranch = fmt.Errorf("%w: repository.remote and repository.target_branch are required", mergeguard.ErrPrecondition)
	// ErrMissingReportFile indicates an empty report path.
	ErrMissingReportFile = fmt.Errorf("%w: report.file is required", mergeguard.ErrPrecondition)
	// ErrInvalidLogLevel indicates a level zerolog cannot parse.
	ErrInvalidLogLevel = fmt.Errorf("%w: logging.level is not a valid level", mergeguard.ErrPrecondition)
	// ErrInvalidLogFormat indicates a format other than console or json.
	ErrInvalidLogFormat = fmt.Errorf("%w: logging.format must be console or json", mergeguard.ErrPrecondition)
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.Detection.RenameThreshold <= 0 || c.Detection.RenameThreshold > 1 {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidThreshold, c.Detection.RenameThreshold))
	}
	if c.Analysis.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Analysis.Workers))
	}
	if c.Analysis.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMaxAttempts, c.Analysis.MaxAttempts))
	}
	if c.Analysis.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Analysis.Timeout))
	}
	if c.Analysis.Backoff < 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidBackoff, c.Analysis.Backoff))
	}
	if strings.TrimSpace(c.Repository.Remote) == "" || strings.TrimSpace(c.Repository.TargetBranch) == "" {
		errs = append(errs, ErrMissingTargetBranch)
	}
	if strings.TrimSpace(c.Report.File) == "" {
		errs = append(errs, ErrMissingReportFile)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format))
	}

	return errors.Join(errs...)
}

// ReportPath returns report.file, resolved against repository.path when relative.
func (c *Config) ReportPath() string {
	return c.repoRelative(c.Report.File)
}

// ResultsPath returns report.jsonl_file, resolved like ReportPath. It is empty
// when the sidecar is disabled.
func (c *Config) ResultsPath() string {
	return c.repoRelative(c.Report.JSONLFile)
}

func (c *Config) repoRelative(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Repository.Path, p)
}

// RequireCredential returns an error wrapping mergeguard.ErrCredentialMissing
// when no API key is configured.
func (c *Config) RequireCredential() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY", mergeguard.ErrCredentialMissing)
	}
	return nil
}
