package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/mergeguard"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".mergeguard"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for mergeguard settings.
const envPrefix = "MERGEGUARD"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"repo":         "repository.path",
	"remote":       "repository.remote",
	"target":       "repository.target_branch",
	"threshold":    "detection.rename_threshold",
	"model":        "analysis.model",
	"workers":      "analysis.workers",
	"max-attempts": "analysis.max_attempts",
	"timeout":      "analysis.timeout",
	"backoff":      "analysis.backoff",
	"cache":        "analysis.cache",
	"cache-dir":    "analysis.cache_dir",
	"report":       "report.file",
	"jsonl":        "report.jsonl_file",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"theme":        "output.theme",
	"addr":         "server.addr",
}

// Load loads configuration from defaults, file, env vars and flags, in
// increasing precedence. If configPath is non-empty it is used as the
// explicit config file; otherwise .mergeguard.yaml in the working directory
// is used when present. flags may be nil; only flags named in FlagKeys are
// bound. Every returned error wraps mergeguard.ErrPrecondition.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()
	// The API key is also accepted under the provider's conventional name.
	if err := v.BindEnv("api_key", "GEMINI_API_KEY", envPrefix+"_API_KEY"); err != nil {
		return nil, fmt.Errorf("%w: bind env: %w", mergeguard.ErrPrecondition, err)
	}

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("%w: bind flag %s: %w", mergeguard.ErrPrecondition, name, err)
				}
			}
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("%w: config file: %w", mergeguard.ErrPrecondition, err)
		}
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: read config: %w", mergeguard.ErrPrecondition, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config: %w", mergeguard.ErrPrecondition, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")

	v.SetDefault("repository.path", DefaultRepositoryPath)
	v.SetDefault("repository.remote", DefaultRemote)
	v.SetDefault("repository.target_branch", DefaultTargetBranch)

	v.SetDefault("detection.rename_threshold", DefaultRenameThreshold)

	v.SetDefault("analysis.model", DefaultModel)
	v.SetDefault("analysis.workers", DefaultWorkers)
	v.SetDefault("analysis.max_attempts", DefaultMaxAttempts)
	v.SetDefault("analysis.timeout", DefaultTimeout)
	v.SetDefault("analysis.backoff", DefaultBackoff)
	v.SetDefault("analysis.cache", false)
	v.SetDefault("analysis.cache_dir", "")

	v.SetDefault("report.file", DefaultReportFile)
	v.SetDefault("report.jsonl_file", "")

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)

	v.SetDefault("output.theme", DefaultTheme)

	v.SetDefault("server.addr", DefaultServerAddr)
}
