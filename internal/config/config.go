// Package config loads plancraft configuration from defaults, an optional
// YAML file, PLANCRAFT_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/plancraft/internal/llm"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PLANCRAFT_LLM_MODEL.
const EnvPrefix = "PLANCRAFT"

// Config represents the application configuration
type Config struct {
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Sandbox   SandboxConfig   `mapstructure:"sandbox"`
	Questions QuestionsConfig `mapstructure:"questions"`
}

// WorkspaceConfig locates the directory that holds plans/.
type WorkspaceConfig struct {
	Dir string `mapstructure:"dir"`
}

// CatalogConfig configures the SQLite plan index.
type CatalogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LLMConfig configures the reasoning backend
type LLMConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	LogCalls    bool          `mapstructure:"log_calls"`
}

// LoggingConfig configures logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// SandboxConfig names the container CLI used for image checks.
type SandboxConfig struct {
	Binary string `mapstructure:"binary"`
}

// QuestionsConfig optionally replaces the backend with a question set file.
type QuestionsConfig struct {
	File string `mapstructure:"file"`
}

// flagKeys maps persistent flag names onto config keys.
var flagKeys = map[string]string{
	"workspace":    "workspace.dir",
	"log-level":    "logging.level",
	"log-format":   "logging.format",
	"llm-endpoint": "llm.endpoint",
	"llm-model":    "llm.model",
	"questions":    "questions.file",
}

// Load loads configuration. An empty configPath searches
// ./.plancraft.yaml and ~/.config/plancraft/config.yaml; a missing file
// is fine there, but an explicit path must exist. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	home, _ := os.UserHomeDir()

	setDefaults(v, home)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".plancraft")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home != "" {
			v.AddConfigPath(filepath.Join(home, ".config", "plancraft"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	// ~/.config/plancraft/config.yaml uses the plain name
	if configPath == "" && v.ConfigFileUsed() == "" && home != "" {
		alt := filepath.Join(home, ".config", "plancraft", "config.yaml")
		if _, err := os.Stat(alt); err == nil {
			v.SetConfigFile(alt)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := BindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if flags != nil {
		if f := flags.Lookup("no-catalog"); f != nil && f.Changed {
			cfg.Catalog.Enabled = false
		}
	}

	cfg.Workspace.Dir = expandHome(cfg.Workspace.Dir, home)
	cfg.Catalog.Path = expandHome(cfg.Catalog.Path, home)
	cfg.Questions.File = expandHome(cfg.Questions.File, home)
	if cfg.Logging.Output != "stderr" {
		cfg.Logging.Output = expandHome(cfg.Logging.Output, home)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// BindFlags binds the known flags present in flags.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper, home string) {
	base := filepath.Join(home, ".plancraft")

	v.SetDefault("workspace.dir", filepath.Join(base, "workspace"))

	v.SetDefault("catalog.enabled", true)
	v.SetDefault("catalog.path", filepath.Join(base, "plancraft.db"))

	defaults := llm.DefaultConfig()
	task := defaults.Tasks[llm.TaskQuestionSet]
	v.SetDefault("llm.endpoint", defaults.Endpoint)
	v.SetDefault("llm.model", defaults.Model)
	v.SetDefault("llm.timeout", defaults.Timeout)
	v.SetDefault("llm.temperature", task.Temperature)
	v.SetDefault("llm.max_tokens", task.MaxTokens)
	v.SetDefault("llm.log_calls", false)

	// warn keeps log lines out of interactive prompts
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("sandbox.binary", "docker")

	v.SetDefault("questions.file", "")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Workspace.Dir) == "" {
		return fmt.Errorf("workspace.dir is required")
	}
	if c.Catalog.Enabled && strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("catalog.path is required when the catalog is enabled")
	}

	if c.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2.0 {
		return fmt.Errorf("llm.temperature must be between 0 and 2.0")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive")
	}

	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: console, json")
	}
	if c.Logging.Output == "" {
		return fmt.Errorf("logging.output is required")
	}

	if c.Sandbox.Binary == "" {
		return fmt.Errorf("sandbox.binary is required")
	}
	return nil
}

// Transport converts the backend settings to the llm transport config.
func (c *Config) Transport() llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Endpoint = strings.TrimRight(c.LLM.Endpoint, "/")
	cfg.Model = c.LLM.Model
	cfg.Timeout = c.LLM.Timeout
	cfg.LogCalls = c.LLM.LogCalls
	cfg.Tasks[llm.TaskQuestionSet] = llm.TaskConfig{
		Temperature: c.LLM.Temperature,
		MaxTokens:   c.LLM.MaxTokens,
	}
	return cfg
}

// ParseLogLevel maps a config level name onto zerolog.
func ParseLogLevel(level string) (zerolog.Level, error) {
	switch level {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.WarnLevel, fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
}

func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(home, rest)
	}
	return path
}
