package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nishanthkj/llmkit/internal/errors"
	"github.com/nishanthkj/llmkit/internal/serializer"
)

// Environment variables that override the config file.
const (
	EnvTargets    = "LLMKIT_TARGETS"
	EnvPermissive = "LLMKIT_PERMISSIVE"
	EnvMaxBytes   = "LLMKIT_MAX_BYTES"
	EnvLogLevel   = "LLMKIT_LOG_LEVEL"
)

// Config represents the complete configuration for llmkit
type Config struct {
	Targets    []string   `yaml:"targets"`
	Permissive bool       `yaml:"permissive"`
	MaxBytes   int        `yaml:"max_bytes"`
	LogLevel   string     `yaml:"log_level"`
	YAML       YAMLConfig `yaml:"yaml"`
	CSV        CSVConfig  `yaml:"csv"`
	JSON       JSONConfig `yaml:"json"`
}

// YAMLConfig controls YAML rendering
type YAMLConfig struct {
	Indent int `yaml:"indent"`
}

// CSVConfig controls CSV rendering
type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
}

// JSONConfig controls the Beautified and json renderings
type JSONConfig struct {
	Indent     string `yaml:"indent"`
	EscapeHTML bool   `yaml:"escape_html"`
}

// Overrides holds values given on the command line. Zero values mean the
// flag was not set.
type Overrides struct {
	Targets    []string
	Permissive bool
	MaxBytes   int
	LogLevel   string
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		YAML: YAMLConfig{Indent: 2},
		CSV:  CSVConfig{Delimiter: ","},
		JSON: JSONConfig{Indent: "  "},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	// Start with defaults
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigurationError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return FindConfigFileFrom(currentDir)
}

// FindConfigFileFrom searches dir and its parents for a config file
func FindConfigFileFrom(dir string) string {
	configNames := []string{".llmkit.yml", ".llmkit.yaml", "llmkit.yml", "llmkit.yaml"}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
				return configPath
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			// Reached root directory
			return ""
		}
		dir = parentDir
	}
}

// LoadDotEnv loads environment variables from a .env file without
// overriding variables already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return errors.NewConfigurationError(fmt.Sprintf("failed to load '%s'", path), err)
	}
	return nil
}

// ApplyEnv overrides config values with LLMKIT_* environment variables
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvTargets)); v != "" {
		c.Targets = SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvPermissive)); v != "" {
		permissive, err := strconv.ParseBool(v)
		if err != nil {
			return errors.NewConfigurationError(fmt.Sprintf("%s must be a boolean, got %q", EnvPermissive, v), err)
		}
		c.Permissive = permissive
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxBytes)); v != "" {
		maxBytes, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewConfigurationError(fmt.Sprintf("%s must be an integer, got %q", EnvMaxBytes, v), err)
		}
		c.MaxBytes = maxBytes
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Merge applies CLI overrides. Non-zero override values take precedence.
func (c *Config) Merge(o Overrides) {
	if len(o.Targets) > 0 {
		c.Targets = o.Targets
	}
	// A flag can only switch permissive mode on
	if o.Permissive {
		c.Permissive = true
	}
	if o.MaxBytes > 0 {
		c.MaxBytes = o.MaxBytes
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// Validate checks values the rest of the pipeline relies on
func (c *Config) Validate() error {
	if c.MaxBytes < 0 {
		return errors.NewConfigurationError(fmt.Sprintf("max_bytes must not be negative, got %d", c.MaxBytes), nil)
	}
	if c.YAML.Indent < 1 || c.YAML.Indent > 9 {
		return errors.NewConfigurationError(fmt.Sprintf("yaml.indent must be between 1 and 9, got %d", c.YAML.Indent), nil)
	}
	if _, err := c.delimiter(); err != nil {
		return err
	}
	if strings.Trim(c.JSON.Indent, " \t") != "" {
		return errors.NewConfigurationError(fmt.Sprintf("json.indent must contain only spaces or tabs, got %q", c.JSON.Indent), nil)
	}
	return nil
}

func (c *Config) delimiter() (rune, error) {
	d := c.CSV.Delimiter
	if d == "" {
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(d)
	if size != len(d) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, errors.NewConfigurationError(fmt.Sprintf("csv.delimiter must be a single character other than a quote or newline, got %q", d), nil)
	}
	return r, nil
}

// RenderOptions converts the rendering sections into serializer options
func (c *Config) RenderOptions() serializer.Options {
	delim, err := c.delimiter()
	if err != nil {
		delim = ','
	}
	return serializer.Options{
		JSONIndent:   c.JSON.Indent,
		EscapeHTML:   c.JSON.EscapeHTML,
		YAMLIndent:   c.YAML.Indent,
		CSVDelimiter: delim,
	}
}

// LoadConfigWithCLI resolves the configuration with precedence
// defaults < config file < environment < CLI flags. An empty configPath
// searches the working directory and its parents.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg := NewConfig()
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.Merge(o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SplitList splits a comma separated list, dropping blank entries
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
