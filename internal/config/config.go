// Package config holds the settings of the meascodec command: a YAML file
// layered under flags and MEASCODEC_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"meascodec/internal/schema"
	"meascodec/pkg/meas"
	"meascodec/pkg/meas/xsd"
)

// EnvPrefix is the prefix of environment variables read by Resolve
const EnvPrefix = "MEASCODEC"

// Config models meascodec.yml
type Config struct {
	Output struct {
		Indent          int    `yaml:"indent"`
		IDPrefix        string `yaml:"id_prefix"`
		ParameterPrefix string `yaml:"parameter_prefix"`
		JSON            bool   `yaml:"json"`
	} `yaml:"output"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Schema struct {
		// Rules names a YAML file with extra structural rules
		Rules string `yaml:"rules"`
	} `yaml:"schema"`
	Metrics struct {
		// Textfile receives the batch counters when set
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

var idPrefixPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// Default returns the built-in configuration
func Default() *Config {
	var cfg Config
	cfg.Output.Indent = meas.DefaultIndent
	cfg.Output.ParameterPrefix = meas.DefaultParameterPrefix
	cfg.Logging.Level = "info"
	return &cfg
}

// FromYAML parses config from raw YAML bytes over the defaults and validates it
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config is usable
func (c *Config) Validate() error {
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		return fmt.Errorf("config.output.indent must be between 0 and 8, got %d", c.Output.Indent)
	}
	if c.Output.IDPrefix != "" && !idPrefixPattern.MatchString(c.Output.IDPrefix) {
		return fmt.Errorf("config.output.id_prefix %q is not a valid gml:id start", c.Output.IDPrefix)
	}
	if c.Output.ParameterPrefix == "" {
		return fmt.Errorf("config.output.parameter_prefix is required")
	}
	if xsd.ContainsWhitespace(c.Output.ParameterPrefix) {
		return fmt.Errorf("config.output.parameter_prefix must not contain whitespace")
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// Resolve builds the effective config: defaults, then the file named by the
// "config" key, then any flag or environment value set in v
func Resolve(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if path := v.GetString("config"); path != "" {
		loaded, err := FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		cfg = loaded
	}

	if v.IsSet("indent") {
		cfg.Output.Indent = v.GetInt("indent")
	}
	if v.IsSet("id-prefix") {
		cfg.Output.IDPrefix = v.GetString("id-prefix")
	}
	if v.IsSet("parameter-prefix") {
		cfg.Output.ParameterPrefix = v.GetString("parameter-prefix")
	}
	if v.IsSet("json") {
		cfg.Output.JSON = v.GetBool("json")
	}
	if v.IsSet("log-level") {
		cfg.Logging.Level = v.GetString("log-level")
	}
	if v.IsSet("schema-rules") {
		cfg.Schema.Rules = v.GetString("schema-rules")
	}
	if v.IsSet("metrics-file") {
		cfg.Metrics.Textfile = v.GetString("metrics-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BindEnv makes v read MEASCODEC_* variables, with dashes in keys mapped to underscores
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// WriteOptions returns the codec options selected by the config
func (c *Config) WriteOptions() []meas.WriteOption {
	return []meas.WriteOption{
		meas.WithIndent(c.Output.Indent),
		meas.WithIDPrefix(c.Output.IDPrefix),
		meas.WithParameterPrefix(c.Output.ParameterPrefix),
	}
}

// LogLevel returns the configured slog level
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Logging.Level)
	return level
}

// SchemaSettings returns the built-in structural rules, extended by the
// rules file when one is configured
func (c *Config) SchemaSettings() (*schema.Settings, error) {
	settings := schema.DefaultSettings()
	if c.Schema.Rules == "" {
		return settings, nil
	}
	data, err := os.ReadFile(c.Schema.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema rules: %w", err)
	}
	extra, err := schema.LoadSettings(data)
	if err != nil {
		return nil, err
	}
	return settings.Merge(extra), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config.logging.level %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}
