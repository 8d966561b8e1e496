package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/parser"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Aliases holds extra header spellings per canonical field, e.g.
// aliases.ads.spent: ["Budget used"].
type Aliases struct {
	Ads map[string][]string `mapstructure:"ads" yaml:"ads,omitempty"`
	CRM map[string][]string `mapstructure:"crm" yaml:"crm,omitempty"`
}

// Global configuration structure.
type Global struct {
	WorkspacesDir string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`
	Language      string `mapstructure:"language" yaml:"language"`
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`

	// Input parsing
	Delimiter          string `mapstructure:"delimiter" yaml:"delimiter,omitempty"`
	DecimalSeparator   string `mapstructure:"decimal_separator" yaml:"decimal_separator,omitempty"`
	ThousandsSeparator string `mapstructure:"thousands_separator" yaml:"thousands_separator,omitempty"`

	// HTTP server
	ServerAddr  string   `mapstructure:"server_addr" yaml:"server_addr"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	MaxUploadMB int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// S3 sources and uploads
	S3Region   string `mapstructure:"s3_region" yaml:"s3_region,omitempty"`
	AWSProfile string `mapstructure:"aws_profile" yaml:"aws_profile,omitempty"`

	// Classification and rules
	OrganicKeywords []string            `mapstructure:"organic_keywords" yaml:"organic_keywords,omitempty"`
	Aliases         Aliases             `mapstructure:"aliases" yaml:"aliases,omitempty"`
	Thresholds      analysis.Thresholds `mapstructure:"thresholds" yaml:"thresholds"`
}

// Dir returns ~/.adlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".adlens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.adlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ADLENS")
	v.AutomaticEnv()

	v.SetDefault("language", "en")
	v.SetDefault("default_format", "xlsx")
	v.SetDefault("log_level", "info")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("organic_keywords", []string{})

	th := analysis.DefaultThresholds()
	v.SetDefault("thresholds.low_roi", th.LowROI)
	v.SetDefault("thresholds.high_roi", th.HighROI)
	v.SetDefault("thresholds.high_profit", th.HighProfit)
	v.SetDefault("thresholds.high_profit_roi", th.HighProfitROI)
	v.SetDefault("thresholds.low_conversion_factor", th.LowConversionFactor)
	v.SetDefault("thresholds.high_conversion", th.HighConversion)
	v.SetDefault("thresholds.high_leads_factor", th.HighLeadsFactor)
	v.SetDefault("thresholds.high_cpo_factor", th.HighCPOFactor)
	v.SetDefault("thresholds.cpo_ceiling", th.CPOCeiling)
	v.SetDefault("thresholds.min_leads", th.MinLeads)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.WorkspacesDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.WorkspacesDir = filepath.Join(dir, "workspaces")
	}
	return &c, nil
}

// AnalysisOptions builds pipeline options from the configuration.
func (c *Global) AnalysisOptions() (analysis.Options, error) {
	dec, err := ParseRune(c.DecimalSeparator)
	if err != nil {
		return analysis.Options{}, fmt.Errorf("decimal_separator: %w", err)
	}
	thou, err := ParseRune(c.ThousandsSeparator)
	if err != nil {
		return analysis.Options{}, fmt.Errorf("thousands_separator: %w", err)
	}
	return analysis.Options{
		Schema:     analysis.DefaultSchema().Extend(c.Aliases.Ads, c.Aliases.CRM),
		Classifier: analysis.NewClassifier(c.OrganicKeywords...),
		Thresholds: c.Thresholds,
		Number:     analysis.NumberFormat{DecimalSeparator: dec, ThousandsSeparator: thou},
		Language:   c.Language,
	}, nil
}

// ParserOptions builds reader options from the configuration.
func (c *Global) ParserOptions() (parser.Options, error) {
	d, err := ParseRune(c.Delimiter)
	if err != nil {
		return parser.Options{}, fmt.Errorf("delimiter: %w", err)
	}
	return parser.Options{Delimiter: d}, nil
}

// ParseRune reads a single-character setting. "tab" and `\t` mean a tab,
// "space" a space; an empty string is 0 (auto-detect).
func ParseRune(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "space":
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
