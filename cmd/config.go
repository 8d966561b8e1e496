package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/adlens-cli/internal/config"
	"github.com/KaramelBytes/adlens-cli/internal/report"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set adlens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("workspaces_dir: %s\n", cfg.WorkspacesDir)
		fmt.Printf("language: %s\n", cfg.Language)
		fmt.Printf("default_format: %s\n", cfg.DefaultFormat)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.DecimalSeparator != "" {
			fmt.Printf("decimal_separator: %q\n", cfg.DecimalSeparator)
		}
		if cfg.ThousandsSeparator != "" {
			fmt.Printf("thousands_separator: %q\n", cfg.ThousandsSeparator)
		}
		fmt.Printf("server_addr: %s\n", cfg.ServerAddr)
		fmt.Printf("cors_origins: %s\n", strings.Join(cfg.CORSOrigins, ","))
		fmt.Printf("max_upload_mb: %d\n", cfg.MaxUploadMB)
		if cfg.S3Region != "" {
			fmt.Printf("s3_region: %s\n", cfg.S3Region)
		}
		if cfg.AWSProfile != "" {
			fmt.Printf("aws_profile: %s\n", cfg.AWSProfile)
		}
		if len(cfg.OrganicKeywords) > 0 {
			fmt.Printf("organic_keywords: %s\n", strings.Join(cfg.OrganicKeywords, ","))
		}
		th := cfg.Thresholds
		fmt.Printf("thresholds.low_roi: %g\n", th.LowROI)
		fmt.Printf("thresholds.high_roi: %g\n", th.HighROI)
		fmt.Printf("thresholds.high_profit: %g\n", th.HighProfit)
		fmt.Printf("thresholds.high_profit_roi: %g\n", th.HighProfitROI)
		fmt.Printf("thresholds.low_conversion_factor: %g\n", th.LowConversionFactor)
		fmt.Printf("thresholds.high_conversion: %g\n", th.HighConversion)
		fmt.Printf("thresholds.high_leads_factor: %g\n", th.HighLeadsFactor)
		fmt.Printf("thresholds.high_cpo_factor: %g\n", th.HighCPOFactor)
		fmt.Printf("thresholds.cpo_ceiling: %g\n", th.CPOCeiling)
		fmt.Printf("thresholds.min_leads: %g\n", th.MinLeads)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	if strings.HasPrefix(key, "thresholds.") {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for %s: %w", key, err)
		}
		return setThreshold(c, strings.TrimPrefix(key, "thresholds."), f)
	}
	switch key {
	case "workspaces_dir":
		c.WorkspacesDir = val
	case "language":
		switch strings.ToLower(val) {
		case "en", "ru":
			c.Language = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid language: %s (use en or ru)", val)
		}
	case "default_format":
		if _, err := report.ForFormat(val); err != nil {
			return err
		}
		c.DefaultFormat = strings.ToLower(val)
	case "log_level":
		switch val {
		case "debug", "info", "warn", "error":
			c.LogLevel = val
		default:
			return fmt.Errorf("invalid log_level: %s", val)
		}
	case "delimiter", "decimal_separator", "thousands_separator":
		if _, err := cfgpkg.ParseRune(val); err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		switch key {
		case "delimiter":
			c.Delimiter = val
		case "decimal_separator":
			c.DecimalSeparator = val
		default:
			c.ThousandsSeparator = val
		}
	case "server_addr":
		c.ServerAddr = val
	case "cors_origins":
		c.CORSOrigins = splitList(val)
	case "max_upload_mb":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for max_upload_mb: %v", val)
		}
		c.MaxUploadMB = i
	case "s3_region":
		c.S3Region = val
	case "aws_profile":
		c.AWSProfile = val
	case "organic_keywords":
		c.OrganicKeywords = splitList(val)
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setThreshold(c *cfgpkg.Global, name string, f float64) error {
	th := &c.Thresholds
	switch name {
	case "low_roi":
		th.LowROI = f
	case "high_roi":
		th.HighROI = f
	case "high_profit":
		th.HighProfit = f
	case "high_profit_roi":
		th.HighProfitROI = f
	case "low_conversion_factor":
		th.LowConversionFactor = f
	case "high_conversion":
		th.HighConversion = f
	case "high_leads_factor":
		th.HighLeadsFactor = f
	case "high_cpo_factor":
		th.HighCPOFactor = f
	case "cpo_ceiling":
		th.CPOCeiling = f
	case "min_leads":
		th.MinLeads = f
	default:
		return fmt.Errorf("unknown threshold: %s", name)
	}
	return nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
