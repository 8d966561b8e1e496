package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/adlens-cli/internal/config"
	"github.com/KaramelBytes/adlens-cli/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
	// Structured diagnostics; user-facing progress stays on stdout.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "adlens",
	Short: "adlens: match ad spend with CRM orders and recommend what to cut or scale",
	Long: `adlens reads an advertising export and a CRM export, joins orders to ads by identifier,
computes conversion, cost per order and ROI per ad, and sorts every ad into remove, scale,
optimize or monitor. Reports are written as XLSX, a CSV archive, JSON or Markdown.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.adlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	l, err := logging.New(debug, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	logger = l
	logger.Debug("config loaded", zap.String("workspaces_dir", cfg.WorkspacesDir), zap.String("language", cfg.Language))
}

// currentConfig returns the loaded configuration, loading it on first use when
// initialization failed or was skipped.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
