package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/adlens-cli/internal/config"
	"github.com/KaramelBytes/adlens-cli/internal/parser"
	"github.com/KaramelBytes/adlens-cli/internal/report"
	"github.com/KaramelBytes/adlens-cli/internal/source"
	"github.com/KaramelBytes/adlens-cli/internal/table"
	"github.com/KaramelBytes/adlens-cli/internal/workspace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// inputFlags are the parsing and labelling flags shared by analyze and
// analyze-batch.
type inputFlags struct {
	lang       string
	delimiter  string
	decimal    string
	thousands  string
	sheetName  string
	sheetIndex int
}

// maxPrintedWarnings caps the warning lines printed per run.
const maxPrintedWarnings = 20

// separator maps the word forms accepted on the command line to the
// single-character form config.ParseRune understands.
func separator(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comma":
		return ","
	case "dot":
		return "."
	case "semicolon":
		return ";"
	}
	return s
}

// buildOptions layers flags over workspace settings over the global config.
func buildOptions(c *cfgpkg.Global, f inputFlags, ws *workspace.Workspace) (analysis.Options, parser.Options, error) {
	opt, err := c.AnalysisOptions()
	if err != nil {
		return analysis.Options{}, parser.Options{}, err
	}
	popt, err := c.ParserOptions()
	if err != nil {
		return analysis.Options{}, parser.Options{}, err
	}
	if ws != nil && ws.Settings != nil && ws.Settings.Language != "" {
		opt.Language = ws.Settings.Language
	}
	if f.lang != "" {
		opt.Language = f.lang
	}
	if f.delimiter != "" {
		d, err := cfgpkg.ParseRune(separator(f.delimiter))
		if err != nil {
			return opt, popt, fmt.Errorf("unsupported --delimiter: %w", err)
		}
		popt.Delimiter = d
	}
	if f.decimal != "" {
		d, err := cfgpkg.ParseRune(separator(f.decimal))
		if err != nil {
			return opt, popt, fmt.Errorf("unsupported --decimal: %w", err)
		}
		opt.Number.DecimalSeparator = d
	}
	if f.thousands != "" {
		t, err := cfgpkg.ParseRune(separator(f.thousands))
		if err != nil {
			return opt, popt, fmt.Errorf("unsupported --thousands: %w", err)
		}
		opt.Number.ThousandsSeparator = t
	}
	popt.SheetName = f.sheetName
	popt.SheetIndex = f.sheetIndex
	return opt, popt, nil
}

func newStore(c *cfgpkg.Global) *source.Store {
	return source.New(c.S3Region, c.AWSProfile)
}

// loadInputs reads both tables concurrently.
func loadInputs(ctx context.Context, store *source.Store, adsURI, crmURI string, opt parser.Options) (*table.Table, *table.Table, error) {
	var ads, crm *table.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := store.ReadTable(gctx, adsURI, opt)
		if err != nil {
			return fmt.Errorf("ads: %w", err)
		}
		ads = t
		return nil
	})
	g.Go(func() error {
		t, err := store.ReadTable(gctx, crmURI, opt)
		if err != nil {
			return fmt.Errorf("crm: %w", err)
		}
		crm = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	logger.Debug("inputs loaded",
		zap.String("ads", adsURI), zap.Int("ad_rows", ads.Len()),
		zap.String("crm", crmURI), zap.Int("crm_rows", crm.Len()))
	return ads, crm, nil
}

// reportFormat picks the first non-empty of the explicit flag, the output
// extension, the workspace default and the global default.
func reportFormat(flag, path string, ws *workspace.Workspace, c *cfgpkg.Global) string {
	if flag != "" {
		return flag
	}
	if f := report.FormatFromPath(path); f != "" {
		return f
	}
	if ws != nil && ws.Settings != nil && ws.Settings.DefaultFormat != "" {
		return ws.Settings.DefaultFormat
	}
	if c.DefaultFormat != "" {
		return c.DefaultFormat
	}
	return "xlsx"
}

func printSummary(out *analysis.Output) {
	s := out.Summary
	d := s.Distribution
	fmt.Printf("✓ Analyzed %d ads (%d ad rows, %d CRM rows)\n", d.Total, s.Data.AdRows, s.Data.CRMRows)
	fmt.Printf("  remove: %d  scale: %d  optimize: %d  monitor: %d\n", d.Remove, d.Scale, d.Optimize, d.Monitor)
	fmt.Printf("  orders: %d from ads, %d other", s.AdOrders, s.OtherOrders)
	if s.UnmatchedOrders > 0 {
		fmt.Printf(", %d unmatched", s.UnmatchedOrders)
	}
	fmt.Println()
	if s.ROIPct != nil {
		fmt.Printf("  spent: %s  revenue: %s  ROI: %s%%\n",
			analysis.FormatNumber(s.TotalSpent), analysis.FormatNumber(*s.TotalRevenue), analysis.FormatNumber(*s.ROIPct))
	} else {
		fmt.Printf("  spent: %s  conversion: %s%%\n", analysis.FormatNumber(s.TotalSpent), analysis.FormatNumber(s.ConversionPct))
	}
}

func printWarnings(out *analysis.Output) {
	for i, w := range out.Warnings {
		if i == maxPrintedWarnings {
			fmt.Fprintf(os.Stderr, "⚠ ... and %d more warnings\n", len(out.Warnings)-maxPrintedWarnings)
			break
		}
		fmt.Fprintf(os.Stderr, "⚠ %s\n", w.String())
	}
}
