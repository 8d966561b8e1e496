package cmd

import (
	"fmt"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/report"
	"github.com/KaramelBytes/adlens-cli/internal/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	anaAds        string
	anaCRM        string
	anaOutputPath string
	anaFormat     string
	anaUpload     string
	anaWorkspace  string
	anaQuiet      bool
	anaInput      inputFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze --ads <file|s3://...> --crm <file|s3://...>",
	Short: "Match ad spend with CRM orders and recommend what to remove, scale or optimize",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if anaAds == "" || anaCRM == "" {
			return fmt.Errorf("both --ads and --crm are required")
		}
		c, err := currentConfig()
		if err != nil {
			return err
		}
		var ws *workspace.Workspace
		if anaWorkspace != "" {
			if ws, err = loadWorkspace(anaWorkspace); err != nil {
				return err
			}
		}
		opt, popt, err := buildOptions(c, anaInput, ws)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		store := newStore(c)
		ads, crm, err := loadInputs(ctx, store, anaAds, anaCRM, popt)
		if err != nil {
			return err
		}
		out, err := analysis.Analyze(ads, crm, opt)
		if err != nil {
			return err
		}
		if !anaQuiet {
			printSummary(out)
			printWarnings(out)
		}

		// Decide where to write: --output path, --upload target, workspace, or stdout
		written := false
		var reportRef string
		if anaOutputPath != "" || anaUpload != "" {
			path := anaOutputPath
			if path == "" {
				path = anaUpload
			}
			rw, err := report.ForFormat(reportFormat(anaFormat, path, ws, c))
			if err != nil {
				return err
			}
			if anaOutputPath != "" {
				if err := report.WriteFile(anaOutputPath, rw, out); err != nil {
					return err
				}
				fmt.Printf("✓ Wrote %s report to %s\n", rw.Format(), anaOutputPath)
				reportRef = anaOutputPath
			}
			if anaUpload != "" {
				data, err := report.Render(rw, out)
				if err != nil {
					return err
				}
				loc, err := store.Put(ctx, anaUpload, data, rw.ContentType())
				if err != nil {
					return err
				}
				fmt.Printf("✓ Uploaded %s report to %s\n", rw.Format(), loc)
				reportRef = loc.String()
			}
			written = true
		}
		if ws != nil {
			run, err := ws.AddRun(out, anaAds, anaCRM)
			if err != nil {
				return err
			}
			run.Report = reportRef
			if err := ws.Save(); err != nil {
				return err
			}
			logger.Debug("run recorded", zap.String("workspace", ws.Name), zap.String("run", run.ID))
			fmt.Printf("✓ Recorded run %s in workspace '%s'\n", run.ID, ws.Name)
			written = true
		}
		if !written {
			fmt.Println(out.Markdown())
		}
		return nil
	},
}

func addInputFlags(cmd *cobra.Command, f *inputFlags) {
	cmd.Flags().StringVar(&f.lang, "lang", "", "label language for recommendations and reports: en | ru")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaAds, "ads", "", "advertising export (CSV/TSV/XLSX/JSON, local path or s3://bucket/key)")
	analyzeCmd.Flags().StringVar(&anaCRM, "crm", "", "CRM export (CSV/TSV/XLSX/JSON, local path or s3://bucket/key)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write the report to this file")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "", "report format: xlsx, csv, json or md (default: from --output extension)")
	analyzeCmd.Flags().StringVar(&anaUpload, "upload", "", "also upload the report to this location (s3://bucket/key or a path)")
	analyzeCmd.Flags().StringVarP(&anaWorkspace, "workspace", "w", "", "workspace to record the run in")
	analyzeCmd.Flags().BoolVar(&anaQuiet, "quiet", false, "suppress the summary and warning lines")
	addInputFlags(analyzeCmd, &anaInput)
}
