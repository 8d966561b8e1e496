package cmd

import (
	"fmt"

	"github.com/KaramelBytes/adlens-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	showWorkspace string
	showOutput    string
	showFormat    string
)

var showCmd = &cobra.Command{
	Use:   "show <run-id|latest>",
	Short: "Print a stored run or export it as a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if showWorkspace == "" {
			return fmt.Errorf("--workspace is required")
		}
		w, err := loadWorkspace(showWorkspace)
		if err != nil {
			return err
		}
		run, err := w.FindRun(args[0])
		if err != nil {
			return err
		}
		out, err := w.LoadOutput(run.ID)
		if err != nil {
			return err
		}
		if showOutput == "" {
			fmt.Printf("Run %s (%s)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Printf("ads: %s\ncrm: %s\n", run.AdsSource, run.CRMSource)
			if run.Report != "" {
				fmt.Printf("report: %s\n", run.Report)
			}
			fmt.Println()
			fmt.Print(out.Markdown())
			return nil
		}
		format := showFormat
		if format == "" {
			format = report.FormatFromPath(showOutput)
		}
		if format == "" {
			format = "md"
		}
		rw, err := report.ForFormat(format)
		if err != nil {
			return err
		}
		if err := report.WriteFile(showOutput, rw, out); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s report to %s\n", rw.Format(), showOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().StringVarP(&showWorkspace, "workspace", "w", "", "workspace name")
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "", "export the run to this file instead of printing it")
	showCmd.Flags().StringVar(&showFormat, "format", "", "report format: xlsx, csv, json or md (default: from --output extension)")
}
