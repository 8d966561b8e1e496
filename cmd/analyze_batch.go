package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/adlens-cli/internal/analysis"
	"github.com/KaramelBytes/adlens-cli/internal/parser"
	"github.com/KaramelBytes/adlens-cli/internal/report"
	"github.com/KaramelBytes/adlens-cli/internal/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abOutDir    string
	abFormat    string
	abWorkspace string
	abJobs      int
	abQuiet     bool
	abInput     inputFlags
)

// batchJob is one directory holding an ads export and a CRM export.
type batchJob struct {
	dir    string
	ads    string
	crm    string
	out    *analysis.Output
	report string
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <dirs...>",
	Short: "Analyze several directories, each holding an ads.* and a crm.* export",
	Long: `Each directory (globs allowed) must contain exactly one file named ads.<ext> and one
named crm.<ext>. The pairs are analyzed in parallel and each report is written next to its
inputs as adlens-report.<ext>, or into --out-dir as <dir-name>.<ext>.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dirs []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if info, err := os.Stat(m); err != nil || !info.IsDir() {
					continue
				}
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				dirs = append(dirs, m)
			}
		}
		if len(dirs) == 0 {
			return fmt.Errorf("no input directories matched")
		}
		sort.Strings(dirs)

		c, err := currentConfig()
		if err != nil {
			return err
		}
		var ws *workspace.Workspace
		if abWorkspace != "" {
			if ws, err = loadWorkspace(abWorkspace); err != nil {
				return err
			}
		}
		opt, popt, err := buildOptions(c, abInput, ws)
		if err != nil {
			return err
		}
		rw, err := report.ForFormat(reportFormat(abFormat, "", ws, c))
		if err != nil {
			return err
		}
		if abOutDir != "" {
			if err := os.MkdirAll(abOutDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		jobs := make([]*batchJob, len(dirs))
		used := map[string]int{}
		for i, d := range dirs {
			ads, crm, err := findPair(d)
			if err != nil {
				return err
			}
			jobs[i] = &batchJob{dir: d, ads: ads, crm: crm, report: batchReportPath(d, abOutDir, rw.Extension(), used)}
		}

		ctx := cmd.Context()
		store := newStore(c)
		g, gctx := errgroup.WithContext(ctx)
		if abJobs > 0 {
			g.SetLimit(abJobs)
		}
		for _, j := range jobs {
			j := j
			g.Go(func() error {
				ads, crm, err := loadInputs(gctx, store, j.ads, j.crm, popt)
				if err != nil {
					return fmt.Errorf("%s: %w", j.dir, err)
				}
				out, err := analysis.Analyze(ads, crm, opt)
				if err != nil {
					return fmt.Errorf("%s: %w", j.dir, err)
				}
				if err := report.WriteFile(j.report, rw, out); err != nil {
					return fmt.Errorf("%s: %w", j.dir, err)
				}
				j.out = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		total := len(jobs)
		for i, j := range jobs {
			if !abQuiet {
				fmt.Printf("[%d/%d] %s\n", i+1, total, j.dir)
				printSummary(j.out)
				printWarnings(j.out)
				fmt.Printf("✓ Wrote %s report to %s\n", rw.Format(), j.report)
			}
			if ws != nil {
				run, err := ws.AddRun(j.out, j.ads, j.crm)
				if err != nil {
					return err
				}
				run.Report = j.report
			}
		}
		if ws != nil {
			if err := ws.Save(); err != nil {
				return err
			}
			fmt.Printf("✓ Recorded %d runs in workspace '%s'\n", total, ws.Name)
		}
		return nil
	},
}

// findPair locates the ads.* and crm.* exports inside dir.
func findPair(dir string) (string, string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", dir, err)
	}
	var ads, crm []string
	for _, e := range entries {
		if e.IsDir() || !parser.Supported(e.Name()) {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		switch base {
		case "ads":
			ads = append(ads, filepath.Join(dir, e.Name()))
		case "crm":
			crm = append(crm, filepath.Join(dir, e.Name()))
		}
	}
	if len(ads) != 1 || len(crm) != 1 {
		return "", "", fmt.Errorf("%s: expected one ads.* and one crm.* file, found %d and %d", dir, len(ads), len(crm))
	}
	return ads[0], crm[0], nil
}

// batchReportPath names the report for dir. Directories sharing a base name
// in outDir get a numeric suffix: name.xlsx, name__2.xlsx, ... used holds
// every name handed out so far.
func batchReportPath(dir, outDir, ext string, used map[string]int) string {
	if outDir == "" {
		return filepath.Join(dir, "adlens-report"+ext)
	}
	base := filepath.Base(filepath.Clean(dir))
	name := base
	for n := 2; ; n++ {
		if _, taken := used[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s__%d", base, n)
	}
	used[name]++
	return filepath.Join(outDir, name+ext)
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "write all reports into this directory")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "", "report format: xlsx, csv, json or md")
	analyzeBatchCmd.Flags().StringVarP(&abWorkspace, "workspace", "w", "", "workspace to record the runs in")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 4, "directories analyzed in parallel (0 = unlimited)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress per-directory output")
	addInputFlags(analyzeBatchCmd, &abInput)
}
