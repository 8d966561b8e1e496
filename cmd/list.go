package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/adlens-cli/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	listWorkspaces bool
	listRuns       bool
	listWorkspace  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces or the runs stored in one",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listWorkspaces == listRuns { // either both true or both false
			return fmt.Errorf("specify exactly one of --workspaces or --runs")
		}
		if listWorkspaces {
			return listAllWorkspaces()
		}
		if listWorkspace == "" {
			return fmt.Errorf("--workspace is required when using --runs")
		}
		w, err := loadWorkspace(listWorkspace)
		if err != nil {
			return err
		}
		runs := w.SortedRuns()
		if len(runs) == 0 {
			fmt.Println("(no runs)")
			return nil
		}
		for _, r := range runs {
			d := r.Summary.Distribution
			fmt.Printf("- %s  %s  ads=%d remove=%d scale=%d optimize=%d",
				r.ID, r.CreatedAt.Format("2006-01-02 15:04"), d.Total, d.Remove, d.Scale, d.Optimize)
			if r.Warnings > 0 {
				fmt.Printf(" warnings=%d", r.Warnings)
			}
			fmt.Println()
		}
		return nil
	},
}

func listAllWorkspaces() error {
	root, err := defaultWorkspacesDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), workspace.FileName)); err == nil {
			fmt.Printf("- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Println("(no workspaces)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listWorkspaces, "workspaces", false, "list workspaces")
	listCmd.Flags().BoolVar(&listRuns, "runs", false, "list runs in a workspace")
	listCmd.Flags().StringVarP(&listWorkspace, "workspace", "w", "", "workspace name for --runs")
}
