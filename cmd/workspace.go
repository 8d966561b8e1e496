package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/adlens-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	wsName  string
	wsClear bool
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage per-workspace settings",
}

var workspaceSetLanguageCmd = &cobra.Command{
	Use:   "set-language <en|ru>",
	Short: "Set or clear a workspace's report language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateWorkspaceSetting("language", args, func(v string) error {
			switch v {
			case "", "en", "ru":
				return nil
			}
			return fmt.Errorf("invalid language: %s (use en or ru)", v)
		})
	},
}

var workspaceSetFormatCmd = &cobra.Command{
	Use:   "set-format <xlsx|csv|json|md>",
	Short: "Set or clear a workspace's default report format",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateWorkspaceSetting("format", args, func(v string) error {
			if v == "" {
				return nil
			}
			_, err := report.ForFormat(v)
			return err
		})
	},
}

func updateWorkspaceSetting(what string, args []string, validate func(string) error) error {
	if wsName == "" {
		return fmt.Errorf("--workspace is required")
	}
	w, err := loadWorkspace(wsName)
	if err != nil {
		return err
	}
	var val string
	if !wsClear {
		if len(args) == 0 || args[0] == "" {
			return fmt.Errorf("%s is required unless --clear is set", what)
		}
		val = strings.ToLower(args[0])
	}
	if err := validate(val); err != nil {
		return err
	}
	switch what {
	case "language":
		w.Settings.Language = val
	case "format":
		w.Settings.DefaultFormat = val
	}
	if err := w.Save(); err != nil {
		return err
	}
	if wsClear {
		fmt.Printf("✓ Cleared workspace %s for %s\n", what, wsName)
	} else {
		fmt.Printf("✓ Set workspace %s for %s: %s\n", what, wsName, val)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceSetLanguageCmd)
	workspaceCmd.AddCommand(workspaceSetFormatCmd)

	workspaceCmd.PersistentFlags().StringVarP(&wsName, "workspace", "w", "", "workspace name")
	workspaceCmd.PersistentFlags().BoolVar(&wsClear, "clear", false, "clear the workspace override")
}
