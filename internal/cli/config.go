package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI settings",
		Long:  "View and update the settings in ~/.cvstudio/config.yaml",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Display current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, path, err := opts.settings()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Configuration"))
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Config File:"), path)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Output Dir:"), s.OutputDir)
			chrome := s.ChromePath
			if chrome == "" {
				chrome = mutedStyle.Render("autodetect")
			}
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Chrome Path:"), chrome)
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("API URL:"), s.APIURL)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Update a setting",
		Args:  cobra.ExactArgs(2),
		Example: `  cvstudio config set output_dir ~/Documents/cv
  cvstudio config set chrome_path /usr/bin/chromium
  cvstudio config set api_url https://cv.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, err := opts.settings()
			if err != nil {
				return err
			}
			if err := SetSetting(path, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration updated: %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(show, set)
	return cmd
}
