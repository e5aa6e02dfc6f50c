// Package cli implements the cvstudio command line: operator commands for the
// API server plus local export and terminal preview of CV and cover letter files.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the cvstudio command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "cvstudio",
		Short: "Build, preview and export CVs and cover letters",
		Long: `cvstudio runs the CV studio API and works with CV and cover letter
JSON files locally: preview them in the terminal or export them to Word or PDF.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (default ~/.cvstudio/config.yaml)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newExportCommand(opts),
		newPreviewCommand(),
		newConfigCommand(opts),
		newStatusCommand(opts),
	)
	return root
}

// settings loads the file named by --config or the default location.
func (o *rootOptions) settings() (Settings, string, error) {
	path := o.configPath
	if path == "" {
		var err error
		if path, err = DefaultSettingsPath(); err != nil {
			return Settings{}, "", err
		}
	}
	s, err := LoadSettings(path)
	return s, path, err
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
