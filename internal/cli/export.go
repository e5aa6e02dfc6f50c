package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cvstudio-backend/internal/export"
	"cvstudio-backend/internal/shared/storage/object/local"
)

// newRasterizer is replaced in tests.
var newRasterizer = func(chromePath string) export.Rasterizer {
	return export.NewChromeRasterizer(chromePath)
}

type exportRequest struct {
	Kind       string
	Path       string
	Format     string
	OutDir     string
	MarkupPath string
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	req := exportRequest{}
	cmd := &cobra.Command{
		Use:   "export <cv|letter> <file.json>",
		Short: "Export a CV or cover letter file to Word or PDF",
		Args:  cobra.ExactArgs(2),
		Example: `  cvstudio export cv ./ada.json --format pdf
  cvstudio export letter ./letter.json --format doc --out ~/Documents
  cvstudio export cv ./ada.json --format doc --markup ./preview.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, _, err := opts.settings()
			if err != nil {
				return err
			}
			req.Kind, req.Path = args[0], args[1]
			if req.OutDir == "" {
				req.OutDir = settings.OutputDir
			}
			return runExport(cmd.Context(), cmd.OutOrStdout(), settings, req)
		},
	}
	cmd.Flags().StringVarP(&req.Format, "format", "f", "pdf", "output format: doc or pdf")
	cmd.Flags().StringVarP(&req.OutDir, "out", "o", "", "output directory (default output_dir setting)")
	cmd.Flags().StringVar(&req.MarkupPath, "markup", "", "HTML page holding a rendered cv preview to export instead of the built-in one")
	return cmd
}

func runExport(ctx context.Context, out io.Writer, settings Settings, req exportRequest) error {
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return err
	}

	renderer := export.NewRenderer(newRasterizer(settings.ChromePath), consoleNotifier{w: out})
	var file export.File
	switch req.Kind {
	case KindCV:
		doc, err := loadCV(req.Path)
		if err != nil {
			return err
		}
		markup := ""
		if req.MarkupPath != "" {
			raw, err := os.ReadFile(req.MarkupPath)
			if err != nil {
				return err
			}
			markup = string(raw)
		}
		file, err = renderer.ExportCV(ctx, doc, format, markup)
		if err != nil {
			return err
		}
	case KindLetter:
		doc, err := loadLetter(req.Path)
		if err != nil {
			return err
		}
		file, err = renderer.ExportCoverLetter(ctx, doc, format)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown document kind %q, want %s or %s", req.Kind, KindCV, KindLetter)
	}

	store := local.New(req.OutDir)
	key, size, err := store.Save(ctx, file.Name, bytes.NewReader(file.Data))
	if err != nil {
		return fmt.Errorf("write %s: %w", file.Name, err)
	}

	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Wrote:"), key)
	fmt.Fprintf(out, "%s %d bytes\n", labelStyle.Render("Size:"), size)
	if file.Pages > 0 {
		fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Pages:"), file.Pages)
	}
	return nil
}
