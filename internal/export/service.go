package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/notify"
	"cvstudio-backend/internal/preview"
	"cvstudio-backend/internal/shared/metrics"
	"cvstudio-backend/internal/shared/telemetry"
)

// Format is an export file type.
type Format string

const (
	FormatDoc Format = "doc"
	FormatPDF Format = "pdf"
)

// ErrUnsupportedFormat is returned for anything other than doc or pdf.
var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	msgPreviewMissing = "Could not find the preview to export"
	msgExportFailed   = "Failed to export the document"
	msgUnsupported    = "Export format is not supported"
)

// ParseFormat accepts "doc" and "pdf" in any case.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatDoc:
		return FormatDoc, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// File is a finished export ready to be sent as an attachment.
type File struct {
	Name        string
	ContentType string
	Data        []byte
	Pages       int
}

// Renderer produces export files from in-memory documents. It never reads
// storage.
type Renderer struct {
	Rasterizer Rasterizer
	Notifier   notify.Notifier
	Layout     LayoutConfig
	// Uncompressed disables PDF stream compression.
	Uncompressed bool
	tracer       trace.Tracer
}

func NewRenderer(rasterizer Rasterizer, notifier notify.Notifier) *Renderer {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Renderer{
		Rasterizer: rasterizer,
		Notifier:   notifier,
		Layout:     DefaultLayout(),
		tracer:     telemetry.Tracer("cvstudio/export"),
	}
}

// ExportCV renders doc in format. markup is a rendered preview page; when it
// is empty the server-side preview is used.
func (r *Renderer) ExportCV(ctx context.Context, doc cv.Document, format Format, markup string) (file File, err error) {
	ctx, span := r.startSpan(ctx, "export.CV", format)
	start := time.Now()
	defer func() { r.finish(span, format, start, err) }()

	if err := r.checkFormat(ctx, format); err != nil {
		return File{}, err
	}
	if strings.TrimSpace(markup) == "" {
		markup, err = preview.RenderCVHTML(preview.BuildCV(doc))
		if err != nil {
			return File{}, r.fail(ctx, "export.cv.preview", err)
		}
	}
	pv, err := ExtractPreview(markup, preview.CVElementID)
	if err != nil {
		return File{}, r.previewFailure(ctx, err)
	}

	title := doc.EffectiveTitle()
	base := CVBaseName(doc)
	if format == FormatDoc {
		return File{
			Name:        base + WordExtension,
			ContentType: WordContentType,
			Data:        WordDocument(title, pv.Styles+pv.Element),
		}, nil
	}

	if r.Rasterizer == nil {
		return File{}, r.fail(ctx, "export.cv.rasterize", errors.New("no rasterizer configured"))
	}
	raster, err := r.Rasterizer.Rasterize(ctx, pv.Page())
	if err != nil {
		return File{}, r.fail(ctx, "export.cv.rasterize", err)
	}
	data, err := PaginateImage(raster, PDFOptions{Title: title, Uncompressed: r.Uncompressed})
	if err != nil {
		return File{}, r.fail(ctx, "export.cv.paginate", err)
	}
	return r.pdfFile(base, data), nil
}

// ExportCoverLetter renders doc in format. A blank body exports the
// placeholder text.
func (r *Renderer) ExportCoverLetter(ctx context.Context, doc coverletter.Document, format Format) (file File, err error) {
	ctx, span := r.startSpan(ctx, "export.CoverLetter", format)
	start := time.Now()
	defer func() { r.finish(span, format, start, err) }()

	if err := r.checkFormat(ctx, format); err != nil {
		return File{}, err
	}
	title := doc.EffectiveTitle()
	base := CoverLetterBaseName(doc)
	body := doc.Body()

	if format == FormatDoc {
		return File{
			Name:        base + WordExtension,
			ContentType: WordContentType,
			Data:        WordDocument(title, TextToHTML(body)),
		}, nil
	}

	pages := LayoutText(body, r.Layout)
	data, err := RenderTextPDF(pages, r.Layout, PDFOptions{Title: title, Uncompressed: r.Uncompressed})
	if err != nil {
		return File{}, r.fail(ctx, "export.letter.render", err)
	}
	return r.pdfFile(base, data), nil
}

func (r *Renderer) pdfFile(base string, data []byte) File {
	f := File{Name: base + ".pdf", ContentType: PDFContentType, Data: data}
	if n, err := PageCount(data); err == nil {
		f.Pages = n
	} else {
		telemetry.Warn("export.page_count_failed", map[string]any{"error": err})
	}
	return f
}

func (r *Renderer) checkFormat(ctx context.Context, format Format) error {
	if _, err := ParseFormat(string(format)); err != nil {
		r.notifier().Notify(ctx, notify.Failure(msgUnsupported))
		return err
	}
	return nil
}

func (r *Renderer) previewFailure(ctx context.Context, err error) error {
	telemetry.Warn("export.preview_missing", map[string]any{"error": err})
	r.notifier().Notify(ctx, notify.Failure(msgPreviewMissing))
	return err
}

func (r *Renderer) fail(ctx context.Context, event string, err error) error {
	telemetry.Error(event, map[string]any{"error": err})
	r.notifier().Notify(ctx, notify.Failure(msgExportFailed))
	return err
}

func (r *Renderer) notifier() notify.Notifier {
	if r.Notifier == nil {
		return notify.LogNotifier{}
	}
	return r.Notifier
}

func (r *Renderer) startSpan(ctx context.Context, name string, format Format) (context.Context, trace.Span) {
	tracer := r.tracer
	if tracer == nil {
		tracer = telemetry.Tracer("cvstudio/export")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.String("export.format", string(format))))
}

func (r *Renderer) finish(span trace.Span, format Format, start time.Time, err error) {
	telemetry.EndSpan(span, err)
	if err != nil {
		metrics.IncExportFailed()
		return
	}
	metrics.IncExport(string(format))
	metrics.ObserveExportDurationMs(metrics.Since(start))
}
