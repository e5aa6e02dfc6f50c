package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/notify"
)

func TestCVBaseName(t *testing.T) {
	cases := []struct {
		name string
		doc  cv.Document
		want string
	}{
		{"title", cv.Document{Title: "  My  Great\tCV "}, "My_Great_CV"},
		{"names", cv.Document{FirstName: "Ada", LastName: "Lovelace"}, "Ada_Lovelace"},
		{"first only", cv.Document{FirstName: "Ada"}, "Ada"},
		{"blank", cv.Document{}, "CV"},
		{"separators", cv.Document{Title: "a/b\\c"}, "a_b_c"},
		{"traversal", cv.Document{Title: "../etc"}, "CV"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CVBaseName(tc.doc); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCoverLetterBaseName(t *testing.T) {
	if got := CoverLetterBaseName(coverletter.Document{}); got != "Cover_Letter" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := CoverLetterBaseName(coverletter.Document{Title: "Acme application"}); got != "Acme_application" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestWordDocumentEnvelope(t *testing.T) {
	out := string(WordDocument("A & B", "<p>hi</p>"))
	for _, want := range []string{
		`xmlns:w="urn:schemas-microsoft-com:office:word"`,
		"<title>A &amp; B</title>",
		"<p>hi</p>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in envelope", want)
		}
	}
}

func TestTextToHTML(t *testing.T) {
	got := TextToHTML("Dear <team>,\r\nThanks")
	if got != "Dear &lt;team&gt;,<br>\nThanks" {
		t.Fatalf("unexpected html %q", got)
	}
}

func TestExtractPreview(t *testing.T) {
	markup := `<html><head><style>.x{color:red}</style></head><body><nav>menu</nav><div id="cv-preview"><h1>Ada</h1></div></body></html>`
	pv, err := ExtractPreview(markup, "cv-preview")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pv.Element != `<div id="cv-preview"><h1>Ada</h1></div>` {
		t.Fatalf("unexpected element %q", pv.Element)
	}
	if !strings.Contains(pv.Styles, ".x{color:red}") {
		t.Fatalf("styles not kept: %q", pv.Styles)
	}
	if strings.Contains(pv.Page(), "menu") {
		t.Fatalf("page must hold only the preview element")
	}
}

func TestExtractPreviewMissing(t *testing.T) {
	_, err := ExtractPreview(`<div id="other"></div>`, "cv-preview")
	if !errors.Is(err, ErrPreviewMissing) {
		t.Fatalf("expected ErrPreviewMissing, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" PDF "); err != nil || f != FormatPDF {
		t.Fatalf("expected pdf, got %q %v", f, err)
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestBlankCoverLetterPDFContainsPlaceholder(t *testing.T) {
	r := NewRenderer(nil, &notify.Collector{})
	r.Uncompressed = true

	file, err := r.ExportCoverLetter(context.Background(), coverletter.Document{}, FormatPDF)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Name != "Cover_Letter.pdf" || file.ContentType != PDFContentType {
		t.Fatalf("unexpected file %q %q", file.Name, file.ContentType)
	}
	if !bytes.HasPrefix(file.Data, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
	if !bytes.Contains(file.Data, []byte(coverletter.Placeholder)) {
		t.Fatalf("placeholder text missing from pdf")
	}
	if file.Pages != 1 {
		t.Fatalf("expected 1 page, got %d", file.Pages)
	}
}

func TestCoverLetterPDFPageCountMatchesLayout(t *testing.T) {
	r := NewRenderer(nil, nil)
	body := strings.Repeat("A paragraph of text.\n\n", 80)
	want := len(LayoutText(body, r.Layout))
	if want < 2 {
		t.Fatalf("test body should span several pages")
	}
	file, err := r.ExportCoverLetter(context.Background(), coverletter.Document{Content: body}, FormatPDF)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Pages != want {
		t.Fatalf("expected %d pages, got %d", want, file.Pages)
	}
}

func TestCoverLetterWordExport(t *testing.T) {
	r := NewRenderer(nil, nil)
	file, err := r.ExportCoverLetter(context.Background(), coverletter.Document{Title: "To Acme", Content: "Hi\nthere"}, FormatDoc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Name != "To_Acme.doc" || file.ContentType != WordContentType {
		t.Fatalf("unexpected file %q %q", file.Name, file.ContentType)
	}
	if !strings.Contains(string(file.Data), "Hi<br>\nthere") {
		t.Fatalf("newlines must become <br>")
	}
}

type fakeRasterizer struct {
	calls int
	page  string
	err   error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, page string) ([]byte, error) {
	f.calls++
	f.page = page
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, 200, 600))
	for y := 0; y < 600; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func TestCVPDFUsesRasterizerAndPaginates(t *testing.T) {
	raster := &fakeRasterizer{}
	r := NewRenderer(raster, nil)

	doc := cv.Document{FirstName: "Ada", LastName: "Lovelace"}
	file, err := r.ExportCV(context.Background(), doc, FormatPDF, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if raster.calls != 1 {
		t.Fatalf("expected one rasterize call, got %d", raster.calls)
	}
	if !strings.Contains(raster.page, `id="cv-preview"`) || !strings.Contains(raster.page, "Ada Lovelace") {
		t.Fatalf("rasterizer did not receive the preview page")
	}
	if file.Name != "Ada_Lovelace.pdf" {
		t.Fatalf("unexpected name %q", file.Name)
	}
	// 200px wide at 190mm leaves 291px of image per 277mm page.
	if file.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", file.Pages)
	}
}

func TestCVExportMissingPreviewAborts(t *testing.T) {
	raster := &fakeRasterizer{}
	collector := &notify.Collector{}
	r := NewRenderer(raster, collector)

	_, err := r.ExportCV(context.Background(), cv.Document{}, FormatPDF, "<div>no preview here</div>")
	if !errors.Is(err, ErrPreviewMissing) {
		t.Fatalf("expected ErrPreviewMissing, got %v", err)
	}
	if raster.calls != 0 {
		t.Fatalf("rasterizer must not run without a preview")
	}
	last, ok := collector.Last()
	if !ok || last.Level != notify.LevelError || last.Message != msgPreviewMissing {
		t.Fatalf("expected preview notice, got %+v", last)
	}
}

func TestCVWordExportUsesClientMarkup(t *testing.T) {
	r := NewRenderer(nil, nil)
	markup := `<body><div id="cv-preview"><p>client copy</p></div></body>`
	file, err := r.ExportCV(context.Background(), cv.Document{Title: "Ada CV"}, FormatDoc, markup)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.Name != "Ada_CV.doc" {
		t.Fatalf("unexpected name %q", file.Name)
	}
	if !strings.Contains(string(file.Data), "client copy") {
		t.Fatalf("client markup not exported")
	}
}

func TestCVPDFRasterFailureReported(t *testing.T) {
	collector := &notify.Collector{}
	r := NewRenderer(&fakeRasterizer{err: errors.New("chrome gone")}, collector)
	if _, err := r.ExportCV(context.Background(), cv.Document{}, FormatPDF, ""); err == nil {
		t.Fatalf("expected error")
	}
	if last, _ := collector.Last(); last.Message != msgExportFailed {
		t.Fatalf("expected export failure notice, got %+v", last)
	}
}
