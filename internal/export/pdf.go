package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

const PDFContentType = "application/pdf"

// PDFOptions tunes the generated file.
type PDFOptions struct {
	Title string
	// Uncompressed leaves content streams readable; used by tests.
	Uncompressed bool
}

func newDocument(opts PDFOptions) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(!opts.Uncompressed)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("cvstudio", true)
	if opts.Title != "" {
		doc.SetTitle(opts.Title, true)
	}
	return doc
}

func output(doc *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTextPDF draws laid-out pages with the Courier core font.
func RenderTextPDF(pages []Page, cfg LayoutConfig, opts PDFOptions) ([]byte, error) {
	cfg = cfg.withDefaults()
	doc := newDocument(opts)
	doc.SetFont("Courier", "", cfg.FontSize)
	if len(pages) == 0 {
		pages = []Page{{}}
	}
	for _, p := range pages {
		doc.AddPage()
		for _, op := range p.Ops {
			doc.Text(op.X, op.Y, toWindows1252(op.Text))
		}
	}
	return output(doc)
}

// toWindows1252 encodes s for the core fonts. Runes outside the code page
// become "?".
func toWindows1252(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

// PageCount reads back a PDF and reports how many pages it holds.
func PageCount(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	return r.NumPage(), nil
}
