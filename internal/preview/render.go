package preview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

// Element ids that mark the printable region of a rendered page.
const (
	CVElementID     = "cv-preview"
	LetterElementID = "letter-preview"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// RenderCVHTML renders a complete HTML page for v.
func RenderCVHTML(v View) (string, error) {
	return render("cv.html.tmpl", v)
}

// RenderLetterHTML renders a complete HTML page for v.
func RenderLetterHTML(v LetterView) (string, error) {
	return render("letter.html.tmpl", v)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
