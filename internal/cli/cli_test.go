package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cvstudio-backend/internal/export"
)

type stripeRasterizer struct {
	calls int
}

func (s *stripeRasterizer) Rasterize(_ context.Context, _ string) ([]byte, error) {
	s.calls++
	img := image.NewRGBA(image.Rect(0, 0, 100, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: uint8(y), G: 40, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func useRasterizer(t *testing.T, r export.Rasterizer) {
	t.Helper()
	prev := newRasterizer
	newRasterizer = func(string) export.Rasterizer { return r }
	t.Cleanup(func() { newRasterizer = prev })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadSettingsCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.OutputDir != "." || s.APIURL != "http://localhost:8080" || s.ChromePath != "" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file to be created: %v", err)
	}
}

func TestSetSettingPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := SetSetting(path, "chrome_path", "/usr/bin/chromium"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.ChromePath != "/usr/bin/chromium" {
		t.Fatalf("expected chrome path to persist, got %q", s.ChromePath)
	}
	if err := SetSetting(path, "openai_key", "x"); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
}

func TestEnvironmentOverridesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CVSTUDIO_OUTPUT_DIR", "/tmp/exports")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.OutputDir != "/tmp/exports" {
		t.Fatalf("expected env override, got %q", s.OutputDir)
	}
}

func TestExportBlankLetterToPDF(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	letter := writeFile(t, dir, "letter.json", `{"company":"Analytical Engines","position":"Programmer"}`)

	out, err := run(t, "--config", filepath.Join(dir, "config.yaml"), "export", "letter", letter, "--format", "pdf", "--out", outDir)
	if err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Cover_Letter.pdf") {
		t.Fatalf("unexpected output: %s", out)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "Cover_Letter.pdf"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if n, err := export.PageCount(data); err != nil || n != 1 {
		t.Fatalf("expected a one page pdf, got %d (%v)", n, err)
	}
}

func TestExportCVToWordAndPDF(t *testing.T) {
	raster := &stripeRasterizer{}
	useRasterizer(t, raster)

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	doc := writeFile(t, dir, "ada.json", `{"firstName":"Ada","lastName":"Lovelace","skills":["Mathematics"]}`)
	config := filepath.Join(dir, "config.yaml")

	if out, err := run(t, "--config", config, "export", "cv", doc, "-f", "doc", "-o", outDir); err != nil {
		t.Fatalf("export doc: %v\n%s", err, out)
	}
	word, err := os.ReadFile(filepath.Join(outDir, "Ada_Lovelace.doc"))
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	if !strings.Contains(string(word), "Mathematics") {
		t.Fatalf("word export is missing the skills")
	}

	if out, err := run(t, "--config", config, "export", "cv", doc, "-f", "pdf", "-o", outDir); err != nil {
		t.Fatalf("export pdf: %v\n%s", err, out)
	}
	if raster.calls != 1 {
		t.Fatalf("expected one rasterize call, got %d", raster.calls)
	}
	if _, err := os.Stat(filepath.Join(outDir, "Ada_Lovelace.pdf")); err != nil {
		t.Fatalf("expected pdf export: %v", err)
	}
}

func TestExportCVWithMarkupMissingPreview(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "ada.json", `{"firstName":"Ada"}`)
	markup := writeFile(t, dir, "page.html", `<html><body><p>nothing here</p></body></html>`)

	out, err := run(t, "--config", filepath.Join(dir, "config.yaml"), "export", "cv", doc, "-f", "doc", "-o", dir, "--markup", markup)
	if err == nil {
		t.Fatalf("expected export to fail without a preview element")
	}
	if !strings.Contains(out, "Could not find the preview to export") {
		t.Fatalf("expected failure notice, got %s", out)
	}
}

func TestExportRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	doc := writeFile(t, dir, "bad.json", `{"firstName": 42}`)

	if _, err := run(t, "--config", config, "export", "cv", doc, "-f", "doc"); err == nil {
		t.Fatalf("expected schema violation")
	}
	if _, err := run(t, "--config", config, "export", "resume", doc); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	if _, err := run(t, "--config", config, "export", "letter", doc, "-f", "rtf"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	letter := writeFile(t, dir, "letter.json", `{"content": ["Dear", "team"]}`)
	if _, err := run(t, "--config", config, "export", "letter", letter, "-f", "pdf", "-o", dir); err == nil {
		t.Fatalf("expected cover letter schema violation")
	}
}

func TestPreviewShowsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "blank.json", `{}`)

	out, err := run(t, "preview", "cv", doc)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	for _, want := range []string{"John Doe", "Education", "Experience"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in preview:\n%s", want, out)
		}
	}

	letter := writeFile(t, dir, "letter.json", `{"company":"Analytical Engines"}`)
	out, err = run(t, "preview", "letter", letter)
	if err != nil {
		t.Fatalf("preview letter: %v", err)
	}
	if !strings.Contains(out, "Hiring Manager") || !strings.Contains(out, "Analytical Engines") {
		t.Fatalf("unexpected letter preview:\n%s", out)
	}
}

func TestConfigCommands(t *testing.T) {
	config := filepath.Join(t.TempDir(), "config.yaml")
	if _, err := run(t, "--config", config, "config", "set", "api_url", "https://cv.example.com"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := run(t, "--config", config, "config", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "https://cv.example.com") {
		t.Fatalf("expected updated api url:\n%s", out)
	}
}

func TestStatusChecksHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := checkHealth(context.Background(), srv.URL+"/"); err != nil {
		t.Fatalf("expected healthy api: %v", err)
	}
	if err := checkHealth(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatalf("expected failure for a bad base url")
	}
}
