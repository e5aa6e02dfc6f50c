package export

import (
	"regexp"
	"strings"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/shared/util"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CVBaseName derives a file name stem for a CV: the title with whitespace runs
// replaced by "_", else "<first>_<last>", else "CV".
func CVBaseName(doc cv.Document) string {
	if title := strings.TrimSpace(doc.Title); title != "" {
		return baseName(title, "CV")
	}
	names := strings.TrimSpace(strings.TrimSpace(doc.FirstName) + " " + strings.TrimSpace(doc.LastName))
	if names == "" {
		return "CV"
	}
	return baseName(names, "CV")
}

// CoverLetterBaseName derives a file name stem for a cover letter.
func CoverLetterBaseName(doc coverletter.Document) string {
	return baseName(doc.Title, "Cover_Letter")
}

func baseName(title, fallback string) string {
	title = whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "_")
	if title == "" {
		return fallback
	}
	safe, err := util.SanitizeFileName(title)
	if err != nil {
		return fallback
	}
	return safe
}
