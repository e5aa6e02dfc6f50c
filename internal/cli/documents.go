package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
	"cvstudio-backend/internal/notify"
)

// Document kinds accepted on the command line.
const (
	KindCV     = "cv"
	KindLetter = "letter"
)

func loadCV(path string) (cv.Document, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return cv.Document{}, err
	}
	if err := cv.ValidatePayload(body); err != nil {
		return cv.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	var doc cv.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return cv.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func loadLetter(path string) (coverletter.Document, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return coverletter.Document{}, err
	}
	if err := coverletter.ValidatePayload(body); err != nil {
		return coverletter.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	var doc coverletter.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return coverletter.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// consoleNotifier prints notices to the terminal.
type consoleNotifier struct {
	w io.Writer
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func (n consoleNotifier) Notify(_ context.Context, notice notify.Notice) {
	if notice.Level == notify.LevelError {
		fmt.Fprintln(n.w, failureStyle.Render("✗ "+notice.Message))
		return
	}
	fmt.Fprintln(n.w, successStyle.Render("✓ "+notice.Message))
}
