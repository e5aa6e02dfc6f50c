package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"cvstudio-backend/internal/preview"
)

const defaultPreviewWidth = 80

func newPreviewCommand() *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "preview <cv|letter> <file.json>",
		Short: "Show a CV or cover letter in the terminal",
		Args:  cobra.ExactArgs(2),
		Example: `  cvstudio preview cv ./ada.json
  cvstudio preview letter ./letter.json --width 100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out string
			switch args[0] {
			case KindCV:
				doc, err := loadCV(args[1])
				if err != nil {
					return err
				}
				out = RenderCVText(preview.BuildCV(doc), width)
			case KindLetter:
				doc, err := loadLetter(args[1])
				if err != nil {
					return err
				}
				out = RenderLetterText(preview.BuildCoverLetter(doc), width)
			default:
				return fmt.Errorf("unknown document kind %q, want %s or %s", args[0], KindCV, KindLetter)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&width, "width", "w", defaultPreviewWidth, "page width in columns")
	return cmd
}

// RenderCVText lays a CV view out for a terminal of the given width.
func RenderCVText(v preview.View, width int) string {
	inner := innerWidth(width)
	text := lipgloss.NewStyle().Width(inner)

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.FullName))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Join([]string{v.Phone, v.Email, v.Location}, " | ")))
	b.WriteString("\n\n")
	b.WriteString(text.Render(v.Summary))
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Education"))
	b.WriteString("\n")
	for _, e := range v.Education {
		b.WriteString(labelStyle.Render(e.Institution))
		if e.Period != "" {
			b.WriteString("  " + mutedStyle.Render(e.Period))
		}
		b.WriteString("\n")
		b.WriteString(e.Degree + "\n")
		if e.Grade != "" {
			b.WriteString("GPA: " + e.Grade + "\n")
		}
	}

	b.WriteString(headingStyle.Render("Skills and Coursework"))
	b.WriteString("\n")
	b.WriteString(text.Render(strings.Join(v.Skills, " • ")))
	b.WriteString("\n")

	b.WriteString(headingStyle.Render("Experience"))
	b.WriteString("\n")
	for _, x := range v.Experiences {
		b.WriteString(labelStyle.Render(x.Heading))
		if x.Period != "" {
			b.WriteString("  " + mutedStyle.Render(x.Period))
		}
		b.WriteString("\n")
		for _, bullet := range x.Bullets {
			b.WriteString(text.Render("• "+bullet) + "\n")
		}
	}

	if len(v.Extracurricular) > 0 {
		b.WriteString(headingStyle.Render("Extracurricular and Service"))
		b.WriteString("\n")
		for _, item := range v.Extracurricular {
			b.WriteString(text.Render("• "+item) + "\n")
		}
	}

	return pageStyle.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// RenderLetterText lays a cover letter view out for a terminal of the given width.
func RenderLetterText(v preview.LetterView, width int) string {
	inner := innerWidth(width)
	text := lipgloss.NewStyle().Width(inner)

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Title))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("To: ") + v.Recipient + ", " + v.Company)
	b.WriteString("\n")
	if v.Position != "" {
		b.WriteString(labelStyle.Render("Re: ") + v.Position + "\n")
	}
	b.WriteString("\n")

	body := text
	if v.Blank {
		body = body.Inherit(mutedStyle)
	}
	paragraphs := make([]string, 0, len(v.Paragraphs))
	for _, lines := range v.Paragraphs {
		paragraphs = append(paragraphs, body.Render(strings.Join(lines, "\n")))
	}
	b.WriteString(strings.Join(paragraphs, "\n\n"))

	return pageStyle.Width(width).Render(b.String())
}

// innerWidth is the text width left inside the page border and padding.
func innerWidth(width int) int {
	if width <= 0 {
		width = defaultPreviewWidth
	}
	inner := width - pageStyle.GetHorizontalFrameSize()
	if inner < 20 {
		inner = 20
	}
	return inner
}
