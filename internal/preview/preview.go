// Package preview turns documents into read-only views. Blank fields are
// replaced by fixed sample text so a preview is never empty.
package preview

import (
	"regexp"
	"strings"

	"cvstudio-backend/internal/coverletter"
	"cvstudio-backend/internal/cv"
)

// Sample values used for blank CV fields.
const (
	PlaceholderFirstName   = "John"
	PlaceholderLastName    = "Doe"
	PlaceholderEmail       = "john.doe@example.com"
	PlaceholderPhone       = "+1 (555) 123-4567"
	PlaceholderCity        = "New York"
	PlaceholderCountry     = "USA"
	PlaceholderSummary     = "Collaborative, ambitious problem-solver with inclusive leadership qualities, seeking internship position in Communication, Marketing, or Media. Prioritizes attention to detail, thoroughness, and aesthetic appeal. Energized by forming connections, learning from others, and embracing creativity."
	PlaceholderInstitution = "North Carolina State University, Raleigh, NC"
	PlaceholderDegree      = "Bachelor of Arts in Communication"
	PlaceholderJobTitle    = "Social Media Chair"
	PlaceholderRecipient   = "Hiring Manager"
	PlaceholderCompany     = "Company Name"
)

// PlaceholderSkills is shown when the skills list is empty.
var PlaceholderSkills = []string{
	"Communication Theory",
	"Creative Thinking",
	"Canva",
	"Newsletter Writing",
	"Relationship Building",
	"Adobe Illustrator",
	"Academic Writing",
	"Psychology",
	"iMovie",
}

// View is a CV ready to render.
type View struct {
	FullName        string
	Phone           string
	Email           string
	Location        string
	Summary         string
	Education       []EducationView
	Skills          []string
	Experiences     []ExperienceView
	Extracurricular []string
}

type EducationView struct {
	Institution string
	Degree      string
	Grade       string
	Period      string
}

type ExperienceView struct {
	Heading string
	Period  string
	Bullets []string
}

// LetterView is a cover letter ready to render.
type LetterView struct {
	Title      string
	Recipient  string
	Company    string
	Position   string
	Paragraphs [][]string
	Blank      bool
}

// BuildCV maps doc onto a View. It has no side effects.
func BuildCV(doc cv.Document) View {
	v := View{
		FullName: or(doc.FirstName, PlaceholderFirstName) + " " + or(doc.LastName, PlaceholderLastName),
		Phone:    or(doc.Phone, PlaceholderPhone),
		Email:    or(doc.Email, PlaceholderEmail),
		Location: or(doc.City, PlaceholderCity) + ", " + or(doc.Country, PlaceholderCountry),
		Summary:  or(doc.Summary, PlaceholderSummary),
	}

	for _, e := range doc.Education {
		v.Education = append(v.Education, EducationView{
			Institution: or(e.Institution, PlaceholderInstitution),
			Degree:      or(e.Degree, PlaceholderDegree),
			Grade:       strings.TrimSpace(e.Grade),
			Period:      Period(e.StartMonth, e.StartYear, e.EndMonth, e.EndYear),
		})
	}

	v.Skills = make([]string, 0, len(doc.Skills))
	for _, s := range doc.Skills {
		if s = strings.TrimSpace(s); s != "" {
			v.Skills = append(v.Skills, s)
		}
	}
	if len(v.Skills) == 0 {
		v.Skills = append(v.Skills, PlaceholderSkills...)
	}

	for _, e := range doc.Experiences {
		heading := or(e.Title, PlaceholderJobTitle)
		if city := strings.TrimSpace(doc.City); city != "" {
			heading += ", " + city
		}
		v.Experiences = append(v.Experiences, ExperienceView{
			Heading: heading,
			Period:  Period(e.StartMonth, e.StartYear, e.EndMonth, e.EndYear),
			Bullets: Bullets(e.Summary),
		})
	}

	for _, e := range doc.Extracurricular {
		activity := strings.TrimSpace(e.Activity)
		role := strings.TrimSpace(e.Role)
		switch {
		case activity != "" && role != "":
			v.Extracurricular = append(v.Extracurricular, activity+", "+role)
		case activity != "" || role != "":
			v.Extracurricular = append(v.Extracurricular, activity+role)
		}
	}
	return v
}

// Period renders "<start> - <end>". An end month of cv.Present yields the
// literal "Present" and the end year is not consulted.
func Period(startMonth, startYear, endMonth, endYear string) string {
	start := joinNonEmpty(startMonth, startYear)
	var end string
	if endMonth == cv.Present {
		end = cv.Present
	} else {
		end = joinNonEmpty(endMonth, endYear)
	}
	switch {
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " - " + end
}

// Bullets splits an experience summary into trimmed, non-empty lines.
func Bullets(summary string) []string {
	var out []string
	for _, line := range strings.Split(summary, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

var blankLine = regexp.MustCompile(`\n\s*\n`)

// BuildCoverLetter maps doc onto a LetterView. A blank body becomes the
// editor placeholder.
func BuildCoverLetter(doc coverletter.Document) LetterView {
	v := LetterView{
		Title:     doc.EffectiveTitle(),
		Recipient: or(doc.Recipient, PlaceholderRecipient),
		Company:   or(doc.Company, PlaceholderCompany),
		Position:  strings.TrimSpace(doc.Position),
		Blank:     strings.TrimSpace(doc.Content) == "",
	}
	body := strings.ReplaceAll(doc.Body(), "\r\n", "\n")
	for _, para := range blankLine.Split(strings.TrimSpace(body), -1) {
		lines := strings.Split(para, "\n")
		for i := range lines {
			lines[i] = strings.TrimRight(lines[i], " \t")
		}
		v.Paragraphs = append(v.Paragraphs, lines)
	}
	return v
}

func or(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
