package cv

import (
	"encoding/json"
	"strings"
	"time"
)

// Present is the EndMonth sentinel for an ongoing entry. When set, EndYear is
// meaningless and must not be rendered.
const Present = "Present"

// Document is the in-memory CV.
type Document struct {
	ID              string            `json:"id,omitempty"`
	Title           string            `json:"title"`
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	City            string            `json:"city"`
	Country         string            `json:"country"`
	Summary         string            `json:"summary"`
	Skills          []string          `json:"skills"`
	Experiences     []Experience      `json:"experiences"`
	Education       []Education       `json:"education"`
	Extracurricular []Extracurricular `json:"extracurricular"`
	CreatedAt       time.Time         `json:"createdAt,omitzero"`
	UpdatedAt       time.Time         `json:"updatedAt,omitzero"`
}

type Experience struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	StartMonth string `json:"startMonth"`
	StartYear  string `json:"startYear"`
	EndMonth   string `json:"endMonth"`
	EndYear    string `json:"endYear"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Grade       string `json:"grade"`
	StartMonth  string `json:"startMonth"`
	StartYear   string `json:"startYear"`
	EndMonth    string `json:"endMonth"`
	EndYear     string `json:"endYear"`
}

type Extracurricular struct {
	Activity string `json:"activity"`
	Role     string `json:"role"`
}

// UnmarshalJSON accepts "description" as an alias of "role".
func (e *Extracurricular) UnmarshalJSON(data []byte) error {
	var raw struct {
		Activity    string `json:"activity"`
		Role        string `json:"role"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Activity = raw.Activity
	e.Role = raw.Role
	if e.Role == "" {
		e.Role = raw.Description
	}
	return nil
}

// IsOngoing reports whether the experience ends at Present.
func (e Experience) IsOngoing() bool { return e.EndMonth == Present }

// IsOngoing reports whether the education entry ends at Present.
func (e Education) IsOngoing() bool { return e.EndMonth == Present }

// NewBlank returns a fresh document whose lists each hold one blank entry.
func NewBlank() Document {
	return Document{
		Skills:          []string{},
		Experiences:     []Experience{{}},
		Education:       []Education{{}},
		Extracurricular: []Extracurricular{{}},
	}
}

// DefaultTitle is the title given to a CV saved without one.
func DefaultTitle(firstName, lastName string) string {
	return firstName + " " + lastName + "'s CV"
}

// EffectiveTitle returns the document title, or DefaultTitle when it is blank.
func (d Document) EffectiveTitle() string {
	if strings.TrimSpace(d.Title) != "" {
		return d.Title
	}
	return DefaultTitle(d.FirstName, d.LastName)
}
