package cv

import (
	"encoding/json"

	"cvstudio-backend/internal/shared/storage/db"
)

// Record is the storage shape of a CV: one row of the cvs table, with the
// lower-case column names used as JSON keys.
type Record struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	Title           string                  `json:"title"`
	FirstName       string                  `json:"firstname"`
	LastName        string                  `json:"lastname"`
	Email           string                  `json:"email"`
	Phone           string                  `json:"phone"`
	City            string                  `json:"city"`
	Country         string                  `json:"country"`
	Summary         string                  `json:"summary"`
	Skills          []string                `json:"skills"`
	Experiences     []ExperienceRecord      `json:"experiences"`
	Education       []EducationRecord       `json:"education"`
	Extracurricular []ExtracurricularRecord `json:"extracurricular"`
	CreatedAt       string                  `json:"created_at"`
	UpdatedAt       string                  `json:"updated_at"`
}

type ExperienceRecord struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	StartMonth string `json:"startmonth"`
	StartYear  string `json:"startyear"`
	EndMonth   string `json:"endmonth"`
	EndYear    string `json:"endyear"`
}

type EducationRecord struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Grade       string `json:"grade"`
	StartMonth  string `json:"startmonth"`
	StartYear   string `json:"startyear"`
	EndMonth    string `json:"endmonth"`
	EndYear     string `json:"endyear"`
}

// ExtracurricularRecord keeps Description only to read rows written with the
// older {activity, description} shape; it is never written.
type ExtracurricularRecord struct {
	Activity    string `json:"activity"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
}

// ToRecord maps a document onto its storage record for userID.
func ToRecord(doc Document, userID string) Record {
	rec := Record{
		ID:              doc.ID,
		UserID:          userID,
		Title:           doc.Title,
		FirstName:       doc.FirstName,
		LastName:        doc.LastName,
		Email:           doc.Email,
		Phone:           doc.Phone,
		City:            doc.City,
		Country:         doc.Country,
		Summary:         doc.Summary,
		Skills:          append([]string{}, doc.Skills...),
		Experiences:     make([]ExperienceRecord, 0, len(doc.Experiences)),
		Education:       make([]EducationRecord, 0, len(doc.Education)),
		Extracurricular: make([]ExtracurricularRecord, 0, len(doc.Extracurricular)),
	}
	if !doc.CreatedAt.IsZero() {
		rec.CreatedAt = db.FormatTimestamp(doc.CreatedAt)
	}
	if !doc.UpdatedAt.IsZero() {
		rec.UpdatedAt = db.FormatTimestamp(doc.UpdatedAt)
	}
	for _, e := range doc.Experiences {
		rec.Experiences = append(rec.Experiences, ExperienceRecord(e))
	}
	for _, e := range doc.Education {
		rec.Education = append(rec.Education, EducationRecord(e))
	}
	for _, e := range doc.Extracurricular {
		rec.Extracurricular = append(rec.Extracurricular, ExtracurricularRecord{Activity: e.Activity, Role: e.Role})
	}
	return rec
}

// FromRecord maps a storage record back onto a document. Unparseable
// timestamps become the zero time; nil lists become empty lists.
func FromRecord(rec Record) Document {
	doc := Document{
		ID:              rec.ID,
		Title:           rec.Title,
		FirstName:       rec.FirstName,
		LastName:        rec.LastName,
		Email:           rec.Email,
		Phone:           rec.Phone,
		City:            rec.City,
		Country:         rec.Country,
		Summary:         rec.Summary,
		Skills:          append([]string{}, rec.Skills...),
		Experiences:     make([]Experience, 0, len(rec.Experiences)),
		Education:       make([]Education, 0, len(rec.Education)),
		Extracurricular: make([]Extracurricular, 0, len(rec.Extracurricular)),
	}
	doc.CreatedAt, _ = db.ParseTimestamp(rec.CreatedAt)
	doc.UpdatedAt, _ = db.ParseTimestamp(rec.UpdatedAt)
	for _, e := range rec.Experiences {
		doc.Experiences = append(doc.Experiences, Experience(e))
	}
	for _, e := range rec.Education {
		doc.Education = append(doc.Education, Education(e))
	}
	for _, e := range rec.Extracurricular {
		role := e.Role
		if role == "" {
			role = e.Description
		}
		doc.Extracurricular = append(doc.Extracurricular, Extracurricular{Activity: e.Activity, Role: role})
	}
	return doc
}

// DecodeRecord parses loose storage JSON. Missing fields default to empty
// values and unknown fields are dropped. Key matching is case-insensitive, so
// rows holding camelCase nested keys (startMonth) decode as well.
func DecodeRecord(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	rec.normalize()
	return rec, nil
}

func (r *Record) normalize() {
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Experiences == nil {
		r.Experiences = []ExperienceRecord{}
	}
	if r.Education == nil {
		r.Education = []EducationRecord{}
	}
	if r.Extracurricular == nil {
		r.Extracurricular = []ExtracurricularRecord{}
	}
}
