package draft

import (
	"fmt"
	"time"

	"cvstudio-backend/internal/cv"
)

// List names accepted by the CV entry operations.
const (
	ListExperiences     = "experiences"
	ListEducation       = "education"
	ListExtracurricular = "extracurricular"
)

// CVDraft is the editable state of one CV editor. It is not safe for
// concurrent use; Store serializes access per session.
type CVDraft struct {
	scalars         cv.Document
	skillsText      string
	experiences     *List[cv.Experience]
	education       *List[cv.Education]
	extracurricular *List[cv.Extracurricular]
}

// NewCVDraft starts from a blank document.
func NewCVDraft() *CVDraft {
	d := &CVDraft{}
	d.Load(cv.NewBlank())
	return d
}

// Load replaces the draft with doc. Skills become ", "-joined free text.
func (d *CVDraft) Load(doc cv.Document) {
	d.scalars = doc
	d.scalars.Skills = nil
	d.scalars.Experiences = nil
	d.scalars.Education = nil
	d.scalars.Extracurricular = nil
	d.skillsText = cv.JoinSkills(doc.Skills)
	d.experiences = NewList(doc.Experiences)
	d.education = NewList(doc.Education)
	d.extracurricular = NewList(doc.Extracurricular)
}

// SetField sets a scalar field. "skills" takes free text that is split only
// when Document is called.
func (d *CVDraft) SetField(name, value string) error {
	switch name {
	case "title":
		d.scalars.Title = value
	case "firstName":
		d.scalars.FirstName = value
	case "lastName":
		d.scalars.LastName = value
	case "email":
		d.scalars.Email = value
	case "phone":
		d.scalars.Phone = value
	case "city":
		d.scalars.City = value
	case "country":
		d.scalars.Country = value
	case "summary":
		d.scalars.Summary = value
	case "skills":
		d.skillsText = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// SetFields applies several scalar fields. Nothing changes when any name is
// unknown.
func (d *CVDraft) SetFields(fields map[string]string) error {
	next := *d
	for _, name := range sortedKeys(fields) {
		if err := next.SetField(name, fields[name]); err != nil {
			return err
		}
	}
	d.scalars, d.skillsText = next.scalars, next.skillsText
	return nil
}

func (d *CVDraft) SkillsText() string { return d.skillsText }

func (d *CVDraft) ID() string { return d.scalars.ID }

func (d *CVDraft) AddEntry(list string) (int, error) {
	l, err := d.list(list)
	if err != nil {
		return 0, err
	}
	return l.Add(), nil
}

// UpdateEntry sets one field of an entry. Callers validate index against Len.
func (d *CVDraft) UpdateEntry(list string, index int, field, value string) error {
	l, err := d.list(list)
	if err != nil {
		return err
	}
	return l.Update(index, field, value)
}

// UpdateEntryFields sets several fields of one entry at once.
func (d *CVDraft) UpdateEntryFields(list string, index int, fields map[string]string) error {
	l, err := d.list(list)
	if err != nil {
		return err
	}
	return l.UpdateFields(index, fields)
}

// RemoveEntry deletes an entry. Callers validate index against Len.
func (d *CVDraft) RemoveEntry(list string, index int) error {
	l, err := d.list(list)
	if err != nil {
		return err
	}
	l.Remove(index)
	return nil
}

func (d *CVDraft) Len(list string) (int, error) {
	l, err := d.list(list)
	if err != nil {
		return 0, err
	}
	return l.Len(), nil
}

// Document returns the draft as a document, splitting the skills text.
func (d *CVDraft) Document() cv.Document {
	doc := d.scalars
	doc.Skills = cv.SplitSkills(d.skillsText)
	doc.Experiences = d.experiences.Items()
	doc.Education = d.education.Items()
	doc.Extracurricular = d.extracurricular.Items()
	return doc
}

// MarkSaved records the identity and title assigned by storage.
func (d *CVDraft) MarkSaved(id, title string, createdAt, updatedAt time.Time) {
	d.scalars.ID = id
	d.scalars.Title = title
	d.scalars.CreatedAt = createdAt
	d.scalars.UpdatedAt = updatedAt
}

func (d *CVDraft) list(name string) (editable, error) {
	switch name {
	case ListExperiences:
		return d.experiences, nil
	case ListEducation:
		return d.education, nil
	case ListExtracurricular:
		return d.extracurricular, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownList, name)
	}
}
