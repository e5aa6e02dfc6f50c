package draft

import (
	"fmt"
	"time"

	"cvstudio-backend/internal/coverletter"
)

// CoverLetterDraft is the editable state of one cover-letter editor.
type CoverLetterDraft struct {
	doc coverletter.Document
}

func NewCoverLetterDraft() *CoverLetterDraft {
	return &CoverLetterDraft{}
}

func (d *CoverLetterDraft) Load(doc coverletter.Document) {
	d.doc = doc
}

func (d *CoverLetterDraft) SetField(name, value string) error {
	switch name {
	case "title":
		d.doc.Title = value
	case "content":
		d.doc.Content = value
	case "company":
		d.doc.Company = value
	case "position":
		d.doc.Position = value
	case "recipient":
		d.doc.Recipient = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return nil
}

// SetFields applies several fields. Nothing changes when any name is unknown.
func (d *CoverLetterDraft) SetFields(fields map[string]string) error {
	next := *d
	for _, name := range sortedKeys(fields) {
		if err := next.SetField(name, fields[name]); err != nil {
			return err
		}
	}
	*d = next
	return nil
}

func (d *CoverLetterDraft) ID() string { return d.doc.ID }

func (d *CoverLetterDraft) Document() coverletter.Document { return d.doc }

func (d *CoverLetterDraft) MarkSaved(id, title string, createdAt, updatedAt time.Time) {
	d.doc.ID = id
	d.doc.Title = title
	d.doc.CreatedAt = createdAt
	d.doc.UpdatedAt = updatedAt
}
