package coverletter

import (
	"strings"
	"time"

	"cvstudio-backend/internal/shared/storage/db"
)

// Placeholder is shown in place of an empty body. It is never stored.
const Placeholder = "Start writing your cover letter here..."

// FallbackTitle is used when neither title, position nor company is known.
const FallbackTitle = "Cover Letter"

// Document is the in-memory cover letter. Content is opaque text.
type Document struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Recipient string    `json:"recipient"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Body returns the content, or Placeholder when it is blank.
func (d Document) Body() string {
	if strings.TrimSpace(d.Content) == "" {
		return Placeholder
	}
	return d.Content
}

// EffectiveTitle returns the title, falling back to "<Position> at <Company>",
// then the company, then FallbackTitle.
func (d Document) EffectiveTitle() string {
	title := strings.TrimSpace(d.Title)
	position := strings.TrimSpace(d.Position)
	company := strings.TrimSpace(d.Company)
	switch {
	case title != "":
		return d.Title
	case position != "" && company != "":
		return position + " at " + company
	case company != "":
		return company
	default:
		return FallbackTitle
	}
}

// Record is the storage shape of a cover letter (one cover_letters row).
type Record struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Recipient string `json:"recipient"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func ToRecord(doc Document, userID string) Record {
	rec := Record{
		ID:        doc.ID,
		UserID:    userID,
		Title:     doc.Title,
		Content:   doc.Content,
		Company:   doc.Company,
		Position:  doc.Position,
		Recipient: doc.Recipient,
	}
	if !doc.CreatedAt.IsZero() {
		rec.CreatedAt = db.FormatTimestamp(doc.CreatedAt)
	}
	if !doc.UpdatedAt.IsZero() {
		rec.UpdatedAt = db.FormatTimestamp(doc.UpdatedAt)
	}
	return rec
}

func FromRecord(rec Record) Document {
	doc := Document{
		ID:        rec.ID,
		Title:     rec.Title,
		Content:   rec.Content,
		Company:   rec.Company,
		Position:  rec.Position,
		Recipient: rec.Recipient,
		UserID:    rec.UserID,
	}
	doc.CreatedAt, _ = db.ParseTimestamp(rec.CreatedAt)
	doc.UpdatedAt, _ = db.ParseTimestamp(rec.UpdatedAt)
	return doc
}
