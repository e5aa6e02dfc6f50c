package cv

import "context"

// Repo persists CV records. Every lookup is scoped by user id.
type Repo interface {
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	Get(ctx context.Context, id, userID string) (Record, error)
	Insert(ctx context.Context, rec Record) error
	// Update overwrites the editable columns and updated_at of the row
	// matching rec.ID and rec.UserID; ErrNotFound when none matches.
	Update(ctx context.Context, rec Record) error
	// Delete removes the matching row; a missing row is not an error.
	Delete(ctx context.Context, id, userID string) error
}
