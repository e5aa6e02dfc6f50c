package coverletter

import "context"

// Repo persists cover letter records; every lookup is scoped by user id.
type Repo interface {
	ListByUser(ctx context.Context, userID string) ([]Record, error)
	Get(ctx context.Context, id, userID string) (Record, error)
	Insert(ctx context.Context, rec Record) error
	Update(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id, userID string) error
}
