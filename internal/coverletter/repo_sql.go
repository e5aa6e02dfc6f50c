package coverletter

import (
	"context"
	"database/sql"
	"errors"

	"cvstudio-backend/internal/shared/storage/db"
)

type SQLRepo struct {
	DB      *sql.DB
	Dialect db.Dialect
}

const selectColumns = `id, user_id, title, content, company, position, recipient, created_at, updated_at`

func (r *SQLRepo) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM cover_letters
WHERE user_id = $1
ORDER BY updated_at DESC, created_at DESC`
	rows, err := r.DB.QueryContext(ctx, db.Rebind(r.Dialect, query), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var rec Record
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLRepo) Get(ctx context.Context, id, userID string) (Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM cover_letters
WHERE id = $1 AND user_id = $2
LIMIT 1`
	var rec Record
	if err := scanRecord(r.DB.QueryRowContext(ctx, db.Rebind(r.Dialect, query), id, userID), &rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *SQLRepo) Insert(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO cover_letters (id, user_id, title, content, company, position, recipient, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		rec.ID, rec.UserID, rec.Title, rec.Content, rec.Company, rec.Position, rec.Recipient, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (r *SQLRepo) Update(ctx context.Context, rec Record) error {
	const query = `
UPDATE cover_letters SET
  title = $3,
  content = $4,
  company = $5,
  position = $6,
  recipient = $7,
  updated_at = $8
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		rec.ID, rec.UserID, rec.Title, rec.Content, rec.Company, rec.Position, rec.Recipient, rec.UpdatedAt)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepo) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM cover_letters WHERE id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query), id, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, rec *Record) error {
	var title, content, company, position, recipient sql.NullString
	if err := row.Scan(&rec.ID, &rec.UserID, &title, &content, &company, &position, &recipient, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return err
	}
	rec.Title = title.String
	rec.Content = content.String
	rec.Company = company.String
	rec.Position = position.String
	rec.Recipient = recipient.String
	return nil
}
