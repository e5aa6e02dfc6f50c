package cv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cvstudio-backend/internal/shared/storage/db"
)

// SQLRepo stores CVs in the cvs table of a Postgres or SQLite database.
type SQLRepo struct {
	DB      *sql.DB
	Dialect db.Dialect
}

const selectColumns = `id, user_id, title, firstname, lastname, email, phone, city, country, summary,
  skills, experiences, education, extracurricular, created_at, updated_at`

func (r *SQLRepo) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM cvs
WHERE user_id = $1
ORDER BY updated_at DESC, created_at DESC`
	rows, err := r.DB.QueryContext(ctx, db.Rebind(r.Dialect, query), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLRepo) Get(ctx context.Context, id, userID string) (Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM cvs
WHERE id = $1 AND user_id = $2
LIMIT 1`
	rec, err := scanRecord(r.DB.QueryRowContext(ctx, db.Rebind(r.Dialect, query), id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

func (r *SQLRepo) Insert(ctx context.Context, rec Record) error {
	lists, err := encodeLists(rec)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO cvs (id, user_id, title, firstname, lastname, email, phone, city, country, summary,
  skills, experiences, education, extracurricular, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err = r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		rec.ID,
		rec.UserID,
		rec.Title,
		rec.FirstName,
		rec.LastName,
		rec.Email,
		rec.Phone,
		rec.City,
		rec.Country,
		rec.Summary,
		lists[0],
		lists[1],
		lists[2],
		lists[3],
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

func (r *SQLRepo) Update(ctx context.Context, rec Record) error {
	lists, err := encodeLists(rec)
	if err != nil {
		return err
	}
	const query = `
UPDATE cvs SET
  title = $3,
  firstname = $4,
  lastname = $5,
  email = $6,
  phone = $7,
  city = $8,
  country = $9,
  summary = $10,
  skills = $11,
  experiences = $12,
  education = $13,
  extracurricular = $14,
  updated_at = $15
WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		rec.ID,
		rec.UserID,
		rec.Title,
		rec.FirstName,
		rec.LastName,
		rec.Email,
		rec.Phone,
		rec.City,
		rec.Country,
		rec.Summary,
		lists[0],
		lists[1],
		lists[2],
		lists[3],
		rec.UpdatedAt,
	)
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
	const query = `DELETE FROM cvs WHERE id = $1 AND user_id = $2`
	_, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query), id, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var skills, experiences, education, extracurricular sql.NullString
	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Title,
		&rec.FirstName,
		&rec.LastName,
		&rec.Email,
		&rec.Phone,
		&rec.City,
		&rec.Country,
		&rec.Summary,
		&skills,
		&experiences,
		&education,
		&extracurricular,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if err := decodeList(skills, &rec.Skills); err != nil {
		return Record{}, fmt.Errorf("decode skills: %w", err)
	}
	if err := decodeList(experiences, &rec.Experiences); err != nil {
		return Record{}, fmt.Errorf("decode experiences: %w", err)
	}
	if err := decodeList(education, &rec.Education); err != nil {
		return Record{}, fmt.Errorf("decode education: %w", err)
	}
	if err := decodeList(extracurricular, &rec.Extracurricular); err != nil {
		return Record{}, fmt.Errorf("decode extracurricular: %w", err)
	}
	rec.normalize()
	return rec, nil
}

func decodeList(raw sql.NullString, dest any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), dest)
}

func encodeLists(rec Record) ([4]string, error) {
	rec.normalize()
	var out [4]string
	for i, v := range []any{rec.Skills, rec.Experiences, rec.Education, rec.Extracurricular} {
		data, err := json.Marshal(v)
		if err != nil {
			return out, err
		}
		out[i] = string(data)
	}
	return out, nil
}
