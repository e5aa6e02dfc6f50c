package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"cvstudio-backend/internal/shared/storage/db"
)

// SQLRepo stores users in the users table of either dialect.
type SQLRepo struct {
	DB      *sql.DB
	Dialect db.Dialect
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, full_name, picture_url,
  email_notifications, marketing_emails, product_updates, created_at, updated_at`

func (r *SQLRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (` + userColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		user.ID,
		user.Email,
		nullable(user.PasswordHash),
		nullable(user.FirstName),
		nullable(user.LastName),
		nullable(user.Phone),
		nullable(user.FullName),
		nullable(user.PictureURL),
		user.Preferences.EmailNotifications,
		user.Preferences.MarketingEmails,
		user.Preferences.ProductUpdates,
		db.FormatTimestamp(user.CreatedAt),
		db.FormatTimestamp(user.UpdatedAt),
	)
	return mapWriteError(err)
}

func (r *SQLRepo) Update(ctx context.Context, user User) error {
	const query = `
UPDATE users SET
  email = $2,
  password_hash = $3,
  first_name = $4,
  last_name = $5,
  phone = $6,
  full_name = $7,
  picture_url = $8,
  email_notifications = $9,
  marketing_emails = $10,
  product_updates = $11,
  updated_at = $12
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, db.Rebind(r.Dialect, query),
		user.ID,
		user.Email,
		nullable(user.PasswordHash),
		nullable(user.FirstName),
		nullable(user.LastName),
		nullable(user.Phone),
		nullable(user.FullName),
		nullable(user.PictureURL),
		user.Preferences.EmailNotifications,
		user.Preferences.MarketingEmails,
		user.Preferences.ProductUpdates,
		db.FormatTimestamp(user.UpdatedAt),
	)
	if err != nil {
		return mapWriteError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepo) GetByID(ctx context.Context, id string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, db.Rebind(r.Dialect, query), id))
}

func (r *SQLRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, db.Rebind(r.Dialect, query), email))
}

func scanUser(row *sql.Row) (User, error) {
	var (
		user                              User
		passwordHash, firstName, lastName sql.NullString
		phone, fullName, pictureURL       sql.NullString
		createdAt, updatedAt              string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&firstName,
		&lastName,
		&phone,
		&fullName,
		&pictureURL,
		&user.Preferences.EmailNotifications,
		&user.Preferences.MarketingEmails,
		&user.Preferences.ProductUpdates,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.PasswordHash = passwordHash.String
	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.Phone = phone.String
	user.FullName = fullName.String
	user.PictureURL = pictureURL.String
	user.CreatedAt, _ = db.ParseTimestamp(createdAt)
	user.UpdatedAt, _ = db.ParseTimestamp(updatedAt)
	return user, nil
}

// mapWriteError reports unique violations from either driver as ErrEmailTaken.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return ErrEmailTaken
	}
	return err
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
