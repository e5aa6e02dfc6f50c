package coverletter

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"cvstudio-backend/internal/shared/storage/db"
)

func TestSQLRepoInsert(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	repo := &SQLRepo{DB: sqlDB, Dialect: db.Postgres}
	rec := Record{
		ID: "cl-1", UserID: "user-1", Title: "T", Content: "Body", Company: "Acme",
		Position: "Dev", Recipient: "HR", CreatedAt: "2025-01-01T00:00:00.000000Z", UpdatedAt: "2025-01-01T00:00:00.000000Z",
	}
	mock.ExpectExec("INSERT INTO cover_letters").
		WithArgs("cl-1", "user-1", "T", "Body", "Acme", "Dev", "HR", rec.CreatedAt, rec.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Insert(context.Background(), rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSQLRepoGetMissingIsNotFound(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	repo := &SQLRepo{DB: sqlDB, Dialect: db.Postgres}
	mock.ExpectQuery("FROM cover_letters").
		WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.Get(context.Background(), "missing", "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLRepoListScansNullableColumns(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	repo := &SQLRepo{DB: sqlDB, Dialect: db.Postgres}
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "content", "company", "position", "recipient", "created_at", "updated_at"}).
		AddRow("b", "user-1", "B", nil, "Acme", nil, nil, "2025-01-01T00:00:00.000000Z", "2025-01-03T00:00:00.000000Z").
		AddRow("a", "user-1", "A", "Hi", nil, nil, nil, "2025-01-01T00:00:00.000000Z", "2025-01-02T00:00:00.000000Z")
	mock.ExpectQuery("FROM cover_letters").WithArgs("user-1").WillReturnRows(rows)

	recs, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "b" || recs[0].Content != "" || recs[1].Content != "Hi" {
		t.Fatalf("unexpected records: %+v", recs)
	}
}
