package extractions

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsAuditRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	extraction := Extraction{
		ID:         "extraction-1",
		FileName:   "policy.pdf",
		Extension:  ".pdf",
		SizeBytes:  1024,
		Status:     StatusCompleted,
		DurationMs: 2100,
		Model:      "gpt-4o-mini",
		CreatedAt:  time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO extractions").
		WithArgs(
			extraction.ID,
			extraction.FileName,
			extraction.Extension,
			extraction.SizeBytes,
			extraction.Status,
			nil, // error_code
			extraction.DurationMs,
			extraction.Model,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), extraction); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateStoresErrorCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	extraction := Extraction{
		ID:        "extraction-2",
		FileName:  "scan.pdf",
		Extension: ".pdf",
		SizeBytes: 512,
		Status:    StatusFailed,
		ErrorCode: "no_extractable_text",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO extractions").
		WithArgs(
			extraction.ID,
			extraction.FileName,
			extraction.Extension,
			extraction.SizeBytes,
			extraction.Status,
			extraction.ErrorCode,
			extraction.DurationMs,
			nil, // model
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), extraction); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListRecentScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "file_name", "extension", "size_bytes", "status", "error_code", "duration_ms", "model", "created_at",
	}).
		AddRow("extraction-2", "scan.pdf", ".pdf", int64(512), StatusFailed, "upstream_error", int64(900), nil, now).
		AddRow("extraction-1", "policy.pdf", ".pdf", int64(1024), StatusCompleted, nil, int64(2100), "gpt-4o-mini", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, file_name, extension").
		WithArgs(2).
		WillReturnRows(rows)

	out, err := repo.ListRecent(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].ErrorCode != "upstream_error" {
		t.Fatalf("unexpected error code: %q", out[0].ErrorCode)
	}
	if out[1].Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %q", out[1].Model)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
