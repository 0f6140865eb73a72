package extractions

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new extraction record.
func (r *PGRepo) Create(ctx context.Context, extraction Extraction) error {
	const query = `
INSERT INTO extractions (id, file_name, extension, size_bytes, status, error_code, duration_ms, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.DB.ExecContext(ctx, query,
		extraction.ID,
		extraction.FileName,
		extraction.Extension,
		extraction.SizeBytes,
		extraction.Status,
		nullIfEmpty(extraction.ErrorCode),
		extraction.DurationMs,
		nullIfEmpty(extraction.Model),
		extraction.CreatedAt,
	)
	return err
}

// ListRecent returns records newest first, up to limit. Limit zero returns
// no rows; defaulting is the caller's job.
func (r *PGRepo) ListRecent(ctx context.Context, limit int) ([]Extraction, error) {
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}

	const query = `
SELECT id, file_name, extension, size_bytes, status, error_code, duration_ms, model, created_at
FROM extractions
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		var e Extraction
		var errorCode sql.NullString
		var model sql.NullString
		if err := rows.Scan(
			&e.ID,
			&e.FileName,
			&e.Extension,
			&e.SizeBytes,
			&e.Status,
			&errorCode,
			&e.DurationMs,
			&model,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if errorCode.Valid {
			e.ErrorCode = errorCode.String
		}
		if model.Valid {
			e.Model = model.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
