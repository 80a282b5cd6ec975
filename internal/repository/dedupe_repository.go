package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/postforge/internal/models"
)

type DedupeRepository interface {
	ListRecent(ctx context.Context, accountID string, limit int) ([]*models.DedupeRecord, error)
	Create(ctx context.Context, tx *sql.Tx, record *models.DedupeRecord) error
}

type dedupeRepository struct {
	db *sql.DB
}

func NewDedupeRepository(db *sql.DB) DedupeRepository {
	return &dedupeRepository{db: db}
}

func (r *dedupeRepository) ListRecent(ctx context.Context, accountID string, limit int) ([]*models.DedupeRecord, error) {
	query := `
		SELECT id, account_id, title, content_hash, created_at
		FROM dedupe_records
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var records []*models.DedupeRecord
	for rows.Next() {
		var rec models.DedupeRecord
		err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Title, &rec.ContentHash, &rec.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (r *dedupeRepository) Create(ctx context.Context, tx *sql.Tx, record *models.DedupeRecord) error {
	query := `INSERT INTO dedupe_records (id, account_id, title, content_hash) VALUES ($1, $2, $3, $4)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, record.ID, record.AccountID, record.Title, record.ContentHash)
	} else {
		_, err = r.db.ExecContext(ctx, query, record.ID, record.AccountID, record.Title, record.ContentHash)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
