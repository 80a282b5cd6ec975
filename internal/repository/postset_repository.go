package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/postforge/internal/apperrors"
	"github.com/maheshrc27/postforge/internal/models"
)

type PostSetRepository interface {
	GetByID(ctx context.Context, id string) (*models.PostSet, error)
	GetByAccountWeek(ctx context.Context, accountID, weekStart string) (*models.PostSet, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.PostSet, error)
	Create(ctx context.Context, tx *sql.Tx, postSet *models.PostSet) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, status, id string) error
}

type postSetRepository struct {
	db *sql.DB
}

func NewPostSetRepository(db *sql.DB) PostSetRepository {
	return &postSetRepository{db: db}
}

const postSetColumns = `id, account_id, week_start::text, status, raw_prompt, raw_response, created_at, updated_at`

func (r *postSetRepository) GetByID(ctx context.Context, id string) (*models.PostSet, error) {
	query := `SELECT ` + postSetColumns + ` FROM post_sets WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var ps models.PostSet
	err := row.Scan(&ps.ID, &ps.AccountID, &ps.WeekStart, &ps.Status, &ps.RawPrompt, &ps.RawResponse, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ps, nil
}

func (r *postSetRepository) GetByAccountWeek(ctx context.Context, accountID, weekStart string) (*models.PostSet, error) {
	query := `SELECT ` + postSetColumns + ` FROM post_sets WHERE account_id = $1 AND week_start = $2`
	row := r.db.QueryRowContext(ctx, query, accountID, weekStart)

	var ps models.PostSet
	err := row.Scan(&ps.ID, &ps.AccountID, &ps.WeekStart, &ps.Status, &ps.RawPrompt, &ps.RawResponse, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &ps, nil
}

func (r *postSetRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.PostSet, error) {
	query := `SELECT ` + postSetColumns + ` FROM post_sets WHERE account_id = $1 ORDER BY week_start DESC`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var sets []*models.PostSet
	for rows.Next() {
		var ps models.PostSet
		err := rows.Scan(&ps.ID, &ps.AccountID, &ps.WeekStart, &ps.Status, &ps.RawPrompt, &ps.RawResponse, &ps.CreatedAt, &ps.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		sets = append(sets, &ps)
	}
	return sets, rows.Err()
}

func (r *postSetRepository) Create(ctx context.Context, tx *sql.Tx, postSet *models.PostSet) error {
	query := `
		INSERT INTO post_sets (id, account_id, week_start, status, raw_prompt, raw_response)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, postSet.ID, postSet.AccountID, postSet.WeekStart, postSet.Status, postSet.RawPrompt, postSet.RawResponse)
	} else {
		_, err = r.db.ExecContext(ctx, query, postSet.ID, postSet.AccountID, postSet.WeekStart, postSet.Status, postSet.RawPrompt, postSet.RawResponse)
	}
	if err != nil {
		// unique constraint on (account_id, week_start) closes the
		// check-then-act race on concurrent generations
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.NewDuplicateWeek(postSet.AccountID, postSet.WeekStart)
		}
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postSetRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, status, id string) error {
	query := `UPDATE post_sets SET status = $1, updated_at = $2 WHERE id = $3`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, status, time.Now(), id)
	} else {
		_, err = r.db.ExecContext(ctx, query, status, time.Now(), id)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
