package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/postforge/internal/models"
)

type FeedbackRepository interface {
	Create(ctx context.Context, fb *models.PostFeedback) error
	ListByAccount(ctx context.Context, accountID string, limit int) ([]*models.PostFeedback, error)
}

type feedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, fb *models.PostFeedback) error {
	query := `
		INSERT INTO post_feedback (id, post_id, user_id, rating, feedback, tags, metrics)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query, fb.ID, fb.PostID, fb.UserID, fb.Rating, fb.Feedback, pq.Array(fb.Tags), fb.Metrics)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *feedbackRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]*models.PostFeedback, error) {
	query := `
		SELECT f.id, f.post_id, f.user_id, f.rating, f.feedback, f.tags, f.metrics, f.created_at
		FROM post_feedback f
		JOIN posts p ON p.id = f.post_id
		JOIN post_sets ps ON ps.id = p.post_set_id
		WHERE ps.account_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var feedback []*models.PostFeedback
	for rows.Next() {
		var fb models.PostFeedback
		err := rows.Scan(&fb.ID, &fb.PostID, &fb.UserID, &fb.Rating, &fb.Feedback, pq.Array(&fb.Tags), &fb.Metrics, &fb.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		feedback = append(feedback, &fb)
	}
	return feedback, rows.Err()
}
