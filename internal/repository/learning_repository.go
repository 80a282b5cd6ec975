package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/postforge/internal/models"
)

type LearningRepository interface {
	GetByAccountType(ctx context.Context, accountID, learningType string) (*models.AccountLearning, error)
	Upsert(ctx context.Context, learning *models.AccountLearning) error
}

type learningRepository struct {
	db *sql.DB
}

func NewLearningRepository(db *sql.DB) LearningRepository {
	return &learningRepository{db: db}
}

func (r *learningRepository) GetByAccountType(ctx context.Context, accountID, learningType string) (*models.AccountLearning, error) {
	query := `
		SELECT id, account_id, learning_type, insights, last_updated
		FROM account_learning
		WHERE account_id = $1 AND learning_type = $2
	`
	row := r.db.QueryRowContext(ctx, query, accountID, learningType)

	var learning models.AccountLearning
	err := row.Scan(&learning.ID, &learning.AccountID, &learning.LearningType, &learning.Insights, &learning.LastUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &learning, nil
}

func (r *learningRepository) Upsert(ctx context.Context, learning *models.AccountLearning) error {
	query := `
		INSERT INTO account_learning (id, account_id, learning_type, insights, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, learning_type)
		DO UPDATE SET insights = EXCLUDED.insights, last_updated = EXCLUDED.last_updated
	`

	_, err := r.db.ExecContext(ctx, query, learning.ID, learning.AccountID, learning.LearningType, learning.Insights, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
