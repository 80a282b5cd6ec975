package models

import "time"

// AccountLearning holds the latest aggregated feedback insights for an
// account, one row per (account_id, learning_type).
type AccountLearning struct {
	ID           string    `db:"id" json:"id"`
	AccountID    string    `db:"account_id" json:"account_id"`
	LearningType string    `db:"learning_type" json:"learning_type"`
	Insights     string    `db:"insights" json:"insights"`
	LastUpdated  time.Time `db:"last_updated" json:"last_updated"`
}

const LearningTypeContent = "content"
