package models

import "time"

// DedupeRecord is appended when a post set is actually delivered, never for
// content that was only generated.
type DedupeRecord struct {
	ID          string    `db:"id" json:"id"`
	AccountID   string    `db:"account_id" json:"account_id"`
	Title       string    `db:"title" json:"title"`
	ContentHash string    `db:"content_hash" json:"content_hash"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
