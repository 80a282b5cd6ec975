package models

import "time"

type PostSet struct {
	ID          string    `db:"id" json:"id"`
	AccountID   string    `db:"account_id" json:"account_id"`
	WeekStart   string    `db:"week_start" json:"week_start"` // YYYY-MM-DD
	Status      string    `db:"status" json:"status"`
	RawPrompt   string    `db:"raw_prompt" json:"raw_prompt"`
	RawResponse string    `db:"raw_response" json:"raw_response"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Post struct {
	ID          string    `db:"id" json:"id"`
	PostSetID   string    `db:"post_set_id" json:"post_set_id"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	Platforms   []string  `db:"platforms" json:"platforms"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	MediaURLs   []string  `db:"media_urls" json:"media_urls"`
	Approved    bool      `db:"approved" json:"approved"`
	ContentHash string    `db:"content_hash" json:"content_hash"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const (
	PostSetStatusPending = "pending"
	PostSetStatusSent    = "sent"
	PostSetStatusFailed  = "failed"
)
