package models

import "time"

type PostFeedback struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	UserID    string    `db:"user_id" json:"user_id,omitempty"`
	Rating    string    `db:"rating" json:"rating"` // good, bad, neutral
	Feedback  string    `db:"feedback" json:"feedback,omitempty"`
	Tags      []string  `db:"tags" json:"tags,omitempty"`
	Metrics   string    `db:"metrics" json:"metrics,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	RatingGood    = "good"
	RatingBad     = "bad"
	RatingNeutral = "neutral"
)
