package queue

import (
	"github.com/maheshrc27/postforge/internal/notifier"
	"github.com/maheshrc27/postforge/internal/service"
)

// Queue owns the handlers for background work that must never block or
// fail the generation path.
type Queue struct {
	n  *notifier.Notifier
	ls service.LearningService
}

func NewQueue(n *notifier.Notifier, ls service.LearningService) *Queue {
	return &Queue{n: n, ls: ls}
}

const (
	TaskTypeNotify   = "notify:send"
	TaskTypeLearning = "learning:process"
)

type NotifyPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

type LearningPayload struct {
	AccountID string `json:"account_id"`
	PostID    string `json:"post_id"`
	Rating    string `json:"rating"`
	Feedback  string `json:"feedback,omitempty"`
}
