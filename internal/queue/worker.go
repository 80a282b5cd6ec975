package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Both handlers swallow downstream errors: notification and learning are
// best-effort and must never be retried into the critical path.

func (q *Queue) HandleNotifyTask(ctx context.Context, task *asynq.Task) error {
	var payload NotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	q.n.NotifyAll(ctx, payload.Title, payload.Message, payload.Link)
	return nil
}

func (q *Queue) HandleLearningTask(ctx context.Context, task *asynq.Task) error {
	var payload LearningPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := q.ls.ProcessFeedback(ctx, payload.AccountID, payload.PostID, payload.Rating, payload.Feedback); err != nil {
		slog.Error("learning processing failed", "post_id", payload.PostID, "error", err.Error())
	}
	return nil
}
