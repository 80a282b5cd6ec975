package queue

import (
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

func EnqueueNotify(asynqClient *asynq.Client, payload NotifyPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = asynqClient.Enqueue(asynq.NewTask(TaskTypeNotify, taskPayload))
	if err != nil {
		return err
	}

	slog.Info("notification task enqueued", "title", payload.Title)
	return nil
}

func EnqueueLearning(asynqClient *asynq.Client, payload LearningPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = asynqClient.Enqueue(asynq.NewTask(TaskTypeLearning, taskPayload))
	if err != nil {
		return err
	}

	slog.Info("learning task enqueued", "post_id", payload.PostID)
	return nil
}
