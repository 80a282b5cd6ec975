package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postforge/internal/queue"
	"github.com/maheshrc27/postforge/internal/service"
	"github.com/maheshrc27/postforge/internal/transfer"
)

type FeedbackHandler struct {
	s           service.FeedbackService
	AsynqClient *asynq.Client
}

func NewFeedbackHandler(service service.FeedbackService, asynqClient *asynq.Client) *FeedbackHandler {
	return &FeedbackHandler{s: service, AsynqClient: asynqClient}
}

func (h *FeedbackHandler) CreateFeedback(c *fiber.Ctx) error {
	postID := c.Params("id")

	var fc transfer.FeedbackCreation
	if err := c.BodyParser(&fc); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	fb, accountID, err := h.s.RecordFeedback(c.Context(), postID, &fc)
	if err != nil {
		return errorJSON(c, err)
	}

	err = queue.EnqueueLearning(h.AsynqClient, queue.LearningPayload{
		AccountID: accountID,
		PostID:    postID,
		Rating:    fb.Rating,
		Feedback:  fb.Feedback,
	})
	if err != nil {
		slog.Error("learning enqueue failed", "post_id", postID, "error", err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fb)
}
