package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postforge/internal/apperrors"
	"github.com/maheshrc27/postforge/internal/queue"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/internal/service"
	"github.com/maheshrc27/postforge/internal/transfer"
)

type ReviewHandler struct {
	as          service.ApprovalService
	psr         repository.PostSetRepository
	pr          repository.PostRepository
	AsynqClient *asynq.Client
}

func NewReviewHandler(
	as service.ApprovalService,
	psr repository.PostSetRepository,
	pr repository.PostRepository,
	asynqClient *asynq.Client) *ReviewHandler {
	return &ReviewHandler{as: as, psr: psr, pr: pr, AsynqClient: asynqClient}
}

func (h *ReviewHandler) ListPostSets(c *fiber.Ctx) error {
	accountID := c.Query("account_id")
	if accountID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "account_id is required",
		})
	}

	postSets, err := h.psr.ListByAccount(c.Context(), accountID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list post sets",
		})
	}
	return c.Status(fiber.StatusOK).JSON(postSets)
}

func (h *ReviewHandler) GetPostSet(c *fiber.Ctx) error {
	postSetID := c.Params("id")

	postSet, err := h.psr.GetByID(c.Context(), postSetID)
	if err != nil {
		return errorJSON(c, err)
	}
	if postSet == nil {
		return errorJSON(c, apperrors.NewNotFound("post set", postSetID))
	}

	posts, err := h.pr.ListByPostSet(c.Context(), postSetID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"post_set": postSet,
		"posts":    posts,
	})
}

func (h *ReviewHandler) UpdatePost(c *fiber.Ctx) error {
	postSetID := c.Params("id")

	var update transfer.ReviewUpdate
	if err := c.BodyParser(&update); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	if update.PostID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "post_id is required",
		})
	}

	post, err := h.as.UpdateReview(c.Context(), postSetID, &update)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	postSetID := c.Params("id")

	var req transfer.ApproveRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	result, err := h.as.ApproveAndSend(c.Context(), postSetID, req.PostIDs, req.PreferredAdapter)
	if err != nil {
		return errorJSON(c, err)
	}

	if result.Success {
		err := queue.EnqueueNotify(h.AsynqClient, queue.NotifyPayload{
			Title:   "Posts Approved & Sent",
			Message: fmt.Sprintf("%d posts sent via %s.", result.SentCount, result.UsedAdapter),
		})
		if err != nil {
			slog.Error("notify enqueue failed", "post_set_id", postSetID, "error", err.Error())
		}
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
