package handlers

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/queue"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/internal/service"
)

type TriggerHandler struct {
	gs          service.GenerationService
	as          service.ApprovalService
	ar          repository.AccountRepository
	psr         repository.PostSetRepository
	AsynqClient *asynq.Client
}

func NewTriggerHandler(
	gs service.GenerationService,
	as service.ApprovalService,
	ar repository.AccountRepository,
	psr repository.PostSetRepository,
	asynqClient *asynq.Client) *TriggerHandler {
	return &TriggerHandler{gs: gs, as: as, ar: ar, psr: psr, AsynqClient: asynqClient}
}

// TriggerWeekly runs the generation pipeline for every active account.
// Meant for external cron callers; the in-process cron job calls the same
// service method.
func (h *TriggerHandler) TriggerWeekly(c *fiber.Ctx) error {
	weeksAhead := c.QueryInt("weeks_ahead", 0)

	results := h.gs.GenerateForAllAccounts(c.Context(), weeksAhead)

	succeeded := 0
	for _, result := range results {
		if result.Error == "" {
			succeeded++
		}
	}

	err := queue.EnqueueNotify(h.AsynqClient, queue.NotifyPayload{
		Title:   "Weekly Generation Complete",
		Message: fmt.Sprintf("%d of %d accounts generated successfully.", succeeded, len(results)),
	})
	if err != nil {
		slog.Error("notify enqueue failed", "error", err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"accounts":  len(results),
		"succeeded": succeeded,
		"results":   results,
	})
}

// TriggerAutosend pushes every pending set with approved posts through the
// delivery chain.
func (h *TriggerHandler) TriggerAutosend(c *fiber.Ctx) error {
	accounts, err := h.ar.ListActive(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}

	sent := 0
	failed := 0
	for _, account := range accounts {
		postSets, err := h.psr.ListByAccount(c.Context(), account.ID)
		if err != nil {
			slog.Error("listing post sets failed", "account_id", account.ID, "error", err.Error())
			failed++
			continue
		}

		for _, postSet := range postSets {
			if postSet.Status != models.PostSetStatusPending {
				continue
			}

			result, err := h.as.ApproveAndSend(c.Context(), postSet.ID, nil, "")
			if err != nil {
				slog.Error("autosend failed", "post_set_id", postSet.ID, "error", err.Error())
				failed++
				continue
			}
			if result.Success {
				sent++
			} else {
				failed++
			}
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"sent":   sent,
		"failed": failed,
	})
}
