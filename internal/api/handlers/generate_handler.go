package handlers

import (
	"bufio"
	"encoding/json"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	config "github.com/maheshrc27/postforge/configs"
	"github.com/maheshrc27/postforge/internal/queue"
	"github.com/maheshrc27/postforge/internal/service"
	"github.com/maheshrc27/postforge/internal/transfer"
	"github.com/valyala/fasthttp"
)

type GenerateHandler struct {
	cfg         config.Config
	s           service.GenerationService
	AsynqClient *asynq.Client
}

func NewGenerateHandler(cfg config.Config, service service.GenerationService, asynqClient *asynq.Client) *GenerateHandler {
	return &GenerateHandler{cfg: cfg, s: service, AsynqClient: asynqClient}
}

func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req transfer.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	if req.AccountID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "account_id is required",
		})
	}

	postSet, err := h.s.GenerateForAccount(c.Context(), req.AccountID, req.WeeksAhead)
	if err != nil {
		return errorJSON(c, err)
	}

	h.notifyReviewReady(postSet.ID, postSet.WeekStart)

	return c.Status(fiber.StatusOK).JSON(postSet)
}

// GenerateStream forwards service updates as server-sent events. The
// connection closes after the terminal event.
func (h *GenerateHandler) GenerateStream(c *fiber.Ctx) error {
	accountID := c.Query("account_id")
	if accountID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "account_id is required",
		})
	}
	weeksAhead := c.QueryInt("weeks_ahead", 0)

	updates, err := h.s.GenerateStream(c.Context(), accountID, weeksAhead)
	if err != nil {
		return errorJSON(c, err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		for update := range updates {
			payload, err := json.Marshal(update)
			if err != nil {
				continue
			}
			if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
			if update.Type == "complete" {
				h.notifyReviewReady(update.PostSetID, "")
			}
		}
	}))
	return nil
}

func (h *GenerateHandler) notifyReviewReady(postSetID, weekStart string) {
	message := "A new post set is ready for review."
	if weekStart != "" {
		message = "Post set for week " + weekStart + " is ready for review."
	}
	err := queue.EnqueueNotify(h.AsynqClient, queue.NotifyPayload{
		Title:   "Posts Ready for Review",
		Message: message,
		Link:    h.cfg.AppURL + "/review/" + postSetID,
	})
	if err != nil {
		slog.Error("notify enqueue failed", "post_set_id", postSetID, "error", err.Error())
	}
}
