package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	config "github.com/maheshrc27/postforge/configs"
	"github.com/maheshrc27/postforge/internal/queue"
	"github.com/maheshrc27/postforge/internal/service"
)

type WeeklyGenerationJob struct {
	cfg         config.Config
	gs          service.GenerationService
	asynqClient *asynq.Client
}

func NewWeeklyGenerationJob(cfg config.Config, gs service.GenerationService, asynqClient *asynq.Client) *WeeklyGenerationJob {
	return &WeeklyGenerationJob{cfg: cfg, gs: gs, asynqClient: asynqClient}
}

// Run generates next week's batch for every active account. Runs Monday
// morning, targeting the following Monday, so every set has a full week of
// review time.
func (j *WeeklyGenerationJob) Run() {
	ctx := context.Background()

	results := j.gs.GenerateForAllAccounts(ctx, 0)
	if len(results) == 0 {
		slog.Info("weekly generation ran with no active accounts")
		return
	}

	succeeded := 0
	for _, result := range results {
		if result.Error != "" {
			continue
		}
		succeeded++

		err := queue.EnqueueNotify(j.asynqClient, queue.NotifyPayload{
			Title:   "Posts Ready for Review",
			Message: fmt.Sprintf("New post set for %s is ready for review.", result.AccountLabel),
			Link:    j.cfg.AppURL + "/review/" + result.PostSetID,
		})
		if err != nil {
			slog.Error("notify enqueue failed", "post_set_id", result.PostSetID, "error", err.Error())
		}
	}

	slog.Info("weekly generation finished", "accounts", len(results), "succeeded", succeeded)
}
