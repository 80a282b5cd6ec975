package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/postforge/internal/llm"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/internal/transfer"
)

// Per-token USD pricing for the models the generator is expected to run.
// Unknown models fall back to gpt-4o pricing.
var modelPricing = map[string]struct{ input, output float64 }{
	"gpt-4o":        {input: 2.50 / 1e6, output: 10.00 / 1e6},
	"gpt-4o-mini":   {input: 0.15 / 1e6, output: 0.60 / 1e6},
	"gpt-3.5-turbo": {input: 0.50 / 1e6, output: 1.50 / 1e6},
}

const (
	defaultOutputChars  = 2000
	usdPerGenerationEst = 0.50
)

type CostService interface {
	TrackGeneration(ctx context.Context, accountID string, usage llm.TokenUsage, model string) error
	EstimateGeneration(prompt string, expectedOutputChars int, model string) transfer.CostEstimate
	MonthlyUsage(ctx context.Context) ([]transfer.AccountUsage, error)
}

type costService struct {
	ar  repository.AccountRepository
	now func() time.Time
}

func NewCostService(ar repository.AccountRepository) CostService {
	return &costService{ar: ar, now: time.Now}
}

// TrackGeneration bumps the account's monthly counter, resetting to 1 on
// the first generation of a new calendar month.
func (s *costService) TrackGeneration(ctx context.Context, accountID string, usage llm.TokenUsage, model string) error {
	account, err := s.ar.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	slog.Info("generation usage",
		"account_id", accountID,
		"model", model,
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"cost_usd", tokenCost(model, usage))

	if !account.MonthlyGenCount.Valid || !account.LastResetDate.Valid {
		return nil
	}

	now := s.now()
	lastReset := account.LastResetDate.Time
	if now.Month() != lastReset.Month() || now.Year() != lastReset.Year() {
		return s.ar.UpdateGenCounter(ctx, accountID, 1, now)
	}
	return s.ar.UpdateGenCounter(ctx, accountID, account.MonthlyGenCount.Int64+1, lastReset)
}

// EstimateGeneration prices a prompt before it is sent, assuming a typical
// completion length when none is given.
func (s *costService) EstimateGeneration(prompt string, expectedOutputChars int, model string) transfer.CostEstimate {
	if expectedOutputChars <= 0 {
		expectedOutputChars = defaultOutputChars
	}
	inputTokens := EstimateTokens(prompt)
	outputTokens := (expectedOutputChars + 3) / 4

	pricing := pricingFor(model)
	return transfer.CostEstimate{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		EstimatedUSD: float64(inputTokens)*pricing.input + float64(outputTokens)*pricing.output,
		Model:        model,
	}
}

// MonthlyUsage summarizes the counter-backed spend estimate per account.
func (s *costService) MonthlyUsage(ctx context.Context) ([]transfer.AccountUsage, error) {
	accounts, err := s.ar.List(ctx)
	if err != nil {
		return nil, err
	}

	usage := make([]transfer.AccountUsage, 0, len(accounts))
	for _, account := range accounts {
		var count int64
		if account.MonthlyGenCount.Valid {
			count = account.MonthlyGenCount.Int64
		}

		entry := transfer.AccountUsage{
			AccountID:            account.ID,
			AccountLabel:         account.Label,
			GenerationsThisMonth: count,
			EstimatedCostUSD:     float64(count) * usdPerGenerationEst,
		}
		if account.LastResetDate.Valid {
			entry.LastResetDate = account.LastResetDate.Time
		}
		usage = append(usage, entry)
	}
	return usage, nil
}

func pricingFor(model string) struct{ input, output float64 } {
	if pricing, ok := modelPricing[model]; ok {
		return pricing
	}
	return modelPricing["gpt-4o"]
}

func tokenCost(model string, usage llm.TokenUsage) float64 {
	pricing := pricingFor(model)
	return float64(usage.PromptTokens)*pricing.input + float64(usage.CompletionTokens)*pricing.output
}
