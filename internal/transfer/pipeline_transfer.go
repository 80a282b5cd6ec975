package transfer

import (
	"time"

	"github.com/maheshrc27/postforge/internal/scheduler"
)

type AccountCreation struct {
	Label          string   `json:"label"`
	OpenAIKey      string   `json:"openai_key"`
	PromptTemplate string   `json:"prompt_template"`
	Pillars        []string `json:"pillars"`
	Platforms      []string `json:"platforms"`
	Timezone       string   `json:"timezone"`
	PostsPerWeek   int      `json:"posts_per_week"`
	Active         bool     `json:"active"`
}

type ToneAnalysisRequest struct {
	AccountID  string `json:"account_id"`
	Type       string `json:"type"`
	WebsiteURL string `json:"website_url,omitempty"`
	CSVData    string `json:"csv_data,omitempty"`
}

type GenerateRequest struct {
	AccountID  string `json:"account_id"`
	WeeksAhead int    `json:"weeks_ahead"`
}

type AccountRunResult struct {
	AccountID    string `json:"account_id"`
	AccountLabel string `json:"account_label"`
	PostSetID    string `json:"post_set_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

type ApproveRequest struct {
	PostIDs          []string `json:"post_ids"`
	PreferredAdapter string   `json:"preferred_adapter,omitempty"`
}

type ApprovalResult struct {
	Success     bool               `json:"success"`
	SentCount   int                `json:"sent_count"`
	UsedAdapter string             `json:"used_adapter,omitempty"`
	ExternalID  string             `json:"external_id,omitempty"`
	Exports     []scheduler.Export `json:"exports,omitempty"`
	Error       string             `json:"error,omitempty"`
}

type ReviewUpdate struct {
	PostID        string  `json:"post_id"`
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	ScheduledDate *string `json:"scheduled_date,omitempty"`
	Approved      *bool   `json:"approved,omitempty"`
}

type CostEstimate struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	EstimatedUSD float64 `json:"estimated_cost_usd"`
	Model        string  `json:"model"`
}

type AccountUsage struct {
	AccountID            string    `json:"account_id"`
	AccountLabel         string    `json:"account_label"`
	GenerationsThisMonth int64     `json:"generations_this_month"`
	EstimatedCostUSD     float64   `json:"estimated_cost_this_month"`
	LastResetDate        time.Time `json:"last_reset_date"`
}

type FeedbackCreation struct {
	UserID   string   `json:"user_id,omitempty"`
	Rating   string   `json:"rating"`
	Feedback string   `json:"feedback,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Metrics  string   `json:"metrics,omitempty"`
}
