package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// SchedulerPost is the wire shape delivery backends accept.
type SchedulerPost struct {
	Title         string    `json:"title,omitempty"`
	Content       string    `json:"content"`
	Platforms     []string  `json:"platforms"`
	ScheduledDate time.Time `json:"scheduledDate"`
	MediaURLs     []string  `json:"mediaUrls"`
}

type SendResult struct {
	OK         bool   `json:"ok"`
	ExternalID string `json:"externalId,omitempty"`
	Error      string `json:"error,omitempty"`
}

type Export struct {
	Adapter  string `json:"adapter,omitempty"`
	Format   string `json:"format"`
	Data     string `json:"data"`
	Filename string `json:"filename"`
}

type Adapter interface {
	ID() string
	Name() string
	SendBulk(ctx context.Context, posts []SchedulerPost) SendResult
}

// Exporter is implemented by adapters that cannot send but can produce a
// downloadable artifact for manual import.
type Exporter interface {
	ExportFormat(posts []SchedulerPost) (Export, error)
}

type FallbackResult struct {
	Success     bool     `json:"success"`
	UsedAdapter string   `json:"usedAdapter"`
	ExternalID  string   `json:"externalId,omitempty"`
	Exports     []Export `json:"exports,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// Chain holds the fixed, explicitly ordered list of delivery backends.
type Chain struct {
	adapters  []Adapter
	primaryID string
}

func NewChain(primaryID string, adapters ...Adapter) *Chain {
	return &Chain{adapters: adapters, primaryID: primaryID}
}

func (c *Chain) Adapters() []Adapter {
	return c.adapters
}

func (c *Chain) Find(id string) Adapter {
	for _, adapter := range c.adapters {
		if adapter.ID() == id {
			return adapter
		}
	}
	return nil
}

// SendWithFallback tries the preferred adapter, then the primary sender,
// then degrades to generating export artifacts from every export-capable
// adapter. The fallback path is a result, not an error: it never fails.
func (c *Chain) SendWithFallback(ctx context.Context, posts []SchedulerPost, preferredID string) FallbackResult {
	tried := map[string]bool{}

	if preferredID != "" {
		if preferred := c.Find(preferredID); preferred != nil {
			tried[preferred.ID()] = true
			result := preferred.SendBulk(ctx, posts)
			if result.OK {
				return FallbackResult{Success: true, UsedAdapter: preferred.Name(), ExternalID: result.ExternalID}
			}
			slog.Warn("preferred adapter failed", "adapter", preferred.Name(), "error", result.Error)
		}
	}

	if primary := c.Find(c.primaryID); primary != nil && !tried[primary.ID()] {
		result := primary.SendBulk(ctx, posts)
		if result.OK {
			return FallbackResult{Success: true, UsedAdapter: primary.Name(), ExternalID: result.ExternalID}
		}
		slog.Warn("primary adapter failed", "adapter", primary.Name(), "error", result.Error)
	}

	slog.Info("all sending adapters failed, generating export files")
	var exports []Export
	for _, adapter := range c.adapters {
		exporter, ok := adapter.(Exporter)
		if !ok {
			continue
		}
		export, err := exporter.ExportFormat(posts)
		if err != nil {
			slog.Warn("export failed", "adapter", adapter.Name(), "error", err.Error())
			continue
		}
		export.Adapter = adapter.Name()
		exports = append(exports, export)
	}

	return FallbackResult{
		Success:     false,
		UsedAdapter: "Export Fallback",
		Exports:     exports,
		Error:       "All schedulers unavailable, export files generated for manual import",
	}
}
