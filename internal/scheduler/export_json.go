package scheduler

import (
	"context"
	"encoding/json"
	"time"
)

// JSONExportAdapter produces a universal envelope for custom integrations.
type JSONExportAdapter struct {
	Clock func() time.Time
}

type jsonExportPost struct {
	Title         string   `json:"title,omitempty"`
	Content       string   `json:"content"`
	Platforms     []string `json:"platforms"`
	ScheduledDate string   `json:"scheduledDate"`
	MediaURLs     []string `json:"mediaUrls"`
	CharacterCount int     `json:"characterCount"`
}

type jsonExportEnvelope struct {
	Generated  string           `json:"generated"`
	TotalPosts int              `json:"totalPosts"`
	Posts      []jsonExportPost `json:"posts"`
}

func (a *JSONExportAdapter) ID() string   { return "json-export" }
func (a *JSONExportAdapter) Name() string { return "JSON Export (Universal)" }

func (a *JSONExportAdapter) SendBulk(ctx context.Context, posts []SchedulerPost) SendResult {
	return SendResult{OK: false, Error: "Use exportFormat() instead for JSON export"}
}

func (a *JSONExportAdapter) ExportFormat(posts []SchedulerPost) (Export, error) {
	clock := a.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock().UTC()

	envelope := jsonExportEnvelope{
		Generated:  now.Format(time.RFC3339),
		TotalPosts: len(posts),
		Posts:      make([]jsonExportPost, 0, len(posts)),
	}
	for _, post := range posts {
		envelope.Posts = append(envelope.Posts, jsonExportPost{
			Title:          post.Title,
			Content:        post.Content,
			Platforms:      post.Platforms,
			ScheduledDate:  post.ScheduledDate.UTC().Format(time.RFC3339),
			MediaURLs:      post.MediaURLs,
			CharacterCount: len(post.Content),
		})
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return Export{}, err
	}

	return Export{
		Format:   "json",
		Data:     string(data),
		Filename: "social-posts-" + now.Format("2006-01-02") + ".json",
	}, nil
}
