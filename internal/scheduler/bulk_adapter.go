package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BulkAPIAdapter posts the whole batch to the external scheduling service
// in one request.
type BulkAPIAdapter struct {
	client *http.Client
	apiURL string
}

func NewBulkAPIAdapter(apiURL string) *BulkAPIAdapter {
	return &BulkAPIAdapter{
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: apiURL,
	}
}

func (a *BulkAPIAdapter) ID() string {
	return "succulent-social"
}

func (a *BulkAPIAdapter) Name() string {
	return "Succulent Social"
}

func (a *BulkAPIAdapter) SendBulk(ctx context.Context, posts []SchedulerPost) SendResult {
	payload, err := json.Marshal(map[string]any{"posts": posts})
	if err != nil {
		return SendResult{OK: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(payload))
	if err != nil {
		return SendResult{OK: false, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return SendResult{OK: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return SendResult{OK: false, Error: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var parsed struct {
		ID      string `json:"id"`
		BatchID string `json:"batchId"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return SendResult{OK: false, Error: fmt.Sprintf("invalid response: %v", err)}
	}

	externalID := parsed.ID
	if externalID == "" {
		externalID = parsed.BatchID
	}
	return SendResult{OK: true, ExternalID: externalID}
}
