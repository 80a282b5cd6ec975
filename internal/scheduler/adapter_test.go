package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdapter struct {
	id       string
	name     string
	ok       bool
	calls    int
	exportOK bool
}

func (a *fakeAdapter) ID() string   { return a.id }
func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) SendBulk(ctx context.Context, posts []SchedulerPost) SendResult {
	a.calls++
	if a.ok {
		return SendResult{OK: true, ExternalID: "ext-" + a.id}
	}
	return SendResult{OK: false, Error: "down"}
}

type fakeExportAdapter struct {
	fakeAdapter
}

func (a *fakeExportAdapter) ExportFormat(posts []SchedulerPost) (Export, error) {
	return Export{Format: "csv", Data: "data", Filename: a.id + ".csv"}, nil
}

func chainPosts() []SchedulerPost {
	return []SchedulerPost{{Content: "hello", Platforms: []string{"x"}, ScheduledDate: time.Now()}}
}

func TestChain_PrimarySucceeds(t *testing.T) {
	primary := &fakeAdapter{id: "primary", name: "Primary", ok: true}
	backup := &fakeExportAdapter{fakeAdapter{id: "backup", name: "Backup"}}
	chain := NewChain("primary", primary, backup)

	result := chain.SendWithFallback(context.Background(), chainPosts(), "")

	assert.True(t, result.Success)
	assert.Equal(t, "Primary", result.UsedAdapter)
	assert.Equal(t, "ext-primary", result.ExternalID)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, backup.calls)
}

func TestChain_PreferredTriedBeforePrimary(t *testing.T) {
	primary := &fakeAdapter{id: "primary", name: "Primary", ok: true}
	preferred := &fakeAdapter{id: "preferred", name: "Preferred", ok: true}
	chain := NewChain("primary", primary, preferred)

	result := chain.SendWithFallback(context.Background(), chainPosts(), "preferred")

	assert.Equal(t, "Preferred", result.UsedAdapter)
	assert.Equal(t, 0, primary.calls)
}

func TestChain_PreferredFailureFallsThroughToPrimary(t *testing.T) {
	primary := &fakeAdapter{id: "primary", name: "Primary", ok: true}
	preferred := &fakeAdapter{id: "preferred", name: "Preferred", ok: false}
	chain := NewChain("primary", primary, preferred)

	result := chain.SendWithFallback(context.Background(), chainPosts(), "preferred")

	assert.True(t, result.Success)
	assert.Equal(t, "Primary", result.UsedAdapter)
	assert.Equal(t, 1, preferred.calls)
	assert.Equal(t, 1, primary.calls)
}

func TestChain_PreferredEqualsPrimaryTriedOnce(t *testing.T) {
	primary := &fakeAdapter{id: "primary", name: "Primary", ok: false}
	exporter := &fakeExportAdapter{fakeAdapter{id: "csv", name: "CSV"}}
	chain := NewChain("primary", primary, exporter)

	result := chain.SendWithFallback(context.Background(), chainPosts(), "primary")

	assert.False(t, result.Success)
	assert.Equal(t, 1, primary.calls)
}

func TestChain_AllSendersDownYieldsExports(t *testing.T) {
	primary := &fakeAdapter{id: "primary", name: "Primary", ok: false}
	csvExport := &fakeExportAdapter{fakeAdapter{id: "csv", name: "CSV"}}
	jsonExport := &fakeExportAdapter{fakeAdapter{id: "json", name: "JSON"}}
	chain := NewChain("primary", primary, csvExport, jsonExport)

	result := chain.SendWithFallback(context.Background(), chainPosts(), "")

	assert.False(t, result.Success)
	assert.Equal(t, "Export Fallback", result.UsedAdapter)
	assert.Equal(t, "All schedulers unavailable, export files generated for manual import", result.Error)
	require.Len(t, result.Exports, 2)
	assert.Equal(t, "CSV", result.Exports[0].Adapter)
	assert.Equal(t, "JSON", result.Exports[1].Adapter)
}

func TestChain_UnknownPreferredIgnored(t *testing.T) {
	primary := &fakeAdapter{id: "primary", name: "Primary", ok: true}
	chain := NewChain("primary", primary)

	result := chain.SendWithFallback(context.Background(), chainPosts(), "nope")

	assert.True(t, result.Success)
	assert.Equal(t, "Primary", result.UsedAdapter)
}

func TestBulkAPIAdapter_SendBulk(t *testing.T) {
	var gotBody map[string][]SchedulerPost
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"batchId": "batch-42"})
	}))
	defer server.Close()

	a := NewBulkAPIAdapter(server.URL)
	result := a.SendBulk(context.Background(), chainPosts())

	assert.True(t, result.OK)
	assert.Equal(t, "batch-42", result.ExternalID)
	require.Len(t, gotBody["posts"], 1)
}

func TestBulkAPIAdapter_HTTPErrorIsResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	a := NewBulkAPIAdapter(server.URL)
	result := a.SendBulk(context.Background(), chainPosts())

	assert.False(t, result.OK)
	assert.Contains(t, result.Error, "HTTP 502")
}
