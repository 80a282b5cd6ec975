package scheduler

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 5, 14, 30, 0, 0, time.UTC)
}

func samplePosts() []SchedulerPost {
	return []SchedulerPost{
		{
			Title:         "Launch",
			Content:       `He said "hi" and left`,
			Platforms:     []string{"x", "linkedin"},
			ScheduledDate: time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC),
			MediaURLs:     []string{},
		},
		{
			Content:       "Plain post",
			Platforms:     []string{"instagram"},
			ScheduledDate: time.Date(2025, 6, 11, 17, 45, 0, 0, time.UTC),
			MediaURLs:     []string{"https://cdn.example.com/a.png"},
		},
	}
}

func TestCSVField_DoublesInternalQuotes(t *testing.T) {
	assert.Equal(t, `"He said ""hi"""`, csvField(`He said "hi"`))
	assert.Equal(t, `""`, csvField(""))
}

func TestBufferExport(t *testing.T) {
	a := &BufferExportAdapter{Clock: fixedClock}

	export, err := a.ExportFormat(samplePosts())
	require.NoError(t, err)

	assert.Equal(t, "csv", export.Format)
	assert.Equal(t, "buffer-posts-2025-06-05.csv", export.Filename)

	lines := strings.Split(export.Data, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Content,Profile,Date,Time,Timezone,Image,Link", lines[0])
	assert.Equal(t, `"He said ""hi"" and left","x,linkedin","2025-06-09","09:00","UTC","",""`, lines[1])
	assert.Equal(t, `"Plain post","instagram","2025-06-11","17:45","UTC","",""`, lines[2])
}

func TestLaterExport_PlatformFlags(t *testing.T) {
	a := &LaterExportAdapter{Clock: fixedClock}

	export, err := a.ExportFormat(samplePosts())
	require.NoError(t, err)

	lines := strings.Split(export.Data, "\n")
	require.Len(t, lines, 3)
	// x maps to the Twitter Account column
	assert.Equal(t, `"6/9/2025","09:00:00","He said ""hi"" and left","","","","TRUE","","TRUE","",""`, lines[1])
	assert.Equal(t, `"6/11/2025","17:45:00","Plain post","","","TRUE","","","","",""`, lines[2])
	assert.Equal(t, "later-posts-2025-06-05.csv", export.Filename)
}

func TestHootsuiteExport_NetworkNames(t *testing.T) {
	a := &HootsuiteExportAdapter{Clock: fixedClock}

	export, err := a.ExportFormat([]SchedulerPost{
		{
			Content:       "Cross post",
			Platforms:     []string{"x", "bluesky", "mastodon"},
			ScheduledDate: time.Date(2025, 6, 9, 8, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)

	lines := strings.Split(export.Data, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Time,Message,Link,Social Networks", lines[0])
	// unknown platforms pass through unmapped
	assert.Equal(t, `"2025-06-09","08:00","Cross post","","Twitter;Bluesky;mastodon"`, lines[1])
}

func TestJSONExport(t *testing.T) {
	a := &JSONExportAdapter{Clock: fixedClock}

	export, err := a.ExportFormat(samplePosts())
	require.NoError(t, err)

	assert.Equal(t, "json", export.Format)
	assert.Equal(t, "social-posts-2025-06-05.json", export.Filename)

	var envelope jsonExportEnvelope
	require.NoError(t, json.Unmarshal([]byte(export.Data), &envelope))
	assert.Equal(t, "2025-06-05T14:30:00Z", envelope.Generated)
	assert.Equal(t, 2, envelope.TotalPosts)
	require.Len(t, envelope.Posts, 2)
	assert.Equal(t, "2025-06-09T09:00:00Z", envelope.Posts[0].ScheduledDate)
	assert.Equal(t, len(`He said "hi" and left`), envelope.Posts[0].CharacterCount)
}

func TestExportAdaptersRefuseToSend(t *testing.T) {
	adapters := []Adapter{
		&BufferExportAdapter{},
		&LaterExportAdapter{},
		&HootsuiteExportAdapter{},
		&JSONExportAdapter{},
	}
	for _, a := range adapters {
		result := a.SendBulk(context.Background(), samplePosts())
		assert.False(t, result.OK, a.Name())
		assert.NotEmpty(t, result.Error, a.Name())
	}
}
