package scheduler

import (
	"context"
	"strings"
	"time"
)

// Field values are wrapped in double quotes with internal quotes doubled.
// The vendor import formats accept no other escaping.
func csvField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func csvRow(fields ...string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = csvField(f)
	}
	return strings.Join(quoted, ",")
}

func exportStamp(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format("2006-01-02")
}

// BufferExportAdapter produces Buffer's CSV import layout. It cannot send.
type BufferExportAdapter struct {
	Clock func() time.Time
}

func (a *BufferExportAdapter) ID() string   { return "buffer-export" }
func (a *BufferExportAdapter) Name() string { return "Buffer (CSV Export)" }

func (a *BufferExportAdapter) SendBulk(ctx context.Context, posts []SchedulerPost) SendResult {
	return SendResult{OK: false, Error: "Use exportFormat() instead for Buffer CSV export"}
}

func (a *BufferExportAdapter) ExportFormat(posts []SchedulerPost) (Export, error) {
	lines := []string{"Content,Profile,Date,Time,Timezone,Image,Link"}
	for _, post := range posts {
		utc := post.ScheduledDate.UTC()
		lines = append(lines, csvRow(
			post.Content,
			strings.Join(post.Platforms, ","),
			utc.Format("2006-01-02"),
			utc.Format("15:04"),
			"UTC",
			"",
			"",
		))
	}

	return Export{
		Format:   "csv",
		Data:     strings.Join(lines, "\n"),
		Filename: "buffer-posts-" + exportStamp(a.Clock) + ".csv",
	}, nil
}

// LaterExportAdapter produces Later's CSV layout, with one TRUE column per
// connected account type.
type LaterExportAdapter struct {
	Clock func() time.Time
}

func (a *LaterExportAdapter) ID() string   { return "later-export" }
func (a *LaterExportAdapter) Name() string { return "Later (CSV Export)" }

func (a *LaterExportAdapter) SendBulk(ctx context.Context, posts []SchedulerPost) SendResult {
	return SendResult{OK: false, Error: "Use exportFormat() instead for Later CSV export"}
}

func (a *LaterExportAdapter) ExportFormat(posts []SchedulerPost) (Export, error) {
	lines := []string{"Date,Time,Text,Media,Link,Instagram Account,Twitter Account,Facebook Account,LinkedIn Account,TikTok Account,Pinterest Account"}
	for _, post := range posts {
		has := map[string]bool{}
		for _, platform := range post.Platforms {
			has[platform] = true
		}
		flag := func(platform string) string {
			if has[platform] {
				return "TRUE"
			}
			return ""
		}

		utc := post.ScheduledDate.UTC()
		lines = append(lines, csvRow(
			utc.Format("1/2/2006"),
			utc.Format("15:04:05"),
			post.Content,
			"",
			"",
			flag("instagram"),
			flag("x"),
			flag("facebook"),
			flag("linkedin"),
			flag("tiktok"),
			flag("pinterest"),
		))
	}

	return Export{
		Format:   "csv",
		Data:     strings.Join(lines, "\n"),
		Filename: "later-posts-" + exportStamp(a.Clock) + ".csv",
	}, nil
}

// HootsuiteExportAdapter produces Hootsuite's CSV layout with its network
// naming.
type HootsuiteExportAdapter struct {
	Clock func() time.Time
}

var hootsuiteNetworks = map[string]string{
	"x":         "Twitter",
	"instagram": "Instagram",
	"linkedin":  "LinkedIn",
	"facebook":  "Facebook",
	"threads":   "Threads",
	"bluesky":   "Bluesky",
}

func (a *HootsuiteExportAdapter) ID() string   { return "hootsuite-export" }
func (a *HootsuiteExportAdapter) Name() string { return "Hootsuite (CSV Export)" }

func (a *HootsuiteExportAdapter) SendBulk(ctx context.Context, posts []SchedulerPost) SendResult {
	return SendResult{OK: false, Error: "Use exportFormat() instead for Hootsuite CSV export"}
}

func (a *HootsuiteExportAdapter) ExportFormat(posts []SchedulerPost) (Export, error) {
	lines := []string{"Date,Time,Message,Link,Social Networks"}
	for _, post := range posts {
		networks := make([]string, 0, len(post.Platforms))
		for _, platform := range post.Platforms {
			if mapped, ok := hootsuiteNetworks[platform]; ok {
				networks = append(networks, mapped)
			} else {
				networks = append(networks, platform)
			}
		}

		utc := post.ScheduledDate.UTC()
		lines = append(lines, csvRow(
			utc.Format("2006-01-02"),
			utc.Format("15:04"),
			post.Content,
			"",
			strings.Join(networks, ";"),
		))
	}

	return Export{
		Format:   "csv",
		Data:     strings.Join(lines, "\n"),
		Filename: "hootsuite-posts-" + exportStamp(a.Clock) + ".csv",
	}, nil
}
