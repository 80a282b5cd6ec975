package service

import (
	"time"

	"github.com/maheshrc27/postforge/pkg/utils"
)

var scheduledDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseScheduledDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range scheduledDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func hashContent(content string) string {
	return utils.HashContent(content)
}
