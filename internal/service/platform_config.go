package service

import (
	"strconv"
	"strings"
)

type PlatformConfig struct {
	Name            string
	DisplayName     string
	MaxLength       int
	HashtagStrategy string
	ContentStyle    string
	BestPractices   []string
}

var platformConfigs = map[string]PlatformConfig{
	"x": {
		Name:            "x",
		DisplayName:     "X (Twitter)",
		MaxLength:       280,
		HashtagStrategy: "1-3 hashtags max, integrated naturally",
		ContentStyle:    "Concise, conversational, thread-friendly",
		BestPractices: []string{
			"Ask questions to encourage replies",
			"Use line breaks for readability",
			"Include relevant hashtags naturally",
			"Keep under 280 characters",
			"Use emojis sparingly but effectively",
		},
	},
	"instagram": {
		Name:            "instagram",
		DisplayName:     "Instagram",
		MaxLength:       2200,
		HashtagStrategy: "5-10 relevant hashtags, can be at the end",
		ContentStyle:    "Visual-first, storytelling, inspirational",
		BestPractices: []string{
			"Write engaging captions that tell a story",
			"Use relevant hashtags (5-10 max)",
			"Include call-to-action",
			"Mention visual elements that could accompany",
			"Use line breaks for visual appeal",
		},
	},
	"threads": {
		Name:            "threads",
		DisplayName:     "Threads",
		MaxLength:       500,
		HashtagStrategy: "2-5 hashtags, casual approach",
		ContentStyle:    "Conversational, community-focused, authentic",
		BestPractices: []string{
			"Focus on conversation and community",
			"Be more casual and authentic",
			"Use fewer hashtags than Instagram",
			"Encourage discussion and replies",
			"Share personal insights",
		},
	},
	"bluesky": {
		Name:            "bluesky",
		DisplayName:     "Bluesky",
		MaxLength:       300,
		HashtagStrategy: "Minimal hashtags, focus on content",
		ContentStyle:    "Twitter-like but more thoughtful, decentralized community feel",
		BestPractices: []string{
			"Similar to Twitter but allow for more nuance",
			"Less hashtag-heavy",
			"Focus on genuine conversation",
			"Community-minded approach",
			"Thoughtful, less promotional",
		},
	},
	"linkedin": {
		Name:            "linkedin",
		DisplayName:     "LinkedIn",
		MaxLength:       3000,
		HashtagStrategy: "3-5 professional hashtags",
		ContentStyle:    "Professional, value-driven, thought leadership",
		BestPractices: []string{
			"Lead with value and insights",
			"Use professional tone",
			"Include industry-relevant hashtags",
			"Share lessons learned",
			"Encourage professional discussion",
		},
	},
	"tiktok": {
		Name:            "tiktok",
		DisplayName:     "TikTok",
		MaxLength:       150,
		HashtagStrategy: "3-5 trending hashtags",
		ContentStyle:    "Fun, energetic, trend-aware, video-focused",
		BestPractices: []string{
			"Write for video content",
			"Be energetic and fun",
			"Use trending hashtags",
			"Include hooks and curiosity gaps",
			"Appeal to younger audience",
		},
	},
}

func platformGuidelines(platform string) string {
	config, ok := platformConfigs[platform]
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString("PLATFORM: " + config.DisplayName + "\n")
	b.WriteString("- Max length: " + strconv.Itoa(config.MaxLength) + " characters\n")
	b.WriteString("- Style: " + config.ContentStyle + "\n")
	b.WriteString("- Hashtags: " + config.HashtagStrategy + "\n")
	b.WriteString("- Best practices: " + strings.Join(config.BestPractices, ", ") + "\n")
	return b.String()
}
