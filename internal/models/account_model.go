package models

import (
	"database/sql"
	"time"
)

type Account struct {
	ID                string             `db:"id" json:"id"`
	Label             string             `db:"label" json:"label"`
	OpenAIKey         string             `db:"openai_key" json:"-"`
	PromptTemplate    string             `db:"prompt_template" json:"prompt_template"`
	Pillars           []string           `db:"pillars" json:"pillars"`
	Platforms         []string           `db:"platforms" json:"platforms"`
	Timezone          string             `db:"timezone" json:"timezone"`
	PostsPerWeek      int                `db:"posts_per_week" json:"posts_per_week"`
	Active            bool               `db:"active" json:"active"`
	ContextTokenLimit int                `db:"context_token_limit" json:"context_token_limit"`
	BrandVoice        *BrandVoice        `db:"brand_voice" json:"brand_voice,omitempty"`
	TargetAudience    *TargetAudience    `db:"target_audience" json:"target_audience,omitempty"`
	BrandValues       *BrandValues       `db:"brand_values" json:"brand_values,omitempty"`
	ContentGuidelines *ContentGuidelines `db:"content_guidelines" json:"content_guidelines,omitempty"`
	ExamplePosts      []ExamplePost      `db:"example_posts" json:"example_posts,omitempty"`
	MonthlyGenCount   sql.NullInt64      `db:"monthly_gen_count" json:"-"`
	LastResetDate     sql.NullTime       `db:"last_reset_date" json:"-"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
}

const DefaultContextTokenLimit = 6000
