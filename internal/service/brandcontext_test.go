package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/maheshrc27/postforge/internal/models"
)

func TestBrandContextBuild_Sections(t *testing.T) {
	account := &models.Account{
		ID:        "acc1",
		Platforms: []string{"x"},
		BrandVoice: &models.BrandVoice{
			Tone:        "friendly",
			Style:       "concise",
			Personality: []string{"curious", "direct"},
		},
		TargetAudience: &models.TargetAudience{
			Demographics: "founders",
			Interests:    []string{"automation"},
		},
		ContentGuidelines: &models.ContentGuidelines{
			Preferred: []string{"use numbers"},
			Avoid:     []string{"clickbait"},
		},
		ExamplePosts: []models.ExamplePost{
			{Content: "Example one", Notes: "did well"},
		},
	}

	s := NewBrandContextService(&fakeLearningRepo{})
	got := s.Build(context.Background(), account)

	assert.Contains(t, got, "BRAND VOICE:\nTone: friendly")
	assert.Contains(t, got, "Personality: curious, direct")
	assert.Contains(t, got, "TARGET AUDIENCE:\nDemographics: founders")
	assert.Contains(t, got, "- Do: use numbers")
	assert.Contains(t, got, "- Avoid: clickbait")
	assert.Contains(t, got, "HIGH-PERFORMING POST EXAMPLES:\n1. Example one")
	assert.Contains(t, got, "(did well)")
	assert.Contains(t, got, "PLATFORM-SPECIFIC GUIDELINES:")
	assert.NotContains(t, got, "BRAND VALUES:")
}

func TestBrandContextBuild_EmptyProfile(t *testing.T) {
	s := NewBrandContextService(&fakeLearningRepo{})
	got := s.Build(context.Background(), &models.Account{ID: "acc1"})
	assert.Equal(t, "", got)
}

func TestBrandContextBuild_ExamplePostsCapped(t *testing.T) {
	account := &models.Account{
		ID: "acc1",
		ExamplePosts: []models.ExamplePost{
			{Content: "one"}, {Content: "two"}, {Content: "three"}, {Content: "four"},
		},
	}
	s := NewBrandContextService(&fakeLearningRepo{})
	got := s.Build(context.Background(), account)

	assert.Contains(t, got, "3. three")
	assert.NotContains(t, got, "four")
}

func TestBrandContextBuild_AppendsLearning(t *testing.T) {
	lr := &fakeLearningRepo{learning: &models.AccountLearning{
		AccountID:    "acc1",
		LearningType: models.LearningTypeContent,
		Insights:     `{"recommendations":["Ask questions"],"patterns":{"avoid":["jargon"],"emphasize":["stories"]}}`,
	}}
	account := &models.Account{
		ID:         "acc1",
		BrandVoice: &models.BrandVoice{Tone: "warm"},
	}

	s := NewBrandContextService(lr)
	got := s.Build(context.Background(), account)

	assert.Contains(t, got, "LEARNED RECOMMENDATIONS (from feedback):\n1. Ask questions")
	assert.Contains(t, got, "PATTERNS TO AVOID (based on negative feedback):\n- jargon")
	assert.Contains(t, got, "PATTERNS TO EMPHASIZE (based on positive feedback):\n- stories")
}

func TestBrandContextBuild_MalformedInsightsIgnored(t *testing.T) {
	lr := &fakeLearningRepo{learning: &models.AccountLearning{
		AccountID: "acc1",
		Insights:  "not json",
	}}
	account := &models.Account{ID: "acc1", BrandVoice: &models.BrandVoice{Tone: "warm"}}

	s := NewBrandContextService(lr)
	got := s.Build(context.Background(), account)
	assert.Equal(t, "BRAND VOICE:\nTone: warm", got)
}

func TestTruncateToTokenBudget_UnderBudgetUnchanged(t *testing.T) {
	text := "BRAND VOICE:\nTone: warm\n\nTARGET AUDIENCE:\nDemographics: founders"
	assert.Equal(t, text, TruncateToTokenBudget(text, 1000))
}

func TestTruncateToTokenBudget_DropsLowPriorityFirst(t *testing.T) {
	voice := "BRAND VOICE:\n" + strings.Repeat("tone words ", 30)
	guidelines := "CONTENT GUIDELINES:\n" + strings.Repeat("rule words ", 30)
	examples := "HIGH-PERFORMING POST EXAMPLES:\n" + strings.Repeat("example words ", 100)
	text := voice + "\n\n" + guidelines + "\n\n" + examples

	budget := EstimateTokens(voice) + EstimateTokens(guidelines) + 40
	got := TruncateToTokenBudget(text, budget*10/8+1)

	assert.Contains(t, got, "BRAND VOICE:")
	assert.Contains(t, got, "CONTENT GUIDELINES:")
	assert.NotContains(t, got, strings.Repeat("example words ", 100))
}

func TestTruncateToTokenBudget_PartialSectionMarked(t *testing.T) {
	voice := "BRAND VOICE:\n" + strings.Repeat("tone ", 400)
	got := TruncateToTokenBudget(voice, 100)

	assert.Contains(t, got, "[Section truncated]")
	assert.Less(t, len(got), len(voice))
}

func TestTruncateToTokenBudget_HeaderlessText(t *testing.T) {
	text := strings.Repeat("plain prose without any headers ", 100)
	got := TruncateToTokenBudget(text, 50)

	assert.Contains(t, got, "[Context truncated to fit token limit]")
	assert.Less(t, len(got), len(text))
}
