package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/maheshrc27/postforge/configs"
	"github.com/maheshrc27/postforge/internal/llm"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/pkg/utils"
)

const learningWindow = 50

type LearningService interface {
	ProcessFeedback(ctx context.Context, accountID, postID, rating, feedbackText string) error
}

type learningService struct {
	cfg    config.Config
	ar     repository.AccountRepository
	pr     repository.PostRepository
	fr     repository.FeedbackRepository
	lr     repository.LearningRepository
	client *llm.Client
}

func NewLearningService(
	cfg config.Config,
	ar repository.AccountRepository,
	pr repository.PostRepository,
	fr repository.FeedbackRepository,
	lr repository.LearningRepository,
	client *llm.Client) LearningService {
	return &learningService{
		cfg:    cfg,
		ar:     ar,
		pr:     pr,
		fr:     fr,
		lr:     lr,
		client: client,
	}
}

type learningInsights struct {
	Recommendations []string `json:"recommendations"`
	Patterns        struct {
		Avoid     []string `json:"avoid"`
		Emphasize []string `json:"emphasize"`
	} `json:"patterns"`
	Improvements []string `json:"improvements"`
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// ProcessFeedback aggregates recent ratings into prompt-augmentation
// insights. It runs off the critical path; the queue boundary logs and
// swallows any error it returns.
func (s *learningService) ProcessFeedback(ctx context.Context, accountID, postID, rating, feedbackText string) error {
	account, err := s.ar.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return nil
	}

	posts, err := s.pr.ListRecentByAccount(ctx, accountID, learningWindow)
	if err != nil {
		return err
	}
	feedback, err := s.fr.ListByAccount(ctx, accountID, learningWindow*4)
	if err != nil {
		return err
	}

	byPost := make(map[string][]*models.PostFeedback)
	for _, fb := range feedback {
		byPost[fb.PostID] = append(byPost[fb.PostID], fb)
	}

	var goodCount, badCount int
	badTags := map[string]int{}
	var goodPatterns []string
	for _, post := range posts {
		entries := byPost[post.ID]
		good, bad := false, false
		for _, fb := range entries {
			switch fb.Rating {
			case models.RatingGood:
				good = true
				if fb.Feedback != "" && len(goodPatterns) < 5 {
					goodPatterns = append(goodPatterns, fb.Feedback)
				}
			case models.RatingBad:
				bad = true
				for _, tag := range fb.Tags {
					badTags[tag]++
				}
			}
		}
		if good {
			goodCount++
		}
		if bad {
			badCount++
		}
	}

	insights := s.generateInsights(ctx, account, goodCount, badCount, badTags, goodPatterns, feedbackText)

	encoded, err := json.Marshal(insights)
	if err != nil {
		return err
	}

	id, err := gonanoid.New()
	if err != nil {
		return err
	}

	return s.lr.Upsert(ctx, &models.AccountLearning{
		ID:           id,
		AccountID:    accountID,
		LearningType: models.LearningTypeContent,
		Insights:     string(encoded),
	})
}

func (s *learningService) generateInsights(ctx context.Context, account *models.Account, goodCount, badCount int, badTags map[string]int, goodPatterns []string, recentFeedback string) learningInsights {
	var tagLines []string
	for tag, count := range badTags {
		tagLines = append(tagLines, fmt.Sprintf("- %s: %d occurrences", tag, count))
	}
	sort.Strings(tagLines)

	var patternLines []string
	for _, p := range goodPatterns {
		patternLines = append(patternLines, "- "+p)
	}

	if recentFeedback == "" {
		recentFeedback = "None"
	}

	prompt := fmt.Sprintf(`Analyze feedback for %s and provide insights:

STATISTICS:
- Good posts: %d
- Bad posts: %d

COMMON ISSUES (from bad posts):
%s

WHAT WORKS (from good posts):
%s

RECENT FEEDBACK:
%s

Provide:
1. 3-5 specific recommendations for improvement
2. Patterns to avoid
3. Patterns to emphasize

Respond in JSON format:
{
  "recommendations": ["rec1", "rec2", ...],
  "patterns": {"avoid": [...], "emphasize": [...]},
  "improvements": ["improvement1", "improvement2", ...]
}`, account.Label, goodCount, badCount, strings.Join(tagLines, "\n"), strings.Join(patternLines, "\n"), recentFeedback)

	apiKey := account.OpenAIKey
	if s.cfg.CredentialKey != "" {
		decrypted, err := utils.DecryptCredential(account.OpenAIKey, s.cfg.CredentialKey)
		if err != nil {
			slog.Error("credential decrypt failed", "account_id", account.ID, "error", err.Error())
			return fallbackInsights()
		}
		apiKey = decrypted
	}

	text, err := s.client.GenerateText(ctx, apiKey, prompt)
	if err != nil {
		slog.Error("insight generation failed", "account_id", account.ID, "error", err.Error())
		return fallbackInsights()
	}

	match := jsonObjectRe.FindString(text)
	if match == "" {
		return fallbackInsights()
	}

	var insights learningInsights
	if err := json.Unmarshal([]byte(match), &insights); err != nil {
		return fallbackInsights()
	}
	return insights
}

func fallbackInsights() learningInsights {
	insights := learningInsights{
		Recommendations: []string{"Continue monitoring feedback patterns"},
		Improvements:    []string{"Improve content quality based on feedback"},
	}
	insights.Patterns.Avoid = []string{}
	insights.Patterns.Emphasize = []string{}
	return insights
}
