package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	config "github.com/maheshrc27/postforge/configs"
	"github.com/maheshrc27/postforge/internal/apperrors"
	"github.com/maheshrc27/postforge/internal/llm"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/repository"
)

const (
	maxToneContentChars = 8000
	maxTonePosts        = 50
	toneUserAgent       = "Mozilla/5.0 (compatible; PostForge/1.0)"
)

type ToneService interface {
	AnalyzeWebsite(ctx context.Context, accountID, websiteURL string) (*llm.ToneAnalysis, error)
	AnalyzeCSV(ctx context.Context, accountID, csvData string) (*llm.ToneAnalysis, error)
}

type toneService struct {
	cfg    config.Config
	ar     repository.AccountRepository
	client *llm.Client
	web    *http.Client
}

func NewToneService(cfg config.Config, ar repository.AccountRepository, client *llm.Client) ToneService {
	return &toneService{
		cfg:    cfg,
		ar:     ar,
		client: client,
		web:    &http.Client{Timeout: 30 * time.Second},
	}
}

// AnalyzeWebsite scrapes the site, runs the tone analysis and folds the
// result into the account's brand profile.
func (s *toneService) AnalyzeWebsite(ctx context.Context, accountID, websiteURL string) (*llm.ToneAnalysis, error) {
	account, apiKey, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	content, err := s.fetchWebsiteText(ctx, websiteURL)
	if err != nil {
		return nil, apperrors.NewValidation("failed to scrape website: %v", err)
	}

	analysis, err := s.client.AnalyzeTone(ctx, apiKey, websiteTonePrompt(content))
	if err != nil {
		return nil, apperrors.NewGeneration(accountID, "tone", err)
	}
	return analysis, s.apply(ctx, account, analysis)
}

// AnalyzeCSV runs the same analysis over pasted past posts.
func (s *toneService) AnalyzeCSV(ctx context.Context, accountID, csvData string) (*llm.ToneAnalysis, error) {
	account, apiKey, err := s.load(ctx, accountID)
	if err != nil {
		return nil, err
	}

	posts := parseCSVPosts(csvData)
	if len(posts) == 0 {
		return nil, apperrors.NewValidation("no usable posts found in CSV data")
	}

	analysis, err := s.client.AnalyzeTone(ctx, apiKey, csvTonePrompt(strings.Join(posts, "\n\n")))
	if err != nil {
		return nil, apperrors.NewGeneration(accountID, "tone", err)
	}
	return analysis, s.apply(ctx, account, analysis)
}

func (s *toneService) load(ctx context.Context, accountID string) (*models.Account, string, error) {
	account, err := s.ar.GetByID(ctx, accountID)
	if err != nil {
		return nil, "", err
	}
	if account == nil {
		return nil, "", apperrors.NewNotFound("account", accountID)
	}

	apiKey, err := accountCredential(s.cfg, account)
	if err != nil {
		return nil, "", apperrors.NewGeneration(accountID, "credential", err)
	}
	return account, apiKey, nil
}

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	htmlTagRe     = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

func (s *toneService) fetchWebsiteText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", toneUserAgent)

	resp, err := s.web.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}

	text := scriptBlockRe.ReplaceAllString(string(html), "")
	text = styleBlockRe.ReplaceAllString(text, "")
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	if len(text) > maxToneContentChars {
		text = text[:maxToneContentChars]
	}
	return text, nil
}

// parseCSVPosts pulls the text column out of a pasted CSV export. Rows
// shorter than a sentence are noise and skipped.
func parseCSVPosts(csvData string) []string {
	var posts []string
	for _, line := range strings.Split(csvData, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		content := strings.TrimSpace(strings.Trim(strings.SplitN(line, ",", 2)[0], `"'`))
		if len(content) > 10 {
			posts = append(posts, content)
		}
		if len(posts) == maxTonePosts {
			break
		}
	}
	return posts
}

// apply folds the analysis into the profile fields the generator reads.
func (s *toneService) apply(ctx context.Context, account *models.Account, analysis *llm.ToneAnalysis) error {
	personality := make([]string, 0, len(analysis.BrandAttributes)+1)
	if analysis.Personality != "" {
		personality = append(personality, analysis.Personality)
	}
	personality = append(personality, analysis.BrandAttributes...)

	account.BrandVoice = &models.BrandVoice{
		Tone: analysis.Tone,
		Style: fmt.Sprintf("Writing style: %s. Sentence structure: %s. Emotional tone: %s.",
			analysis.WritingStyle, analysis.SentenceStructure, analysis.EmotionalTone),
		Personality: personality,
	}

	var preferred, avoid []string
	for _, rec := range analysis.Recommendations {
		if strings.Contains(strings.ToLower(rec), "avoid") {
			avoid = append(avoid, rec)
		} else {
			preferred = append(preferred, rec)
		}
	}
	account.ContentGuidelines = &models.ContentGuidelines{
		Preferred: preferred,
		Avoid:     avoid,
		Themes:    analysis.ContentThemes,
	}

	return s.ar.Update(ctx, account)
}

func websiteTonePrompt(content string) string {
	return `Analyze the brand tone and voice from this website content:

` + content + `

Provide a comprehensive analysis of:
- Overall tone (professional, casual, mystical, etc.)
- Personality traits evident in the writing
- Writing style characteristics
- Key vocabulary and phrases used
- Sentence structure patterns
- Emotional tone and mood
- Brand attributes that come through
- Main content themes
- Recommendations for social media content

Focus on extracting the authentic brand voice that could be replicated in social media posts.`
}

func csvTonePrompt(posts string) string {
	return `Analyze the brand tone and voice from these social media posts:

` + posts + `

Extract patterns from this content to understand:
- Consistent tone and personality
- Writing style and voice
- Common vocabulary and phrases
- Emotional characteristics
- Brand positioning
- Content themes and topics

Provide recommendations for maintaining this voice in future content.`
}
