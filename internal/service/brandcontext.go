package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/repository"
)

const maxExamplePosts = 3

// EstimateTokens approximates token count as ceil(len/4). It is a named
// variable so a real tokenizer can be swapped in without touching the
// truncation logic.
var EstimateTokens = func(text string) int {
	return (len(text) + 3) / 4
}

type BrandContextService interface {
	Build(ctx context.Context, account *models.Account) string
}

type brandContextService struct {
	lr repository.LearningRepository
}

func NewBrandContextService(lr repository.LearningRepository) BrandContextService {
	return &brandContextService{lr: lr}
}

// Build renders the account's present profile fields into labeled sections.
// Absent fields produce no section at all.
func (s *brandContextService) Build(ctx context.Context, account *models.Account) string {
	var sections []string

	if v := account.BrandVoice; v != nil {
		var b strings.Builder
		b.WriteString("BRAND VOICE:\n")
		if v.Tone != "" {
			b.WriteString("Tone: " + v.Tone + "\n")
		}
		if v.Style != "" {
			b.WriteString("Style: " + v.Style + "\n")
		}
		if len(v.Personality) > 0 {
			b.WriteString("Personality: " + strings.Join(v.Personality, ", ") + "\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if a := account.TargetAudience; a != nil {
		var b strings.Builder
		b.WriteString("TARGET AUDIENCE:\n")
		if a.Demographics != "" {
			b.WriteString("Demographics: " + a.Demographics + "\n")
		}
		if len(a.Interests) > 0 {
			b.WriteString("Interests: " + strings.Join(a.Interests, ", ") + "\n")
		}
		if len(a.PainPoints) > 0 {
			b.WriteString("Pain points: " + strings.Join(a.PainPoints, ", ") + "\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if v := account.BrandValues; v != nil {
		var b strings.Builder
		b.WriteString("BRAND VALUES:\n")
		if v.Mission != "" {
			b.WriteString("Mission: " + v.Mission + "\n")
		}
		if len(v.Values) > 0 {
			b.WriteString("Values: " + strings.Join(v.Values, ", ") + "\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if g := account.ContentGuidelines; g != nil {
		var b strings.Builder
		b.WriteString("CONTENT GUIDELINES:\n")
		if len(g.Themes) > 0 {
			b.WriteString("Themes: " + strings.Join(g.Themes, ", ") + "\n")
		}
		for _, rule := range g.Preferred {
			b.WriteString("- Do: " + rule + "\n")
		}
		for _, rule := range g.Avoid {
			b.WriteString("- Avoid: " + rule + "\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if len(account.ExamplePosts) > 0 {
		var b strings.Builder
		b.WriteString("HIGH-PERFORMING POST EXAMPLES:\n")
		examples := account.ExamplePosts
		if len(examples) > maxExamplePosts {
			examples = examples[:maxExamplePosts]
		}
		for i, ex := range examples {
			b.WriteString(strconv.Itoa(i+1) + ". " + ex.Content + "\n")
			if ex.Notes != "" {
				b.WriteString("   (" + ex.Notes + ")\n")
			}
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if guidelines := s.renderPlatformSection(account.Platforms); guidelines != "" {
		sections = append(sections, guidelines)
	}

	context := strings.TrimSpace(strings.Join(sections, "\n\n"))
	return s.appendLearning(ctx, account.ID, context)
}

func (s *brandContextService) renderPlatformSection(platforms []string) string {
	var parts []string
	for _, platform := range platforms {
		if g := platformGuidelines(platform); g != "" {
			parts = append(parts, strings.TrimRight(g, "\n"))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "PLATFORM-SPECIFIC GUIDELINES:\n" + strings.Join(parts, "\n")
}

// appendLearning adds feedback-derived sections when insights exist. Any
// failure leaves the base context untouched.
func (s *brandContextService) appendLearning(ctx context.Context, accountID, base string) string {
	learning, err := s.lr.GetByAccountType(ctx, accountID, models.LearningTypeContent)
	if err != nil || learning == nil {
		return base
	}

	var insights struct {
		Recommendations []string `json:"recommendations"`
		Patterns        struct {
			Avoid     []string `json:"avoid"`
			Emphasize []string `json:"emphasize"`
		} `json:"patterns"`
	}
	if err := json.Unmarshal([]byte(learning.Insights), &insights); err != nil {
		slog.Info("skipping malformed learning insights", "account_id", accountID)
		return base
	}

	enhanced := base
	if len(insights.Recommendations) > 0 {
		enhanced += "\n\nLEARNED RECOMMENDATIONS (from feedback):\n"
		for i, rec := range insights.Recommendations {
			enhanced += fmt.Sprintf("%d. %s\n", i+1, rec)
		}
	}
	if len(insights.Patterns.Avoid) > 0 {
		enhanced += "\n\nPATTERNS TO AVOID (based on negative feedback):\n"
		for _, p := range insights.Patterns.Avoid {
			enhanced += "- " + p + "\n"
		}
	}
	if len(insights.Patterns.Emphasize) > 0 {
		enhanced += "\n\nPATTERNS TO EMPHASIZE (based on positive feedback):\n"
		for _, p := range insights.Patterns.Emphasize {
			enhanced += "- " + p + "\n"
		}
	}

	return strings.TrimRight(enhanced, "\n")
}

var sectionHeaderRe = regexp.MustCompile(`(?m)^[A-Z][A-Z0-9 /&'()-]*:`)

// Section priorities: lower is kept first when truncating. Voice and
// content guidelines must survive even when audience and examples drop.
func sectionPriority(header string) int {
	switch {
	case strings.Contains(header, "BRAND VOICE"):
		return 1
	case strings.Contains(header, "CONTENT GUIDELINES"):
		return 2
	case strings.Contains(header, "TARGET AUDIENCE"):
		return 3
	case strings.Contains(header, "BRAND VALUES"):
		return 4
	case strings.Contains(header, "EXAMPLES"):
		return 5
	case strings.Contains(header, "PLATFORM"):
		return 6
	case strings.Contains(header, "RECENT"), strings.Contains(header, "REPEAT"):
		return 7
	default:
		return 8
	}
}

type contextSection struct {
	text     string
	priority int
	order    int
}

// TruncateToTokenBudget fits the context into maxTokens, dropping and
// trimming sections by priority while reserving 20% headroom.
func TruncateToTokenBudget(fullText string, maxTokens int) string {
	if EstimateTokens(fullText) <= maxTokens {
		return fullText
	}

	headerIdx := sectionHeaderRe.FindAllStringIndex(fullText, -1)
	budget := maxTokens * 8 / 10

	if len(headerIdx) == 0 {
		cut := budget * 4
		if cut > len(fullText) {
			cut = len(fullText)
		}
		return fullText[:cut] + "\n[Context truncated to fit token limit]"
	}

	var sections []contextSection
	if lead := strings.TrimSpace(fullText[:headerIdx[0][0]]); lead != "" {
		sections = append(sections, contextSection{text: lead, priority: 8})
	}
	for i, idx := range headerIdx {
		end := len(fullText)
		if i+1 < len(headerIdx) {
			end = headerIdx[i+1][0]
		}
		text := strings.TrimSpace(fullText[idx[0]:end])
		header := fullText[idx[0]:idx[1]]
		sections = append(sections, contextSection{text: text, priority: sectionPriority(header), order: i + 1})
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].priority < sections[j].priority
	})

	var out []string
	used := 0
	for _, section := range sections {
		tokens := EstimateTokens(section.text)
		if used+tokens < budget {
			out = append(out, section.text)
			used += tokens
			continue
		}

		remaining := (budget - used) * 4
		if remaining > 0 {
			if remaining > len(section.text) {
				remaining = len(section.text)
			}
			out = append(out, section.text[:remaining]+"\n[Section truncated]")
		}
		break
	}

	return strings.Join(out, "\n\n")
}
