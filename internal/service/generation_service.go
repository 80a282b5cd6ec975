package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/maheshrc27/postforge/configs"
	"github.com/maheshrc27/postforge/internal/apperrors"
	"github.com/maheshrc27/postforge/internal/llm"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/internal/transfer"
	"github.com/maheshrc27/postforge/pkg/utils"
)

const defaultTimezone = "Europe/London"

type GenerationService interface {
	GenerateForAccount(ctx context.Context, accountID string, weeksAhead int) (*models.PostSet, error)
	GenerateForAllAccounts(ctx context.Context, weeksAhead int) []transfer.AccountRunResult
	GenerateStream(ctx context.Context, accountID string, weeksAhead int) (<-chan StreamUpdate, error)
}

// StreamUpdate is the wire shape for streamed generation progress. The
// terminal update is either complete with the persisted set id or error.
type StreamUpdate struct {
	Type      string              `json:"type"`
	Posts     []llm.GeneratedPost `json:"posts,omitempty"`
	PostSetID string              `json:"post_set_id,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type generationService struct {
	cfg    config.Config
	db     *sql.DB
	ar     repository.AccountRepository
	psr    repository.PostSetRepository
	pr     repository.PostRepository
	ds     DedupeService
	bc     BrandContextService
	cs     CostService
	client *llm.Client
	now    func() time.Time
}

func NewGenerationService(
	cfg config.Config,
	db *sql.DB,
	ar repository.AccountRepository,
	psr repository.PostSetRepository,
	pr repository.PostRepository,
	ds DedupeService,
	bc BrandContextService,
	cs CostService,
	client *llm.Client) GenerationService {
	return &generationService{
		cfg:    cfg,
		db:     db,
		ar:     ar,
		psr:    psr,
		pr:     pr,
		ds:     ds,
		bc:     bc,
		cs:     cs,
		client: client,
		now:    time.Now,
	}
}

func (s *generationService) GenerateForAccount(ctx context.Context, accountID string, weeksAhead int) (*models.PostSet, error) {
	account, prompt, weekStart, err := s.preparePrompt(ctx, accountID, weeksAhead)
	if err != nil {
		return nil, err
	}

	apiKey, err := s.credential(account)
	if err != nil {
		return nil, apperrors.NewGeneration(accountID, "credential", err)
	}

	estimate := s.cs.EstimateGeneration(prompt, 0, s.cfg.DefaultModel)
	slog.Info("generation estimate",
		"account_id", accountID,
		"input_tokens", estimate.InputTokens,
		"estimated_cost_usd", estimate.EstimatedUSD)

	result, err := s.client.GenerateStructured(ctx, apiKey, prompt)
	if err != nil {
		return nil, apperrors.NewGeneration(accountID, "llm", err)
	}

	postSet, err := s.materialize(ctx, account, weekStart, prompt, result)
	if err != nil {
		return nil, err
	}

	if err := s.cs.TrackGeneration(ctx, account.ID, result.Usage, s.cfg.DefaultModel); err != nil {
		slog.Error("usage tracking failed", "account_id", account.ID, "error", err.Error())
	}

	return postSet, nil
}

// GenerateForAllAccounts runs every active account with bounded fan-out.
// One account's failure never aborts the others; outcomes are collected
// per account.
func (s *generationService) GenerateForAllAccounts(ctx context.Context, weeksAhead int) []transfer.AccountRunResult {
	accounts, err := s.ar.ListActive(ctx)
	if err != nil {
		slog.Error("listing active accounts failed", "error", err.Error())
		return nil
	}

	results := make([]transfer.AccountRunResult, len(accounts))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 4)

	for i, account := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, account *models.Account) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := transfer.AccountRunResult{AccountID: account.ID, AccountLabel: account.Label}
			postSet, err := s.GenerateForAccount(ctx, account.ID, weeksAhead)
			if err != nil {
				result.Error = err.Error()
				slog.Error("generation failed", "account_id", account.ID, "label", account.Label, "error", err.Error())
			} else {
				result.PostSetID = postSet.ID
			}
			results[i] = result
		}(i, account)
	}

	wg.Wait()
	return results
}

// GenerateStream relays partial posts as the model emits them and, on the
// terminal event, persists the batch exactly like GenerateForAccount.
func (s *generationService) GenerateStream(ctx context.Context, accountID string, weeksAhead int) (<-chan StreamUpdate, error) {
	account, prompt, weekStart, err := s.preparePrompt(ctx, accountID, weeksAhead)
	if err != nil {
		return nil, err
	}

	apiKey, err := s.credential(account)
	if err != nil {
		return nil, apperrors.NewGeneration(accountID, "credential", err)
	}

	events, err := s.client.GenerateStream(ctx, apiKey, prompt)
	if err != nil {
		return nil, apperrors.NewGeneration(accountID, "llm", err)
	}

	updates := make(chan StreamUpdate)
	go func() {
		defer close(updates)

		// a send must never outlive the consumer; fasthttp cancels the
		// request context when the client disconnects
		send := func(update StreamUpdate) bool {
			select {
			case updates <- update:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for event := range events {
			switch event.Type {
			case llm.StreamPartial:
				if !send(StreamUpdate{Type: "partial", Posts: event.Posts}) {
					return
				}
			case llm.StreamError:
				send(StreamUpdate{Type: "error", Error: event.Err.Error()})
				return
			case llm.StreamComplete:
				postSet, err := s.materialize(ctx, account, weekStart, prompt, event.Result)
				if err != nil {
					send(StreamUpdate{Type: "error", Error: err.Error()})
					return
				}
				if err := s.cs.TrackGeneration(ctx, account.ID, event.Result.Usage, s.cfg.DefaultModel); err != nil {
					slog.Error("usage tracking failed", "account_id", account.ID, "error", err.Error())
				}
				send(StreamUpdate{Type: "complete", Posts: event.Result.Posts, PostSetID: postSet.ID})
			}
		}
	}()
	return updates, nil
}

// preparePrompt runs every step ahead of the LLM call: the duplicate-week
// check happens here so a repeat run costs no tokens.
func (s *generationService) preparePrompt(ctx context.Context, accountID string, weeksAhead int) (*models.Account, string, string, error) {
	account, err := s.ar.GetByID(ctx, accountID)
	if err != nil {
		return nil, "", "", err
	}
	if account == nil || !account.Active {
		return nil, "", "", apperrors.NewNotFound("account", accountID)
	}

	tz := account.Timezone
	if tz == "" {
		tz = defaultTimezone
	}

	weekStart, err := NextTargetWeekStart(tz, weeksAhead, s.now())
	if err != nil {
		return nil, "", "", apperrors.NewValidation("invalid timezone %q: %v", tz, err)
	}

	existing, err := s.psr.GetByAccountWeek(ctx, account.ID, weekStart)
	if err != nil {
		return nil, "", "", err
	}
	if existing != nil {
		return nil, "", "", apperrors.NewDuplicateWeek(account.ID, weekStart)
	}

	digest, err := s.ds.Digest(ctx, account.ID)
	if err != nil {
		return nil, "", "", err
	}

	tokenLimit := account.ContextTokenLimit
	if tokenLimit <= 0 {
		tokenLimit = models.DefaultContextTokenLimit
	}
	brandContext := TruncateToTokenBudget(s.bc.Build(ctx, account), tokenLimit)

	platformsJSON, _ := json.Marshal(account.Platforms)
	pillarsJSON, _ := json.Marshal(account.Pillars)

	prompt := RenderTemplate(account.PromptTemplate, map[string]string{
		"WEEK_START_ISO": weekStart,
		"TZ":             tz,
		"PLATFORMS_JSON": string(platformsJSON),
		"PILLARS_JSON":   string(pillarsJSON),
		"POSTS_PER_WEEK": strconv.Itoa(account.PostsPerWeek),
		"DO_NOT_REPEAT":  digest,
		"BRAND_CONTEXT":  brandContext,
	})

	return account, prompt, weekStart, nil
}

// materialize writes the post set and all of its posts in one transaction
// so a partial batch can never be observed.
func (s *generationService) materialize(ctx context.Context, account *models.Account, weekStart, prompt string, result *llm.GenerationResult) (*models.PostSet, error) {
	setID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	rawResponse, err := json.Marshal(result.Posts)
	if err != nil {
		return nil, err
	}

	postSet := &models.PostSet{
		ID:          setID,
		AccountID:   account.ID,
		WeekStart:   weekStart,
		Status:      models.PostSetStatusPending,
		RawPrompt:   prompt,
		RawResponse: string(rawResponse),
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.psr.Create(ctx, tx, postSet); err != nil {
		return nil, err
	}

	for _, generated := range result.Posts {
		scheduledAt, parseErr := generated.ParseScheduledAt()
		if parseErr != nil {
			err = apperrors.NewValidation("unparseable scheduledDate %q", generated.ScheduledDate)
			return nil, err
		}

		var postID string
		postID, err = gonanoid.New()
		if err != nil {
			return nil, err
		}

		post := &models.Post{
			ID:          postID,
			PostSetID:   setID,
			Title:       generated.Title,
			Content:     generated.Content,
			Platforms:   generated.ResolvedPlatforms(),
			ScheduledAt: scheduledAt,
			MediaURLs:   generated.MediaURLs,
			ContentHash: utils.HashContent(generated.Content),
		}
		if post.MediaURLs == nil {
			post.MediaURLs = []string{}
		}

		if err = s.pr.Create(ctx, tx, post); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return postSet, nil
}

func (s *generationService) credential(account *models.Account) (string, error) {
	return accountCredential(s.cfg, account)
}

// accountCredential resolves the account's API key, decrypting when a
// credential key is configured.
func accountCredential(cfg config.Config, account *models.Account) (string, error) {
	if cfg.CredentialKey == "" {
		return account.OpenAIKey, nil
	}
	return utils.DecryptCredential(account.OpenAIKey, cfg.CredentialKey)
}
