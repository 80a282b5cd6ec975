package service

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/maheshrc27/postforge/configs"
	"github.com/maheshrc27/postforge/internal/apperrors"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/internal/transfer"
	"github.com/maheshrc27/postforge/pkg/utils"
)

type AccountService interface {
	Create(ctx context.Context, ac *transfer.AccountCreation) (*models.Account, error)
	Get(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Remove(ctx context.Context, id string) error
}

type accountService struct {
	cfg config.Config
	ar  repository.AccountRepository
}

func NewAccountService(cfg config.Config, ar repository.AccountRepository) AccountService {
	return &accountService{cfg: cfg, ar: ar}
}

func (s *accountService) Create(ctx context.Context, ac *transfer.AccountCreation) (*models.Account, error) {
	if ac.Label == "" {
		return nil, apperrors.NewValidation("label cannot be empty")
	}
	if ac.PromptTemplate == "" {
		return nil, apperrors.NewValidation("prompt_template cannot be empty")
	}
	if ac.Active && (len(ac.Platforms) == 0 || len(ac.Pillars) == 0) {
		return nil, apperrors.NewValidation("active accounts need at least one platform and one pillar")
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	openaiKey := ac.OpenAIKey
	if s.cfg.CredentialKey != "" {
		if openaiKey, err = utils.EncryptCredential(ac.OpenAIKey, s.cfg.CredentialKey); err != nil {
			return nil, err
		}
	}

	tz := ac.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	postsPerWeek := ac.PostsPerWeek
	if postsPerWeek <= 0 {
		postsPerWeek = 3
	}

	account := &models.Account{
		ID:                id,
		Label:             ac.Label,
		OpenAIKey:         openaiKey,
		PromptTemplate:    ac.PromptTemplate,
		Pillars:           ac.Pillars,
		Platforms:         ac.Platforms,
		Timezone:          tz,
		PostsPerWeek:      postsPerWeek,
		Active:            ac.Active,
		ContextTokenLimit: models.DefaultContextTokenLimit,
	}

	if err := s.ar.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.ar.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NewNotFound("account", id)
	}
	return account, nil
}

func (s *accountService) List(ctx context.Context) ([]*models.Account, error) {
	return s.ar.List(ctx)
}

func (s *accountService) Update(ctx context.Context, account *models.Account) error {
	if account.Active && (len(account.Platforms) == 0 || len(account.Pillars) == 0) {
		return apperrors.NewValidation("active accounts need at least one platform and one pillar")
	}

	existing, err := s.ar.GetByID(ctx, account.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewNotFound("account", account.ID)
	}

	return s.ar.Update(ctx, account)
}

func (s *accountService) Remove(ctx context.Context, id string) error {
	existing, err := s.ar.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.NewNotFound("account", id)
	}
	return s.ar.Remove(ctx, id)
}
