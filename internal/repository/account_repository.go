package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/postforge/internal/models"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	ListActive(ctx context.Context) ([]*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Update(ctx context.Context, account *models.Account) error
	UpdateGenCounter(ctx context.Context, id string, count int64, resetDate time.Time) error
	Remove(ctx context.Context, id string) error
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, label, openai_key, prompt_template, pillars, platforms, timezone,
	posts_per_week, active, context_token_limit, brand_voice, target_audience, brand_values,
	content_guidelines, example_posts, monthly_gen_count, last_reset_date, created_at, updated_at`

func (r *accountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	account, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`
	return r.queryAccounts(ctx, query)
}

func (r *accountRepository) ListActive(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE active = true ORDER BY created_at`
	return r.queryAccounts(ctx, query)
}

func (r *accountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, label, openai_key, prompt_template, pillars, platforms, timezone,
			posts_per_week, active, context_token_limit, brand_voice, target_audience, brand_values,
			content_guidelines, example_posts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	voice, audience, values, guidelines, examples, err := marshalProfile(account)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		account.ID, account.Label, account.OpenAIKey, account.PromptTemplate,
		pq.Array(account.Pillars), pq.Array(account.Platforms), account.Timezone,
		account.PostsPerWeek, account.Active, account.ContextTokenLimit,
		voice, audience, values, guidelines, examples)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET label = $1, prompt_template = $2, pillars = $3, platforms = $4, timezone = $5,
			posts_per_week = $6, active = $7, context_token_limit = $8, brand_voice = $9,
			target_audience = $10, brand_values = $11, content_guidelines = $12,
			example_posts = $13, updated_at = $14
		WHERE id = $15
	`

	voice, audience, values, guidelines, examples, err := marshalProfile(account)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		account.Label, account.PromptTemplate, pq.Array(account.Pillars),
		pq.Array(account.Platforms), account.Timezone, account.PostsPerWeek,
		account.Active, account.ContextTokenLimit, voice, audience, values,
		guidelines, examples, time.Now(), account.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *accountRepository) UpdateGenCounter(ctx context.Context, id string, count int64, resetDate time.Time) error {
	query := `UPDATE accounts SET monthly_gen_count = $1, last_reset_date = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, count, resetDate, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *accountRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM accounts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var account models.Account
	var voice, audience, values, guidelines, examples []byte

	err := row.Scan(&account.ID, &account.Label, &account.OpenAIKey, &account.PromptTemplate,
		pq.Array(&account.Pillars), pq.Array(&account.Platforms), &account.Timezone,
		&account.PostsPerWeek, &account.Active, &account.ContextTokenLimit,
		&voice, &audience, &values, &guidelines, &examples,
		&account.MonthlyGenCount, &account.LastResetDate, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := unmarshalProfile(&account, voice, audience, values, guidelines, examples); err != nil {
		return nil, err
	}

	return &account, nil
}

func marshalProfile(account *models.Account) (voice, audience, values, guidelines, examples []byte, err error) {
	if account.BrandVoice != nil {
		if voice, err = json.Marshal(account.BrandVoice); err != nil {
			return
		}
	}
	if account.TargetAudience != nil {
		if audience, err = json.Marshal(account.TargetAudience); err != nil {
			return
		}
	}
	if account.BrandValues != nil {
		if values, err = json.Marshal(account.BrandValues); err != nil {
			return
		}
	}
	if account.ContentGuidelines != nil {
		if guidelines, err = json.Marshal(account.ContentGuidelines); err != nil {
			return
		}
	}
	if account.ExamplePosts != nil {
		if examples, err = json.Marshal(account.ExamplePosts); err != nil {
			return
		}
	}
	return
}

func unmarshalProfile(account *models.Account, voice, audience, values, guidelines, examples []byte) error {
	if len(voice) > 0 {
		account.BrandVoice = &models.BrandVoice{}
		if err := json.Unmarshal(voice, account.BrandVoice); err != nil {
			return err
		}
	}
	if len(audience) > 0 {
		account.TargetAudience = &models.TargetAudience{}
		if err := json.Unmarshal(audience, account.TargetAudience); err != nil {
			return err
		}
	}
	if len(values) > 0 {
		account.BrandValues = &models.BrandValues{}
		if err := json.Unmarshal(values, account.BrandValues); err != nil {
			return err
		}
	}
	if len(guidelines) > 0 {
		account.ContentGuidelines = &models.ContentGuidelines{}
		if err := json.Unmarshal(guidelines, account.ContentGuidelines); err != nil {
			return err
		}
	}
	if len(examples) > 0 {
		if err := json.Unmarshal(examples, &account.ExamplePosts); err != nil {
			return err
		}
	}
	return nil
}
