package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/maheshrc27/postforge/internal/models"
)

// In-memory repository fakes shared by the service tests. Transactions are
// accepted and ignored; transactional behavior is covered with sqlmock.

type fakeAccountRepo struct {
	accounts map[string]*models.Account

	counterID    string
	counterValue int64
	counterReset time.Time
	counterCalls int
}

func newFakeAccountRepo(accounts ...*models.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: map[string]*models.Account{}}
	for _, account := range accounts {
		r.accounts[account.ID] = account
	}
	return r
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) List(ctx context.Context) ([]*models.Account, error) {
	var out []*models.Account
	for _, account := range r.accounts {
		out = append(out, account)
	}
	return out, nil
}

func (r *fakeAccountRepo) ListActive(ctx context.Context) ([]*models.Account, error) {
	var out []*models.Account
	for _, account := range r.accounts {
		if account.Active {
			out = append(out, account)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account *models.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) UpdateGenCounter(ctx context.Context, id string, count int64, resetDate time.Time) error {
	r.counterID = id
	r.counterValue = count
	r.counterReset = resetDate
	r.counterCalls++
	return nil
}

func (r *fakeAccountRepo) Remove(ctx context.Context, id string) error {
	delete(r.accounts, id)
	return nil
}

type fakePostSetRepo struct {
	sets     map[string]*models.PostSet
	statuses map[string]string
}

func newFakePostSetRepo(sets ...*models.PostSet) *fakePostSetRepo {
	r := &fakePostSetRepo{sets: map[string]*models.PostSet{}, statuses: map[string]string{}}
	for _, set := range sets {
		r.sets[set.ID] = set
	}
	return r
}

func (r *fakePostSetRepo) GetByID(ctx context.Context, id string) (*models.PostSet, error) {
	return r.sets[id], nil
}

func (r *fakePostSetRepo) GetByAccountWeek(ctx context.Context, accountID, weekStart string) (*models.PostSet, error) {
	for _, set := range r.sets {
		if set.AccountID == accountID && set.WeekStart == weekStart {
			return set, nil
		}
	}
	return nil, nil
}

func (r *fakePostSetRepo) ListByAccount(ctx context.Context, accountID string) ([]*models.PostSet, error) {
	var out []*models.PostSet
	for _, set := range r.sets {
		if set.AccountID == accountID {
			out = append(out, set)
		}
	}
	return out, nil
}

func (r *fakePostSetRepo) Create(ctx context.Context, tx *sql.Tx, postSet *models.PostSet) error {
	r.sets[postSet.ID] = postSet
	return nil
}

func (r *fakePostSetRepo) UpdateStatus(ctx context.Context, tx *sql.Tx, status, id string) error {
	r.statuses[id] = status
	if set, ok := r.sets[id]; ok {
		set.Status = status
	}
	return nil
}

type fakePostRepo struct {
	posts []*models.Post
}

func (r *fakePostRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	for _, post := range r.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) ListByPostSet(ctx context.Context, postSetID string) ([]*models.Post, error) {
	var out []*models.Post
	for _, post := range r.posts {
		if post.PostSetID == postSetID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListRecentByAccount(ctx context.Context, accountID string, limit int) ([]*models.Post, error) {
	if len(r.posts) > limit {
		return r.posts[:limit], nil
	}
	return r.posts, nil
}

func (r *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	r.posts = append(r.posts, post)
	return nil
}

func (r *fakePostRepo) UpdateReview(ctx context.Context, post *models.Post) error {
	for i, existing := range r.posts {
		if existing.ID == post.ID {
			r.posts[i] = post
		}
	}
	return nil
}

type fakeDedupeRepo struct {
	records []*models.DedupeRecord
}

func (r *fakeDedupeRepo) ListRecent(ctx context.Context, accountID string, limit int) ([]*models.DedupeRecord, error) {
	var out []*models.DedupeRecord
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			out = append(out, rec)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeDedupeRepo) Create(ctx context.Context, tx *sql.Tx, record *models.DedupeRecord) error {
	r.records = append(r.records, record)
	return nil
}

type fakeLearningRepo struct {
	learning *models.AccountLearning
	upserted *models.AccountLearning
}

func (r *fakeLearningRepo) GetByAccountType(ctx context.Context, accountID, learningType string) (*models.AccountLearning, error) {
	return r.learning, nil
}

func (r *fakeLearningRepo) Upsert(ctx context.Context, learning *models.AccountLearning) error {
	r.upserted = learning
	return nil
}

type fakeFeedbackRepo struct {
	created  []*models.PostFeedback
	feedback []*models.PostFeedback
}

func (r *fakeFeedbackRepo) Create(ctx context.Context, fb *models.PostFeedback) error {
	r.created = append(r.created, fb)
	return nil
}

func (r *fakeFeedbackRepo) ListByAccount(ctx context.Context, accountID string, limit int) ([]*models.PostFeedback, error) {
	return r.feedback, nil
}
