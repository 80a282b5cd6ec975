package service

import (
	"context"
	"database/sql"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/repository"
)

const dedupeDigestLimit = 200

type DedupeService interface {
	Digest(ctx context.Context, accountID string) (string, error)
	RecordSent(ctx context.Context, tx *sql.Tx, accountID, title, contentHash string) error
}

type dedupeService struct {
	dr repository.DedupeRepository
}

func NewDedupeService(dr repository.DedupeRepository) DedupeService {
	return &dedupeService{dr: dr}
}

// Digest renders the most recent sent titles as bullet lines, newest first.
// The digest is a hint to the model, not a hard constraint.
func (s *dedupeService) Digest(ctx context.Context, accountID string) (string, error) {
	records, err := s.dr.ListRecent(ctx, accountID, dedupeDigestLimit)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "None", nil
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, "• "+rec.Title)
	}
	return strings.Join(lines, "\n"), nil
}

func (s *dedupeService) RecordSent(ctx context.Context, tx *sql.Tx, accountID, title, contentHash string) error {
	id, err := gonanoid.New()
	if err != nil {
		return err
	}

	return s.dr.Create(ctx, tx, &models.DedupeRecord{
		ID:          id,
		AccountID:   accountID,
		Title:       title,
		ContentHash: contentHash,
	})
}
