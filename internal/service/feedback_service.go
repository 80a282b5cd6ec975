package service

import (
	"context"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/maheshrc27/postforge/internal/apperrors"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/internal/transfer"
)

type FeedbackService interface {
	RecordFeedback(ctx context.Context, postID string, fc *transfer.FeedbackCreation) (*models.PostFeedback, string, error)
}

type feedbackService struct {
	pr  repository.PostRepository
	psr repository.PostSetRepository
	fr  repository.FeedbackRepository
}

func NewFeedbackService(
	pr repository.PostRepository,
	psr repository.PostSetRepository,
	fr repository.FeedbackRepository) FeedbackService {
	return &feedbackService{pr: pr, psr: psr, fr: fr}
}

// RecordFeedback persists a judgment and returns the owning account id so
// the caller can enqueue learning aggregation.
func (s *feedbackService) RecordFeedback(ctx context.Context, postID string, fc *transfer.FeedbackCreation) (*models.PostFeedback, string, error) {
	switch fc.Rating {
	case models.RatingGood, models.RatingBad, models.RatingNeutral:
	default:
		return nil, "", apperrors.NewValidation("rating must be good, bad or neutral")
	}

	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, "", err
	}
	if post == nil {
		return nil, "", apperrors.NewNotFound("post", postID)
	}

	postSet, err := s.psr.GetByID(ctx, post.PostSetID)
	if err != nil {
		return nil, "", err
	}
	if postSet == nil {
		return nil, "", apperrors.NewNotFound("post set", post.PostSetID)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, "", err
	}

	fb := &models.PostFeedback{
		ID:       id,
		PostID:   postID,
		UserID:   fc.UserID,
		Rating:   fc.Rating,
		Feedback: fc.Feedback,
		Tags:     fc.Tags,
		Metrics:  fc.Metrics,
	}
	if err := s.fr.Create(ctx, fb); err != nil {
		return nil, "", err
	}

	return fb, postSet.AccountID, nil
}
