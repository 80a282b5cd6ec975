package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/maheshrc27/postforge/internal/apperrors"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/transfer"
)

func TestRecordFeedback(t *testing.T) {
	pr := &fakePostRepo{posts: []*models.Post{{ID: "p1", PostSetID: "set1"}}}
	psr := newFakePostSetRepo(&models.PostSet{ID: "set1", AccountID: "acc1"})
	fr := &fakeFeedbackRepo{}
	s := NewFeedbackService(pr, psr, fr)

	fb, accountID, err := s.RecordFeedback(context.Background(), "p1", &transfer.FeedbackCreation{
		Rating:   models.RatingGood,
		Feedback: "nice cadence",
		Tags:     []string{"tone"},
	})
	require.NoError(t, err)

	assert.Equal(t, "acc1", accountID)
	assert.NotEmpty(t, fb.ID)
	assert.Equal(t, models.RatingGood, fb.Rating)
	require.Len(t, fr.created, 1)
}

func TestRecordFeedback_RejectsUnknownRating(t *testing.T) {
	s := NewFeedbackService(&fakePostRepo{}, newFakePostSetRepo(), &fakeFeedbackRepo{})

	_, _, err := s.RecordFeedback(context.Background(), "p1", &transfer.FeedbackCreation{Rating: "meh"})

	var validation *apperrors.ValidationError
	require.True(t, errors.As(err, &validation))
}

func TestRecordFeedback_UnknownPost(t *testing.T) {
	s := NewFeedbackService(&fakePostRepo{}, newFakePostSetRepo(), &fakeFeedbackRepo{})

	_, _, err := s.RecordFeedback(context.Background(), "ghost", &transfer.FeedbackCreation{Rating: models.RatingBad})

	var notFound *apperrors.NotFoundError
	require.True(t, errors.As(err, &notFound))
}
