package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/maheshrc27/postforge/internal/models"
)

func TestDedupeDigest_Empty(t *testing.T) {
	s := NewDedupeService(&fakeDedupeRepo{})

	digest, err := s.Digest(context.Background(), "acc1")
	require.NoError(t, err)
	assert.Equal(t, "None", digest)
}

func TestDedupeDigest_BulletsNewestFirst(t *testing.T) {
	repo := &fakeDedupeRepo{records: []*models.DedupeRecord{
		{ID: "3", AccountID: "acc1", Title: "Newest post"},
		{ID: "2", AccountID: "acc1", Title: "Middle post"},
		{ID: "1", AccountID: "acc1", Title: "Oldest post"},
		{ID: "9", AccountID: "other", Title: "Someone else's post"},
	}}
	s := NewDedupeService(repo)

	digest, err := s.Digest(context.Background(), "acc1")
	require.NoError(t, err)
	assert.Equal(t, "• Newest post\n• Middle post\n• Oldest post", digest)
}

func TestDedupeRecordSent(t *testing.T) {
	repo := &fakeDedupeRepo{}
	s := NewDedupeService(repo)

	err := s.RecordSent(context.Background(), nil, "acc1", "A title", "deadbeef")
	require.NoError(t, err)

	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "acc1", rec.AccountID)
	assert.Equal(t, "A title", rec.Title)
	assert.Equal(t, "deadbeef", rec.ContentHash)
}
