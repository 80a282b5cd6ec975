package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postforge/internal/apperrors"
	"github.com/maheshrc27/postforge/internal/models"
	"github.com/maheshrc27/postforge/internal/repository"
	"github.com/maheshrc27/postforge/internal/scheduler"
	"github.com/maheshrc27/postforge/internal/transfer"
)

type ApprovalService interface {
	ApproveAndSend(ctx context.Context, postSetID string, postIDs []string, preferredAdapter string) (*transfer.ApprovalResult, error)
	UpdateReview(ctx context.Context, postSetID string, update *transfer.ReviewUpdate) (*models.Post, error)
	Exports(ctx context.Context, postSetID string) ([]scheduler.Export, error)
}

type approvalService struct {
	db    *sql.DB
	psr   repository.PostSetRepository
	pr    repository.PostRepository
	ds    DedupeService
	chain *scheduler.Chain
}

func NewApprovalService(
	db *sql.DB,
	psr repository.PostSetRepository,
	pr repository.PostRepository,
	ds DedupeService,
	chain *scheduler.Chain) ApprovalService {
	return &approvalService{
		db:    db,
		psr:   psr,
		pr:    pr,
		ds:    ds,
		chain: chain,
	}
}

// ApproveAndSend hands the selected posts to the delivery chain. A chain
// that degrades to export artifacts is a result for the caller, not an
// error: the post set stays pending so review can retry.
func (s *approvalService) ApproveAndSend(ctx context.Context, postSetID string, postIDs []string, preferredAdapter string) (*transfer.ApprovalResult, error) {
	postSet, err := s.psr.GetByID(ctx, postSetID)
	if err != nil {
		return nil, err
	}
	if postSet == nil {
		return nil, apperrors.NewNotFound("post set", postSetID)
	}
	if postSet.Status != models.PostSetStatusPending {
		return nil, apperrors.NewInvalidState(postSetID, postSet.Status)
	}

	posts, err := s.pr.ListByPostSet(ctx, postSetID)
	if err != nil {
		return nil, err
	}

	selected := selectPosts(posts, postIDs)
	if len(selected) == 0 {
		return nil, apperrors.NewValidation("no posts selected for approval")
	}

	schedulerPosts := make([]scheduler.SchedulerPost, 0, len(selected))
	for _, post := range selected {
		schedulerPosts = append(schedulerPosts, scheduler.SchedulerPost{
			Title:         post.Title,
			Content:       post.Content,
			Platforms:     post.Platforms,
			ScheduledDate: post.ScheduledAt,
			MediaURLs:     post.MediaURLs,
		})
	}

	result := s.chain.SendWithFallback(ctx, schedulerPosts, preferredAdapter)

	if result.Success {
		if err := s.markSent(ctx, postSet, selected); err != nil {
			return nil, err
		}
		return &transfer.ApprovalResult{
			Success:     true,
			SentCount:   len(selected),
			UsedAdapter: result.UsedAdapter,
			ExternalID:  result.ExternalID,
		}, nil
	}

	if len(result.Exports) == 0 {
		// nothing could be sent or exported: the batch is lost for
		// automated delivery
		if err := s.psr.UpdateStatus(ctx, nil, models.PostSetStatusFailed, postSetID); err != nil {
			slog.Error("status update failed", "post_set_id", postSetID, "error", err.Error())
		}
		return &transfer.ApprovalResult{Success: false, Error: result.Error}, nil
	}

	return &transfer.ApprovalResult{
		Success: false,
		Exports: result.Exports,
		Error:   result.Error,
	}, nil
}

// markSent transitions the set and appends dedupe records atomically.
func (s *approvalService) markSent(ctx context.Context, postSet *models.PostSet, sent []*models.Post) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.psr.UpdateStatus(ctx, tx, models.PostSetStatusSent, postSet.ID); err != nil {
		return err
	}

	for _, post := range sent {
		if err = s.ds.RecordSent(ctx, tx, postSet.AccountID, post.Title, post.ContentHash); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateReview edits a post while its set is still pending.
func (s *approvalService) UpdateReview(ctx context.Context, postSetID string, update *transfer.ReviewUpdate) (*models.Post, error) {
	postSet, err := s.psr.GetByID(ctx, postSetID)
	if err != nil {
		return nil, err
	}
	if postSet == nil {
		return nil, apperrors.NewNotFound("post set", postSetID)
	}
	if postSet.Status != models.PostSetStatusPending {
		return nil, apperrors.NewInvalidState(postSetID, postSet.Status)
	}

	post, err := s.pr.GetByID(ctx, update.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.PostSetID != postSetID {
		return nil, apperrors.NewNotFound("post", update.PostID)
	}

	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Content != nil {
		post.Content = *update.Content
		post.ContentHash = hashContent(post.Content)
	}
	if update.ScheduledDate != nil {
		scheduledAt, err := parseScheduledDate(*update.ScheduledDate)
		if err != nil {
			return nil, apperrors.NewValidation("invalid scheduled_date: %v", err)
		}
		post.ScheduledAt = scheduledAt
	}
	if update.Approved != nil {
		post.Approved = *update.Approved
	}

	if err := s.pr.UpdateReview(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Exports generates the manual-import artifacts for a pending set without
// attempting delivery.
func (s *approvalService) Exports(ctx context.Context, postSetID string) ([]scheduler.Export, error) {
	postSet, err := s.psr.GetByID(ctx, postSetID)
	if err != nil {
		return nil, err
	}
	if postSet == nil {
		return nil, apperrors.NewNotFound("post set", postSetID)
	}

	posts, err := s.pr.ListByPostSet(ctx, postSetID)
	if err != nil {
		return nil, err
	}

	schedulerPosts := make([]scheduler.SchedulerPost, 0, len(posts))
	for _, post := range posts {
		schedulerPosts = append(schedulerPosts, scheduler.SchedulerPost{
			Title:         post.Title,
			Content:       post.Content,
			Platforms:     post.Platforms,
			ScheduledDate: post.ScheduledAt,
			MediaURLs:     post.MediaURLs,
		})
	}

	var exports []scheduler.Export
	for _, adapter := range s.chain.Adapters() {
		exporter, ok := adapter.(scheduler.Exporter)
		if !ok {
			continue
		}
		export, err := exporter.ExportFormat(schedulerPosts)
		if err != nil {
			slog.Warn("export failed", "adapter", adapter.Name(), "error", err.Error())
			continue
		}
		export.Adapter = adapter.Name()
		exports = append(exports, export)
	}
	return exports, nil
}

func selectPosts(posts []*models.Post, postIDs []string) []*models.Post {
	if len(postIDs) == 0 {
		var approved []*models.Post
		for _, post := range posts {
			if post.Approved {
				approved = append(approved, post)
			}
		}
		return approved
	}

	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}

	var selected []*models.Post
	for _, post := range posts {
		if wanted[post.ID] {
			selected = append(selected, post)
		}
	}
	return selected
}
