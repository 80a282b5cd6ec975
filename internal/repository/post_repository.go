package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/lib/pq"
	"github.com/maheshrc27/postforge/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByPostSet(ctx context.Context, postSetID string) ([]*models.Post, error)
	ListRecentByAccount(ctx context.Context, accountID string, limit int) ([]*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) error
	UpdateReview(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, post_set_id, title, content, platforms, scheduled_at, media_urls, approved, content_hash, created_at`

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRepository) ListByPostSet(ctx context.Context, postSetID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_set_id = $1 ORDER BY scheduled_at`
	return r.queryPosts(ctx, query, postSetID)
}

func (r *postRepository) ListRecentByAccount(ctx context.Context, accountID string, limit int) ([]*models.Post, error) {
	query := `
		SELECT p.id, p.post_set_id, p.title, p.content, p.platforms, p.scheduled_at,
			p.media_urls, p.approved, p.content_hash, p.created_at
		FROM posts p
		JOIN post_sets ps ON ps.id = p.post_set_id
		WHERE ps.account_id = $1
		ORDER BY p.scheduled_at DESC
		LIMIT $2
	`
	return r.queryPosts(ctx, query, accountID, limit)
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		INSERT INTO posts (id, post_set_id, title, content, platforms, scheduled_at, media_urls, approved, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, post.ID, post.PostSetID, post.Title, post.Content,
			pq.Array(post.Platforms), post.ScheduledAt, pq.Array(post.MediaURLs), post.Approved, post.ContentHash)
	} else {
		_, err = r.db.ExecContext(ctx, query, post.ID, post.PostSetID, post.Title, post.Content,
			pq.Array(post.Platforms), post.ScheduledAt, pq.Array(post.MediaURLs), post.Approved, post.ContentHash)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) UpdateReview(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET title = $1, content = $2, scheduled_at = $3, approved = $4, content_hash = $5 WHERE id = $6`
	_, err := r.db.ExecContext(ctx, query, post.Title, post.Content, post.ScheduledAt, post.Approved, post.ContentHash, post.ID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	err := row.Scan(&post.ID, &post.PostSetID, &post.Title, &post.Content, pq.Array(&post.Platforms),
		&post.ScheduledAt, pq.Array(&post.MediaURLs), &post.Approved, &post.ContentHash, &post.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
