package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository exposes the existence check like-comment toggles need.
type CommentRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// TweetRepository exposes the existence check like-tweet toggles need.
type TweetRepository interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a Postgres-backed implementation.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM comments WHERE id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type tweetRepository struct {
	pool *pgxpool.Pool
}

// NewTweetRepository returns a Postgres-backed implementation.
func NewTweetRepository(pool *pgxpool.Pool) TweetRepository {
	return &tweetRepository{pool: pool}
}

func (r *tweetRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tweets WHERE id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
