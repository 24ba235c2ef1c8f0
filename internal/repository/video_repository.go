package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/videoshare/internal/domain"
)

// VideoRepository provides the video reads the relationship core needs:
// target existence for like toggles, stats for the dashboard, and the
// liked-videos listing. Video CRUD itself lives outside this core.
type VideoRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Video, error)
	Exists(ctx context.Context, id string) (bool, error)
	// StatsByOwner returns the count and summed views of the owner's videos.
	StatsByOwner(ctx context.Context, ownerID string) (count int64, totalViews int64, err error)
	ListLikedBy(ctx context.Context, subjectID string) ([]domain.Video, error)
}

type videoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository returns a Postgres-backed implementation.
func NewVideoRepository(pool *pgxpool.Pool) VideoRepository {
	return &videoRepository{pool: pool}
}

func (r *videoRepository) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	const query = `
        SELECT id, owner_id, title, description, thumbnail, views, published, created_at
        FROM videos WHERE id=$1`

	var video domain.Video
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.Thumbnail,
		&video.Views,
		&video.Published,
		&video.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM videos WHERE id=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *videoRepository) StatsByOwner(ctx context.Context, ownerID string) (int64, int64, error) {
	const query = `
        SELECT COUNT(*), COALESCE(SUM(views), 0)
        FROM videos WHERE owner_id=$1`
	var count, totalViews int64
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count, &totalViews); err != nil {
		return 0, 0, err
	}
	return count, totalViews, nil
}

func (r *videoRepository) ListLikedBy(ctx context.Context, subjectID string) ([]domain.Video, error) {
	const query = `
        SELECT v.id, v.owner_id, v.title, v.description, v.thumbnail, v.views, v.published, v.created_at
        FROM videos v
        JOIN relationship_edges e ON e.target_id = v.id
        WHERE e.subject_id=$1 AND e.kind='like-video'
        ORDER BY e.created_at DESC`

	rows, err := r.pool.Query(ctx, query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []domain.Video{}
	for rows.Next() {
		var v domain.Video
		if err := rows.Scan(
			&v.ID,
			&v.OwnerID,
			&v.Title,
			&v.Description,
			&v.Thumbnail,
			&v.Views,
			&v.Published,
			&v.CreatedAt,
		); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}
