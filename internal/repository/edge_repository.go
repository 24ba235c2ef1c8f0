package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/videoshare/internal/domain"
)

// EdgeRepository encapsulates relationship edge persistence. The table's
// unique (subject_id, target_id, kind) constraint backs the toggle engine's
// concurrency guarantee.
type EdgeRepository interface {
	// Insert creates the edge; ErrConflict means a concurrent toggle already
	// activated the same tuple.
	Insert(ctx context.Context, edge *domain.RelationshipEdge) error
	// Delete removes the edge and reports whether a row existed. Deleting an
	// absent edge is a no-op, not an error.
	Delete(ctx context.Context, subjectID, targetID string, kind domain.Kind) (bool, error)
	Find(ctx context.Context, subjectID, targetID string, kind domain.Kind) (*domain.RelationshipEdge, error)
	Exists(ctx context.Context, subjectID, targetID string, kind domain.Kind) (bool, error)
	CountByTarget(ctx context.Context, targetID string, kind domain.Kind) (int64, error)
	CountBySubject(ctx context.Context, subjectID string, kind domain.Kind) (int64, error)
	// CountLikesForOwnerVideos counts like-video edges targeting any video
	// owned by the given account.
	CountLikesForOwnerVideos(ctx context.Context, ownerID string) (int64, error)
	ListSubscribers(ctx context.Context, channelID string) ([]domain.Profile, error)
	ListSubscribedChannels(ctx context.Context, subjectID string) ([]domain.Profile, error)
}

type edgeRepository struct {
	pool *pgxpool.Pool
}

// NewEdgeRepository returns a Postgres-backed implementation.
func NewEdgeRepository(pool *pgxpool.Pool) EdgeRepository {
	return &edgeRepository{pool: pool}
}

func (r *edgeRepository) Insert(ctx context.Context, edge *domain.RelationshipEdge) error {
	const query = `
        INSERT INTO relationship_edges (subject_id, target_id, kind)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		edge.SubjectID,
		edge.TargetID,
		edge.Kind,
	).Scan(&edge.ID, &edge.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *edgeRepository) Delete(ctx context.Context, subjectID, targetID string, kind domain.Kind) (bool, error) {
	const query = `
        DELETE FROM relationship_edges
        WHERE subject_id=$1 AND target_id=$2 AND kind=$3`
	cmd, err := r.pool.Exec(ctx, query, subjectID, targetID, kind)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *edgeRepository) Find(ctx context.Context, subjectID, targetID string, kind domain.Kind) (*domain.RelationshipEdge, error) {
	const query = `
        SELECT id, subject_id, target_id, kind, created_at
        FROM relationship_edges
        WHERE subject_id=$1 AND target_id=$2 AND kind=$3`

	var edge domain.RelationshipEdge
	if err := r.pool.QueryRow(ctx, query, subjectID, targetID, kind).Scan(
		&edge.ID,
		&edge.SubjectID,
		&edge.TargetID,
		&edge.Kind,
		&edge.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &edge, nil
}

func (r *edgeRepository) Exists(ctx context.Context, subjectID, targetID string, kind domain.Kind) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM relationship_edges
            WHERE subject_id=$1 AND target_id=$2 AND kind=$3
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, subjectID, targetID, kind).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *edgeRepository) CountByTarget(ctx context.Context, targetID string, kind domain.Kind) (int64, error) {
	const query = `SELECT COUNT(*) FROM relationship_edges WHERE target_id=$1 AND kind=$2`
	var count int64
	if err := r.pool.QueryRow(ctx, query, targetID, kind).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *edgeRepository) CountBySubject(ctx context.Context, subjectID string, kind domain.Kind) (int64, error) {
	const query = `SELECT COUNT(*) FROM relationship_edges WHERE subject_id=$1 AND kind=$2`
	var count int64
	if err := r.pool.QueryRow(ctx, query, subjectID, kind).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *edgeRepository) CountLikesForOwnerVideos(ctx context.Context, ownerID string) (int64, error) {
	const query = `
        SELECT COUNT(*)
        FROM relationship_edges e
        JOIN videos v ON v.id = e.target_id
        WHERE e.kind = 'like-video' AND v.owner_id = $1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *edgeRepository) ListSubscribers(ctx context.Context, channelID string) ([]domain.Profile, error) {
	const query = `
        SELECT a.username, a.full_name, a.avatar
        FROM relationship_edges e
        JOIN accounts a ON a.id = e.subject_id
        WHERE e.target_id=$1 AND e.kind='subscription'
        ORDER BY e.created_at DESC`
	return r.listProfiles(ctx, query, channelID)
}

func (r *edgeRepository) ListSubscribedChannels(ctx context.Context, subjectID string) ([]domain.Profile, error) {
	const query = `
        SELECT a.username, a.full_name, a.avatar
        FROM relationship_edges e
        JOIN accounts a ON a.id = e.target_id
        WHERE e.subject_id=$1 AND e.kind='subscription'
        ORDER BY e.created_at DESC`
	return r.listProfiles(ctx, query, subjectID)
}

func (r *edgeRepository) listProfiles(ctx context.Context, query, arg string) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.Username, &p.FullName, &p.Avatar); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
