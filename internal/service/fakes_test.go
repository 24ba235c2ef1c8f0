package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/videoshare/internal/domain"
	"github.com/spec-kit/videoshare/internal/repository"
)

// In-memory repository fakes. The edge fake enforces the same uniqueness
// constraint the relationship_edges table does, so concurrency tests exercise
// the real race handling.

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Username == account.Username || existing.Email == account.Email {
			return repository.ErrConflict
		}
	}
	account.ID = uuid.NewString()
	r.accounts[account.ID] = *account
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &account, nil
}

func (r *fakeAccountRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Username == identifier || account.Email == identifier {
			account := account
			return &account, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Username == username {
			account := account
			return &account, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.PasswordHash = passwordHash
	r.accounts[id] = account
	return nil
}

func (r *fakeAccountRepo) SetRefreshTokenID(_ context.Context, id string, tokenID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.RefreshTokenID = tokenID
	r.accounts[id] = account
	return nil
}

func (r *fakeAccountRepo) ReplaceRefreshTokenID(_ context.Context, id, oldTokenID, newTokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok || account.RefreshTokenID == nil || *account.RefreshTokenID != oldTokenID {
		return repository.ErrConflict
	}
	account.RefreshTokenID = &newTokenID
	r.accounts[id] = account
	return nil
}

func (r *fakeAccountRepo) add(account domain.Account) domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	r.accounts[account.ID] = account
	return account
}

type edgeKey struct {
	subject string
	target  string
	kind    domain.Kind
}

type fakeEdgeRepo struct {
	mu       sync.Mutex
	edges    map[edgeKey]domain.RelationshipEdge
	accounts *fakeAccountRepo
	videos   *fakeVideoRepo
}

func newFakeEdgeRepo(accounts *fakeAccountRepo) *fakeEdgeRepo {
	return &fakeEdgeRepo{edges: make(map[edgeKey]domain.RelationshipEdge), accounts: accounts}
}

func (r *fakeEdgeRepo) Insert(_ context.Context, edge *domain.RelationshipEdge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := edgeKey{edge.SubjectID, edge.TargetID, edge.Kind}
	if _, exists := r.edges[key]; exists {
		return repository.ErrConflict
	}
	edge.ID = uuid.NewString()
	r.edges[key] = *edge
	return nil
}

func (r *fakeEdgeRepo) Delete(_ context.Context, subjectID, targetID string, kind domain.Kind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := edgeKey{subjectID, targetID, kind}
	_, existed := r.edges[key]
	delete(r.edges, key)
	return existed, nil
}

func (r *fakeEdgeRepo) Find(_ context.Context, subjectID, targetID string, kind domain.Kind) (*domain.RelationshipEdge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	edge, ok := r.edges[edgeKey{subjectID, targetID, kind}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &edge, nil
}

func (r *fakeEdgeRepo) Exists(_ context.Context, subjectID, targetID string, kind domain.Kind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.edges[edgeKey{subjectID, targetID, kind}]
	return ok, nil
}

func (r *fakeEdgeRepo) CountByTarget(_ context.Context, targetID string, kind domain.Kind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.edges {
		if key.target == targetID && key.kind == kind {
			count++
		}
	}
	return count, nil
}

func (r *fakeEdgeRepo) CountBySubject(_ context.Context, subjectID string, kind domain.Kind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.edges {
		if key.subject == subjectID && key.kind == kind {
			count++
		}
	}
	return count, nil
}

func (r *fakeEdgeRepo) CountLikesForOwnerVideos(_ context.Context, ownerID string) (int64, error) {
	owned := map[string]bool{}
	if r.videos != nil {
		r.videos.mu.Lock()
		for id, video := range r.videos.videos {
			if video.OwnerID == ownerID {
				owned[id] = true
			}
		}
		r.videos.mu.Unlock()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.edges {
		if key.kind == domain.KindLikeVideo && owned[key.target] {
			count++
		}
	}
	return count, nil
}

func (r *fakeEdgeRepo) ListSubscribers(ctx context.Context, channelID string) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profiles := []domain.Profile{}
	for key := range r.edges {
		if key.target != channelID || key.kind != domain.KindSubscription {
			continue
		}
		if account, err := r.accounts.GetByID(ctx, key.subject); err == nil {
			profiles = append(profiles, domain.Profile{
				Username: account.Username,
				FullName: account.FullName,
				Avatar:   account.Avatar,
			})
		}
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Username < profiles[j].Username })
	return profiles, nil
}

func (r *fakeEdgeRepo) ListSubscribedChannels(ctx context.Context, subjectID string) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profiles := []domain.Profile{}
	for key := range r.edges {
		if key.subject != subjectID || key.kind != domain.KindSubscription {
			continue
		}
		if account, err := r.accounts.GetByID(ctx, key.target); err == nil {
			profiles = append(profiles, domain.Profile{
				Username: account.Username,
				FullName: account.FullName,
				Avatar:   account.Avatar,
			})
		}
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Username < profiles[j].Username })
	return profiles, nil
}

func (r *fakeEdgeRepo) activeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edges)
}

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[string]domain.Video
	edges  *fakeEdgeRepo
}

func newFakeVideoRepo(edges *fakeEdgeRepo) *fakeVideoRepo {
	return &fakeVideoRepo{videos: make(map[string]domain.Video), edges: edges}
}

func (r *fakeVideoRepo) add(video domain.Video) domain.Video {
	r.mu.Lock()
	defer r.mu.Unlock()
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	r.videos[video.ID] = video
	return video
}

func (r *fakeVideoRepo) GetByID(_ context.Context, id string) (*domain.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &video, nil
}

func (r *fakeVideoRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.videos[id]
	return ok, nil
}

func (r *fakeVideoRepo) StatsByOwner(_ context.Context, ownerID string) (int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count, views int64
	for _, video := range r.videos {
		if video.OwnerID == ownerID {
			count++
			views += video.Views
		}
	}
	return count, views, nil
}

func (r *fakeVideoRepo) ListLikedBy(_ context.Context, subjectID string) ([]domain.Video, error) {
	r.edges.mu.Lock()
	liked := []string{}
	for key := range r.edges.edges {
		if key.subject == subjectID && key.kind == domain.KindLikeVideo {
			liked = append(liked, key.target)
		}
	}
	r.edges.mu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	videos := []domain.Video{}
	for _, id := range liked {
		if video, ok := r.videos[id]; ok {
			videos = append(videos, video)
		}
	}
	return videos, nil
}

type fakeCommentRepo struct {
	ids map[string]bool
}

func (r *fakeCommentRepo) Exists(_ context.Context, id string) (bool, error) {
	return r.ids[id], nil
}

type fakeTweetRepo struct {
	ids map[string]bool
}

func (r *fakeTweetRepo) Exists(_ context.Context, id string) (bool, error) {
	return r.ids[id], nil
}
