package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/videoshare/internal/domain"
	"github.com/spec-kit/videoshare/internal/repository"
)

type relationshipFixture struct {
	svc      *RelationshipService
	accounts *fakeAccountRepo
	edges    *fakeEdgeRepo
	videos   *fakeVideoRepo
	comments *fakeCommentRepo
	tweets   *fakeTweetRepo
}

func newRelationshipFixture() *relationshipFixture {
	accounts := newFakeAccountRepo()
	edges := newFakeEdgeRepo(accounts)
	videos := newFakeVideoRepo(edges)
	edges.videos = videos
	comments := &fakeCommentRepo{ids: map[string]bool{}}
	tweets := &fakeTweetRepo{ids: map[string]bool{}}

	svc := NewRelationshipService(RelationshipDependencies{
		EdgeRepo:    edges,
		AccountRepo: accounts,
		VideoRepo:   videos,
		CommentRepo: comments,
		TweetRepo:   tweets,
	})
	return &relationshipFixture{
		svc:      svc,
		accounts: accounts,
		edges:    edges,
		videos:   videos,
		comments: comments,
		tweets:   tweets,
	}
}

func (f *relationshipFixture) newAccount(username string) domain.Account {
	return f.accounts.add(domain.Account{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
	})
}

func TestTogglePairLaw(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	subject := f.newAccount("alice")
	channel := f.newAccount("bob")

	first, err := f.svc.Toggle(ctx, subject.ID, channel.ID, domain.KindSubscription)
	require.NoError(t, err)
	assert.Equal(t, domain.EdgeActive, first.State)
	assert.True(t, first.Created)
	require.NotNil(t, first.Edge)

	second, err := f.svc.Toggle(ctx, subject.ID, channel.ID, domain.KindSubscription)
	require.NoError(t, err)
	assert.Equal(t, domain.EdgeInactive, second.State)
	assert.Nil(t, second.Edge)

	// The pair of calls restored the initial state.
	assert.Equal(t, 0, f.edges.activeCount())

	third, err := f.svc.Toggle(ctx, subject.ID, channel.ID, domain.KindSubscription)
	require.NoError(t, err)
	assert.Equal(t, domain.EdgeActive, third.State)
}

func TestToggleValidation(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	subject := f.newAccount("alice")

	_, err := f.svc.Toggle(ctx, subject.ID, "not-a-uuid", domain.KindSubscription)
	assertStatus(t, err, http.StatusBadRequest)

	_, err = f.svc.Toggle(ctx, subject.ID, uuid.NewString(), domain.KindSubscription)
	assertStatus(t, err, http.StatusNotFound)

	_, err = f.svc.Toggle(ctx, subject.ID, uuid.NewString(), domain.Kind("follow"))
	assertStatus(t, err, http.StatusBadRequest)
}

func TestToggleTargetKinds(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	subject := f.newAccount("alice")
	owner := f.newAccount("bob")
	video := f.videos.add(domain.Video{ID: uuid.NewString(), OwnerID: owner.ID, Title: "first"})
	commentID := uuid.NewString()
	f.comments.ids[commentID] = true
	tweetID := uuid.NewString()
	f.tweets.ids[tweetID] = true

	for _, tc := range []struct {
		kind   domain.Kind
		target string
	}{
		{domain.KindLikeVideo, video.ID},
		{domain.KindLikeComment, commentID},
		{domain.KindLikeTweet, tweetID},
	} {
		result, err := f.svc.Toggle(ctx, subject.ID, tc.target, tc.kind)
		require.NoError(t, err, "kind %s", tc.kind)
		assert.Equal(t, domain.EdgeActive, result.State)

		// A missing target of the same kind is a 404.
		_, err = f.svc.Toggle(ctx, subject.ID, uuid.NewString(), tc.kind)
		assertStatus(t, err, http.StatusNotFound)
	}
}

func TestToggleAllowsSelf(t *testing.T) {
	f := newRelationshipFixture()
	subject := f.newAccount("alice")

	result, err := f.svc.Toggle(context.Background(), subject.ID, subject.ID, domain.KindSubscription)
	require.NoError(t, err)
	assert.Equal(t, domain.EdgeActive, result.State)
}

func TestConcurrentTogglesLeaveOneEdge(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	subject := f.newAccount("alice")
	channel := f.newAccount("bob")

	const n = 32
	states := make([]domain.EdgeState, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := f.svc.Toggle(ctx, subject.ID, channel.ID, domain.KindSubscription)
			states[i], errs[i] = result.State, err
		}(i)
	}
	wg.Wait()

	active := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		if states[i] == domain.EdgeActive {
			active++
		}
	}
	// Toggles interleave arbitrarily, but the tuple can never hold more than
	// one edge and no caller may observe a hard error.
	assert.LessOrEqual(t, f.edges.activeCount(), 1)
	assert.Greater(t, active, 0)
}

// racingEdgeRepo makes the first Find miss, so the toggle proceeds to Insert
// and hits the uniqueness constraint the way a lost concurrent race would.
type racingEdgeRepo struct {
	*fakeEdgeRepo
	missed bool
}

func (r *racingEdgeRepo) Find(ctx context.Context, subjectID, targetID string, kind domain.Kind) (*domain.RelationshipEdge, error) {
	if !r.missed {
		r.missed = true
		return nil, repository.ErrNotFound
	}
	return r.fakeEdgeRepo.Find(ctx, subjectID, targetID, kind)
}

func TestInsertRaceReportsActive(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	subject := f.newAccount("alice")
	channel := f.newAccount("bob")

	racing := &racingEdgeRepo{fakeEdgeRepo: f.edges}
	svc := NewRelationshipService(RelationshipDependencies{
		EdgeRepo:    racing,
		AccountRepo: f.accounts,
		VideoRepo:   f.videos,
		CommentRepo: f.comments,
		TweetRepo:   f.tweets,
	})

	// The edge lands between the toggle's lookup and its insert.
	require.NoError(t, f.edges.Insert(ctx, &domain.RelationshipEdge{
		SubjectID: subject.ID,
		TargetID:  channel.ID,
		Kind:      domain.KindSubscription,
	}))

	result, err := svc.Toggle(ctx, subject.ID, channel.ID, domain.KindSubscription)
	require.NoError(t, err)
	assert.Equal(t, domain.EdgeActive, result.State)
	assert.False(t, result.Created)
	require.NotNil(t, result.Edge)
	assert.Equal(t, 1, f.edges.activeCount())
}

func TestSubscriberCount(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	channel := f.newAccount("channel")

	const k = 5
	for i := 0; i < k; i++ {
		subject := f.newAccount(fmt.Sprintf("user-%d", i))
		result, err := f.svc.Toggle(ctx, subject.ID, channel.ID, domain.KindSubscription)
		require.NoError(t, err)
		require.Equal(t, domain.EdgeActive, result.State)
	}

	count, err := f.svc.SubscriberCount(ctx, channel.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(k), count)

	_, err = f.svc.SubscriberCount(ctx, uuid.NewString())
	assertStatus(t, err, http.StatusNotFound)

	_, err = f.svc.SubscriberCount(ctx, "not-a-uuid")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestSubscriptionStatus(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	subject := f.newAccount("alice")
	channel := f.newAccount("bob")

	subscribed, err := f.svc.SubscriptionStatus(ctx, subject.ID, channel.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	_, err = f.svc.Toggle(ctx, subject.ID, channel.ID, domain.KindSubscription)
	require.NoError(t, err)

	subscribed, err = f.svc.SubscriptionStatus(ctx, subject.ID, channel.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestChannelStats(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	owner := f.newAccount("owner")
	fanA := f.newAccount("fan-a")
	fanB := f.newAccount("fan-b")

	videoOne := f.videos.add(domain.Video{ID: uuid.NewString(), OwnerID: owner.ID, Views: 100})
	videoTwo := f.videos.add(domain.Video{ID: uuid.NewString(), OwnerID: owner.ID, Views: 50})
	// Another channel's video must not count.
	other := f.newAccount("other")
	f.videos.add(domain.Video{ID: uuid.NewString(), OwnerID: other.ID, Views: 999})

	for _, sub := range []domain.Account{fanA, fanB} {
		_, err := f.svc.Toggle(ctx, sub.ID, owner.ID, domain.KindSubscription)
		require.NoError(t, err)
	}
	_, err := f.svc.Toggle(ctx, fanA.ID, videoOne.ID, domain.KindLikeVideo)
	require.NoError(t, err)
	_, err = f.svc.Toggle(ctx, fanB.ID, videoOne.ID, domain.KindLikeVideo)
	require.NoError(t, err)
	_, err = f.svc.Toggle(ctx, fanA.ID, videoTwo.ID, domain.KindLikeVideo)
	require.NoError(t, err)

	stats, err := f.svc.ChannelStats(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelStats{
		VideoCount:      2,
		TotalViews:      150,
		TotalLikes:      3,
		SubscriberCount: 2,
	}, stats)
}

func TestChannelProfile(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	channel := f.newAccount("channel")
	viewer := f.newAccount("viewer")

	_, err := f.svc.Toggle(ctx, viewer.ID, channel.ID, domain.KindSubscription)
	require.NoError(t, err)
	_, err = f.svc.Toggle(ctx, channel.ID, viewer.ID, domain.KindSubscription)
	require.NoError(t, err)

	profile, err := f.svc.ChannelProfile(ctx, "channel", viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), profile.SubscribersCount)
	assert.Equal(t, int64(1), profile.ChannelsSubscribedToCount)
	assert.True(t, profile.IsSubscribed)

	anonymous, err := f.svc.ChannelProfile(ctx, "channel", "")
	require.NoError(t, err)
	assert.False(t, anonymous.IsSubscribed)

	_, err = f.svc.ChannelProfile(ctx, "ghost", viewer.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestEmptyAggregatesAreNotErrors(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	channel := f.newAccount("channel")

	count, err := f.svc.SubscriberCount(ctx, channel.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	subscribers, err := f.svc.Subscribers(ctx, channel.ID)
	require.NoError(t, err)
	assert.Empty(t, subscribers)

	channels, err := f.svc.SubscribedChannels(ctx, channel.ID)
	require.NoError(t, err)
	assert.Empty(t, channels)

	videos, err := f.svc.LikedVideos(ctx, channel.ID)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestSubscriberAndChannelListings(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	channel := f.newAccount("channel")
	fanA := f.newAccount("fan-a")
	fanB := f.newAccount("fan-b")

	for _, fan := range []domain.Account{fanA, fanB} {
		_, err := f.svc.Toggle(ctx, fan.ID, channel.ID, domain.KindSubscription)
		require.NoError(t, err)
	}

	subscribers, err := f.svc.Subscribers(ctx, channel.ID)
	require.NoError(t, err)
	require.Len(t, subscribers, 2)
	assert.Equal(t, "fan-a", subscribers[0].Username)
	assert.Equal(t, "fan-b", subscribers[1].Username)

	channels, err := f.svc.SubscribedChannels(ctx, fanA.ID)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "channel", channels[0].Username)
}

func TestLikedVideos(t *testing.T) {
	f := newRelationshipFixture()
	ctx := context.Background()
	owner := f.newAccount("owner")
	viewer := f.newAccount("viewer")
	video := f.videos.add(domain.Video{ID: uuid.NewString(), OwnerID: owner.ID, Title: "first"})

	_, err := f.svc.Toggle(ctx, viewer.ID, video.ID, domain.KindLikeVideo)
	require.NoError(t, err)

	liked, err := f.svc.LikedVideos(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, "first", liked[0].Title)
}
