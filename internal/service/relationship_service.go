package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/spec-kit/videoshare/internal/domain"
	"github.com/spec-kit/videoshare/internal/repository"
	apperrors "github.com/spec-kit/videoshare/pkg/util"
)

// ToggleResult reports the post-toggle state of a tuple. Edge is set only
// when the relationship ended up active.
type ToggleResult struct {
	State domain.EdgeState
	Edge  *domain.RelationshipEdge
	// Created distinguishes a fresh activation from a toggle that found the
	// tuple already activated by a concurrent caller.
	Created bool
}

// RelationshipService owns the toggle engine and the aggregate views
// derived from relationship edges. Aggregates are recomputed on every call;
// nothing is cached.
type RelationshipService struct {
	edges    repository.EdgeRepository
	accounts repository.AccountRepository
	videos   repository.VideoRepository
	comments repository.CommentRepository
	tweets   repository.TweetRepository
}

// RelationshipDependencies bundles repo requirements for the service.
type RelationshipDependencies struct {
	EdgeRepo    repository.EdgeRepository
	AccountRepo repository.AccountRepository
	VideoRepo   repository.VideoRepository
	CommentRepo repository.CommentRepository
	TweetRepo   repository.TweetRepository
}

// NewRelationshipService builds the service.
func NewRelationshipService(deps RelationshipDependencies) *RelationshipService {
	return &RelationshipService{
		edges:    deps.EdgeRepo,
		accounts: deps.AccountRepo,
		videos:   deps.VideoRepo,
		comments: deps.CommentRepo,
		tweets:   deps.TweetRepo,
	}
}

// Toggle flips the edge for (subject, target, kind): present edges are
// removed, absent ones created. A uniqueness violation on insert means a
// concurrent toggle activated the tuple first; that is reported as active,
// not as an error.
func (s *RelationshipService) Toggle(ctx context.Context, subjectID, targetID string, kind domain.Kind) (ToggleResult, error) {
	if _, err := uuid.Parse(targetID); err != nil {
		return ToggleResult{}, apperrors.NewValidationError("invalid target id")
	}
	if err := s.ensureTargetExists(ctx, targetID, kind); err != nil {
		return ToggleResult{}, err
	}

	existing, err := s.edges.Find(ctx, subjectID, targetID, kind)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return ToggleResult{}, apperrors.NewInternalError(err)
	}

	if existing != nil {
		if _, err := s.edges.Delete(ctx, subjectID, targetID, kind); err != nil {
			return ToggleResult{}, apperrors.NewInternalError(err)
		}
		// A concurrent delete of the same edge is a no-op; either way the
		// tuple is inactive now.
		return ToggleResult{State: domain.EdgeInactive}, nil
	}

	edge := &domain.RelationshipEdge{
		SubjectID: subjectID,
		TargetID:  targetID,
		Kind:      kind,
	}
	if err := s.edges.Insert(ctx, edge); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			won, findErr := s.edges.Find(ctx, subjectID, targetID, kind)
			if findErr != nil && !errors.Is(findErr, repository.ErrNotFound) {
				return ToggleResult{}, apperrors.NewInternalError(findErr)
			}
			return ToggleResult{State: domain.EdgeActive, Edge: won}, nil
		}
		return ToggleResult{}, apperrors.NewInternalError(err)
	}
	return ToggleResult{State: domain.EdgeActive, Edge: edge, Created: true}, nil
}

func (s *RelationshipService) ensureTargetExists(ctx context.Context, targetID string, kind domain.Kind) error {
	var (
		exists bool
		err    error
		name   string
	)
	switch kind {
	case domain.KindSubscription:
		name = "channel"
		_, err = s.accounts.GetByID(ctx, targetID)
		exists = err == nil
		if errors.Is(err, repository.ErrNotFound) {
			err = nil
		}
	case domain.KindLikeVideo:
		name = "video"
		exists, err = s.videos.Exists(ctx, targetID)
	case domain.KindLikeComment:
		name = "comment"
		exists, err = s.comments.Exists(ctx, targetID)
	case domain.KindLikeTweet:
		name = "tweet"
		exists, err = s.tweets.Exists(ctx, targetID)
	default:
		return apperrors.NewValidationError("unknown relationship kind")
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !exists {
		return apperrors.NewNotFound(name)
	}
	return nil
}

// SubscriberCount counts active subscription edges targeting the channel.
func (s *RelationshipService) SubscriberCount(ctx context.Context, channelID string) (int64, error) {
	if _, err := uuid.Parse(channelID); err != nil {
		return 0, apperrors.NewValidationError("invalid channel id")
	}
	if _, err := s.accounts.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NewNotFound("channel")
		}
		return 0, apperrors.NewInternalError(err)
	}
	count, err := s.edges.CountByTarget(ctx, channelID, domain.KindSubscription)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return count, nil
}

// SubscriptionStatus reports whether the exact (subject, channel) tuple is
// active.
func (s *RelationshipService) SubscriptionStatus(ctx context.Context, subjectID, channelID string) (bool, error) {
	if _, err := uuid.Parse(channelID); err != nil {
		return false, apperrors.NewValidationError("invalid channel id")
	}
	subscribed, err := s.edges.Exists(ctx, subjectID, channelID, domain.KindSubscription)
	if err != nil {
		return false, apperrors.NewInternalError(err)
	}
	return subscribed, nil
}

// ChannelStats computes the owner's dashboard aggregate: video count, summed
// views, like-video edges targeting those videos and subscriber count.
func (s *RelationshipService) ChannelStats(ctx context.Context, ownerID string) (domain.ChannelStats, error) {
	videoCount, totalViews, err := s.videos.StatsByOwner(ctx, ownerID)
	if err != nil {
		return domain.ChannelStats{}, apperrors.NewInternalError(err)
	}
	totalLikes, err := s.edges.CountLikesForOwnerVideos(ctx, ownerID)
	if err != nil {
		return domain.ChannelStats{}, apperrors.NewInternalError(err)
	}
	subscribers, err := s.edges.CountByTarget(ctx, ownerID, domain.KindSubscription)
	if err != nil {
		return domain.ChannelStats{}, apperrors.NewInternalError(err)
	}
	return domain.ChannelStats{
		VideoCount:      videoCount,
		TotalViews:      totalViews,
		TotalLikes:      totalLikes,
		SubscriberCount: subscribers,
	}, nil
}

// ChannelProfile resolves a channel by username and decorates it with
// subscription aggregates. viewerID may be empty for anonymous viewers.
func (s *RelationshipService) ChannelProfile(ctx context.Context, username, viewerID string) (domain.ChannelProfile, error) {
	if username == "" {
		return domain.ChannelProfile{}, apperrors.NewValidationError("username is required")
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ChannelProfile{}, apperrors.NewNotFound("channel")
		}
		return domain.ChannelProfile{}, apperrors.NewInternalError(err)
	}

	subscribers, err := s.edges.CountByTarget(ctx, account.ID, domain.KindSubscription)
	if err != nil {
		return domain.ChannelProfile{}, apperrors.NewInternalError(err)
	}
	subscribedTo, err := s.edges.CountBySubject(ctx, account.ID, domain.KindSubscription)
	if err != nil {
		return domain.ChannelProfile{}, apperrors.NewInternalError(err)
	}

	isSubscribed := false
	if viewerID != "" {
		isSubscribed, err = s.edges.Exists(ctx, viewerID, account.ID, domain.KindSubscription)
		if err != nil {
			return domain.ChannelProfile{}, apperrors.NewInternalError(err)
		}
	}

	return domain.ChannelProfile{
		Username:                  account.Username,
		FullName:                  account.FullName,
		Email:                     account.Email,
		Avatar:                    account.Avatar,
		CoverImage:                account.CoverImage,
		SubscribersCount:          subscribers,
		ChannelsSubscribedToCount: subscribedTo,
		IsSubscribed:              isSubscribed,
	}, nil
}

// Subscribers lists the profiles subscribed to the channel. An empty list is
// a valid result, not an error.
func (s *RelationshipService) Subscribers(ctx context.Context, channelID string) ([]domain.Profile, error) {
	if _, err := uuid.Parse(channelID); err != nil {
		return nil, apperrors.NewValidationError("invalid channel id")
	}
	if _, err := s.accounts.GetByID(ctx, channelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("channel")
		}
		return nil, apperrors.NewInternalError(err)
	}
	profiles, err := s.edges.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return profiles, nil
}

// SubscribedChannels lists the channels the subject subscribes to.
func (s *RelationshipService) SubscribedChannels(ctx context.Context, subjectID string) ([]domain.Profile, error) {
	profiles, err := s.edges.ListSubscribedChannels(ctx, subjectID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return profiles, nil
}

// LikedVideos lists the videos the subject has active like-video edges for.
func (s *RelationshipService) LikedVideos(ctx context.Context, subjectID string) ([]domain.Video, error) {
	videos, err := s.videos.ListLikedBy(ctx, subjectID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return videos, nil
}
