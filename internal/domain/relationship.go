package domain

import (
	"fmt"
	"time"
)

// Kind enumerates the closed set of relationship edge kinds. The same toggle
// engine serves all of them.
type Kind string

const (
	KindSubscription Kind = "subscription"
	KindLikeVideo    Kind = "like-video"
	KindLikeComment  Kind = "like-comment"
	KindLikeTweet    Kind = "like-tweet"
)

// ParseKind validates a kind received from the outside.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSubscription, KindLikeVideo, KindLikeComment, KindLikeTweet:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown relationship kind %q", s)
	}
}

// RelationshipEdge records an active directed connection between a subject
// and a target. Existence means active; there is never more than one edge
// per (subject, target, kind) tuple.
type RelationshipEdge struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subjectId"`
	TargetID  string    `json:"targetId"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

// EdgeState reports the post-toggle state of a tuple.
type EdgeState string

const (
	EdgeActive   EdgeState = "active"
	EdgeInactive EdgeState = "inactive"
)

// ChannelStats is the dashboard aggregate for a channel owner. It is always
// recomputed from edge and video records, never cached.
type ChannelStats struct {
	VideoCount      int64 `json:"videoCount"`
	TotalViews      int64 `json:"totalViews"`
	TotalLikes      int64 `json:"totalLikes"`
	SubscriberCount int64 `json:"subscriberCount"`
}

// ChannelProfile is the public channel view enriched with subscription
// aggregates for the requesting viewer.
type ChannelProfile struct {
	Username                  string `json:"username"`
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}
