package dto

import "github.com/spec-kit/videoshare/internal/domain"

// ToggleResponse reports the post-toggle state of a tuple.
type ToggleResponse struct {
	State domain.EdgeState         `json:"state"`
	Edge  *domain.RelationshipEdge `json:"edge"`
}

// SubscriberCountResponse for the public subscriber-count endpoint.
type SubscriberCountResponse struct {
	ChannelID       string `json:"channelId"`
	SubscriberCount int64  `json:"subscriberCount"`
}

// SubscriptionStatusResponse for the per-viewer status endpoint.
type SubscriptionStatusResponse struct {
	IsSubscribed bool `json:"isSubscribed"`
}
