package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/videoshare/internal/api/dto"
	"github.com/spec-kit/videoshare/internal/auth"
	"github.com/spec-kit/videoshare/internal/service"
	apperrors "github.com/spec-kit/videoshare/pkg/util"
)

// ChannelHandler exposes aggregate views derived from subscription edges.
type ChannelHandler struct {
	relationships *service.RelationshipService
}

// NewChannelHandler constructs handler.
func NewChannelHandler(relationships *service.RelationshipService) *ChannelHandler {
	return &ChannelHandler{relationships: relationships}
}

// Profile handles GET /channels/:username/profile. The viewer is optional;
// isSubscribed is false for anonymous requests.
func (h *ChannelHandler) Profile(c *fiber.Ctx) error {
	viewerID := ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		viewerID = principal.ID
	}

	profile, err := h.relationships.ChannelProfile(c.Context(), c.Params("username"), viewerID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, profile, "channel profile fetched successfully"))
}

// Subscribers handles GET /channels/:channelId/subscribers.
func (h *ChannelHandler) Subscribers(c *fiber.Ctx) error {
	subscribers, err := h.relationships.Subscribers(c.Context(), c.Params("channelId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, subscribers, "subscribers fetched successfully"))
}

// SubscriberCount handles GET /channels/:channelId/subscriber-count.
func (h *ChannelHandler) SubscriberCount(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
	count, err := h.relationships.SubscriberCount(c.Context(), channelID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, dto.SubscriberCountResponse{
		ChannelID:       channelID,
		SubscriberCount: count,
	}, "subscriber count fetched successfully"))
}

// SubscriptionStatus handles GET /subscriptions/status/:channelId.
func (h *ChannelHandler) SubscriptionStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing access token")
	}

	subscribed, err := h.relationships.SubscriptionStatus(c.Context(), principal.ID, c.Params("channelId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, dto.SubscriptionStatusResponse{
		IsSubscribed: subscribed,
	}, "subscription status fetched successfully"))
}

// SubscribedChannels handles GET /subscriptions/channels for the caller.
func (h *ChannelHandler) SubscribedChannels(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing access token")
	}

	channels, err := h.relationships.SubscribedChannels(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, channels, "subscribed channels fetched successfully"))
}
