package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/videoshare/internal/api/dto"
	"github.com/spec-kit/videoshare/internal/auth"
	"github.com/spec-kit/videoshare/internal/service"
	apperrors "github.com/spec-kit/videoshare/pkg/util"
)

// DashboardHandler exposes the channel owner's aggregate stats.
type DashboardHandler struct {
	relationships *service.RelationshipService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(relationships *service.RelationshipService) *DashboardHandler {
	return &DashboardHandler{relationships: relationships}
}

// Stats handles GET /dashboard/stats for the authenticated channel owner.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing access token")
	}

	stats, err := h.relationships.ChannelStats(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, stats, "channel stats fetched successfully"))
}
