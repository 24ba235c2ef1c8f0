package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/videoshare/internal/api/dto"
	"github.com/spec-kit/videoshare/internal/auth"
	"github.com/spec-kit/videoshare/internal/domain"
	"github.com/spec-kit/videoshare/internal/service"
	apperrors "github.com/spec-kit/videoshare/pkg/util"
)

// ToggleHandler exposes the relationship toggle engine over HTTP.
type ToggleHandler struct {
	relationships *service.RelationshipService
}

// NewToggleHandler constructs handler.
func NewToggleHandler(relationships *service.RelationshipService) *ToggleHandler {
	return &ToggleHandler{relationships: relationships}
}

// Toggle handles POST /toggle/:kind/:targetId. 201 when an edge was created,
// 200 when one was removed or found already active.
func (h *ToggleHandler) Toggle(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing access token")
	}

	kind, err := domain.ParseKind(c.Params("kind"))
	if err != nil {
		return apperrors.NewValidationError("unknown relationship kind")
	}

	result, err := h.relationships.Toggle(c.Context(), principal.ID, c.Params("targetId"), kind)
	if err != nil {
		return err
	}

	status := http.StatusOK
	message := "relationship deactivated"
	if result.State == domain.EdgeActive {
		message = "relationship activated"
		if result.Created {
			status = http.StatusCreated
		}
	}

	return c.Status(status).JSON(dto.NewEnvelope(status, dto.ToggleResponse{
		State: result.State,
		Edge:  result.Edge,
	}, message))
}

// LikedVideos handles GET /likes/videos for the authenticated caller.
func (h *ToggleHandler) LikedVideos(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing access token")
	}

	videos, err := h.relationships.LikedVideos(c.Context(), principal.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, videos, "liked videos fetched successfully"))
}
