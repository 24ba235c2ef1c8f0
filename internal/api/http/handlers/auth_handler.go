package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/videoshare/internal/api/dto"
	"github.com/spec-kit/videoshare/internal/auth"
	"github.com/spec-kit/videoshare/internal/service"
	apperrors "github.com/spec-kit/videoshare/pkg/util"
)

const refreshTokenCookie = "refreshToken"

// AuthHandler exposes registration, login and token lifecycle endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	throttle *auth.LoginThrottle
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, throttle *auth.LoginThrottle) *AuthHandler {
	return &AuthHandler{auth: authService, throttle: throttle}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.FullName == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, fullName and password are required")
	}

	account, err := h.auth.Register(c.Context(), req.Username, req.Email, req.FullName, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewEnvelope(
		http.StatusCreated,
		dto.NewAccountResponse(account),
		"account registered successfully",
	))
}

// Login handles POST /auth/login. Tokens are returned in the body and set as
// HttpOnly cookies.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	identifier := req.ResolveIdentifier()
	if identifier == "" || req.Password == "" {
		return apperrors.NewValidationError("username or email, and password are required")
	}

	throttleKey := identifier + "|" + c.IP()
	if !h.throttle.Allow(c.Context(), throttleKey) {
		return apperrors.NewTooManyRequests("too many login attempts, try again later")
	}

	account, err := h.auth.Authenticate(c.Context(), identifier, req.Password)
	if err != nil {
		return err
	}
	pair, err := h.auth.IssueTokenPair(c.Context(), account.ID)
	if err != nil {
		return err
	}
	h.throttle.Reset(c.Context(), throttleKey)

	setAuthCookies(c, pair)
	return c.JSON(dto.NewEnvelope(http.StatusOK, dto.SessionResponse{
		Account:      dto.NewAccountResponse(account),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "logged in successfully"))
}

// Refresh handles POST /auth/refresh. The presented token may come from the
// cookie or the body.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshTokenCookie)
	if refreshToken == "" {
		var req dto.RefreshRequest
		if err := c.BodyParser(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		return apperrors.NewUnauthorized("refresh token required")
	}

	_, pair, err := h.auth.Rotate(c.Context(), refreshToken)
	if err != nil {
		return err
	}

	setAuthCookies(c, pair)
	return c.JSON(dto.NewEnvelope(http.StatusOK, dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "access token refreshed"))
}

// Logout handles POST /auth/logout. It clears the stored refresh slot and
// both cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing access token")
	}

	if err := h.auth.Revoke(c.Context(), principal.ID); err != nil {
		return err
	}

	clearAuthCookies(c)
	return c.JSON(dto.NewEnvelope(http.StatusOK, struct{}{}, "logged out"))
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing access token")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("old and new password are required")
	}

	if err := h.auth.ChangePassword(c.Context(), principal.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, struct{}{}, "password changed successfully"))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing access token")
	}
	return c.JSON(dto.NewEnvelope(http.StatusOK, dto.NewAccountResponse(principal), "current account fetched"))
}

func setAuthCookies(c *fiber.Ctx, pair auth.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     auth.AccessTokenCookie,
		Value:    pair.AccessToken,
		Expires:  pair.AccessExpiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Expires:  pair.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{auth.AccessTokenCookie, refreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  expired,
			HTTPOnly: true,
			Secure:   true,
			SameSite: fiber.CookieSameSiteStrictMode,
		})
	}
}
