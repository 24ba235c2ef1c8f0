package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/videoshare/internal/domain"
	"github.com/spec-kit/videoshare/internal/repository"
	apperrors "github.com/spec-kit/videoshare/pkg/util"
)

const principalKey = "auth_principal"

// AccessTokenCookie is the cookie the login flow sets alongside the JSON
// response; the guard accepts it when no Authorization header is present.
const AccessTokenCookie = "accessToken"

// Middleware validates access tokens and attaches the resolved account to
// the request. It never rotates tokens; an expired access token always
// requires an explicit refresh call by the client.
type Middleware struct {
	tokens   *TokenManager
	accounts repository.AccountRepository
}

// NewMiddleware constructs the session guard.
func NewMiddleware(tokens *TokenManager, accounts repository.AccountRepository) *Middleware {
	return &Middleware{tokens: tokens, accounts: accounts}
}

// Require enforces authentication, short-circuiting the request on any
// missing, malformed, expired or badly signed token.
func (m *Middleware) Require(c *fiber.Ctx) error {
	account, err := m.resolve(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, account)
	return c.Next()
}

// Optional attaches the account when a valid token is presented and
// continues anonymously otherwise.
func (m *Middleware) Optional(c *fiber.Ctx) error {
	if account, err := m.resolve(c); err == nil {
		c.Locals(principalKey, account)
	}
	return c.Next()
}

func (m *Middleware) resolve(c *fiber.Ctx) (*domain.Account, error) {
	tokenStr := bearerToken(c)
	if tokenStr == "" {
		tokenStr = c.Cookies(AccessTokenCookie)
	}
	if tokenStr == "" {
		return nil, apperrors.NewUnauthorized("missing access token")
	}

	claims, err := m.tokens.ParseAccess(tokenStr)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired access token")
	}

	account, err := m.accounts.GetByID(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("unknown subject")
		}
		return nil, apperrors.NewInternalError(err)
	}

	sanitized := account.Sanitized()
	return &sanitized, nil
}

// PrincipalFromContext retrieves the authenticated account, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	account, ok := val.(*domain.Account)
	return account, ok
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
