package service

import (
	"context"
	"errors"

	"github.com/spec-kit/videoshare/internal/auth"
	"github.com/spec-kit/videoshare/internal/config"
	"github.com/spec-kit/videoshare/internal/domain"
	"github.com/spec-kit/videoshare/internal/repository"
	apperrors "github.com/spec-kit/videoshare/pkg/util"
)

// AuthService coordinates registration, credential verification and the
// access/refresh token lifecycle. Each account has a single mutable refresh
// slot; issuing or rotating a pair replaces it wholesale, so at most one
// refresh lineage is valid per account at any time.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokenMgr: auth.NewTokenManager(
			cfg.AccessTokenSecret,
			cfg.RefreshTokenSecret,
			cfg.AccessTokenTTL(),
			cfg.RefreshTokenTTL(),
		),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account. Username and email must be unused.
func (s *AuthService) Register(ctx context.Context, username, email, fullName, password string) (*domain.Account, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.NewConflict("account with this username or email already exists")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return account, nil
}

// Authenticate verifies credentials by username or email. Unknown identifier
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return account, nil
}

// IssueTokenPair mints a fresh pair and overwrites the account's refresh
// slot with the new lineage id.
func (s *AuthService) IssueTokenPair(ctx context.Context, accountID string) (auth.TokenPair, error) {
	pair, err := s.tokenMgr.GeneratePair(accountID)
	if err != nil {
		return auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	if err := s.accounts.SetRefreshTokenID(ctx, accountID, &pair.RefreshTokenID); err != nil {
		return auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	return pair, nil
}

// Rotate exchanges a valid, current refresh token for a new pair. A token
// whose lineage id no longer matches the stored slot is stale: it has been
// superseded or revoked, and presenting it again always fails even before
// its expiry.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (*domain.Account, auth.TokenPair, error) {
	claims, err := s.tokenMgr.ParseRefresh(refreshToken)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewUnauthorized("invalid refresh token")
	}

	account, err := s.accounts.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, auth.TokenPair{}, apperrors.NewUnauthorized("invalid refresh token")
		}
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}

	if account.RefreshTokenID == nil || *account.RefreshTokenID != claims.ID {
		return nil, auth.TokenPair{}, apperrors.NewUnauthorized("refresh token is expired or used")
	}

	pair, err := s.tokenMgr.GeneratePair(account.ID)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}

	// Compare-and-swap so that two rotations racing on the same stale token
	// have at most one winner.
	if err := s.accounts.ReplaceRefreshTokenID(ctx, account.ID, claims.ID, pair.RefreshTokenID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, auth.TokenPair{}, apperrors.NewUnauthorized("refresh token is expired or used")
		}
		return nil, auth.TokenPair{}, apperrors.NewInternalError(err)
	}
	return account, pair, nil
}

// Revoke clears the refresh slot. Every subsequent rotation fails until the
// account authenticates again.
func (s *AuthService) Revoke(ctx context.Context, accountID string) error {
	if err := s.accounts.SetRefreshTokenID(ctx, accountID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("unknown account")
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("unknown account")
		}
		return apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, oldPassword); err != nil {
		return apperrors.NewValidationError("invalid old password")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, hash); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
