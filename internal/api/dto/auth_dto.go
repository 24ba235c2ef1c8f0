package dto

import "github.com/spec-kit/videoshare/internal/domain"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// LoginRequest payload for login. Identifier matches username or email.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// ResolveIdentifier accepts the explicit identifier field or falls back to
// username/email for older clients.
func (r LoginRequest) ResolveIdentifier() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// RefreshRequest payload; the token may come from the cookie instead.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// AccountResponse is the sanitized account projection.
type AccountResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Avatar     string `json:"avatar"`
	CoverImage string `json:"coverImage"`
}

// NewAccountResponse converts a domain account.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:         account.ID,
		Username:   account.Username,
		Email:      account.Email,
		FullName:   account.FullName,
		Avatar:     account.Avatar,
		CoverImage: account.CoverImage,
	}
}

// SessionResponse carries the account plus the freshly minted token pair.
type SessionResponse struct {
	Account      AccountResponse `json:"account"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

// TokenPairResponse carries a rotated pair.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
