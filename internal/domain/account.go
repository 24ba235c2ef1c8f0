package domain

import "time"

// Account is the domain model for a registered identity. An account doubles
// as a channel: subscriptions target an account id.
type Account struct {
	ID             string
	Username       string
	Email          string
	FullName       string
	Avatar         string
	CoverImage     string
	PasswordHash   string
	RefreshTokenID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Sanitized returns a copy with credential material stripped. This is the
// only form that may leave the service.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	a.RefreshTokenID = nil
	return a
}

// Profile is the public projection of an account used in subscriber and
// channel listings.
type Profile struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}
