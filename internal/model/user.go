package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is a user identity that logs in with an email or a phone number.
// At least one of the two is always set.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        *string   `json:"email"`
	PhoneNumber  *string   `json:"phone_number"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	IsVerified   bool      `json:"is_verified"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// String returns the email if set, otherwise the phone number.
func (a Account) String() string {
	if a.Email != nil && *a.Email != "" {
		return *a.Email
	}
	if a.PhoneNumber != nil && *a.PhoneNumber != "" {
		return *a.PhoneNumber
	}
	return a.ID.String()
}

// Role maps the admin flag to a token role
func (a Account) Role() string {
	if a.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// HasIdentifier reports whether the account has an email or a phone number
func (a Account) HasIdentifier() bool {
	return (a.Email != nil && *a.Email != "") || (a.PhoneNumber != nil && *a.PhoneNumber != "")
}

// AccountFilter narrows admin account listings
type AccountFilter struct {
	IsVerified *bool
	IsAdmin    *bool
	Search     string // substring of email or phone number
	Limit      int
	Offset     int
}

// NormalizeEmail trims the address and lower-cases its domain part.
// The local part is left untouched.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// OptionalString returns nil for an empty string
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
