package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims are the claims carried by provider-issued access tokens.
type AccessClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller attached to each request.
// CompanyID and PersonID are nil when the user has no active person row.
type Principal struct {
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email,omitempty"`
	PersonID  *uuid.UUID `json:"person_id,omitempty"`
	CompanyID *uuid.UUID `json:"company_id,omitempty"`
}

// AuthUser is the identity record returned by the auth provider.
type AuthUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// AuthSession is the token bundle issued by the auth provider.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

// Profile is the person row of a user together with its company.
type Profile struct {
	Person
	Company CompanySummary `json:"company"`
}

type AuthResult struct {
	User    *AuthUser    `json:"user"`
	Session *AuthSession `json:"session"`
	Profile *Profile     `json:"profile"`
}
