package models

import "time"

// Session represents one authenticated device or browser. Its expiry is
// independent of any token's own lifetime: once it passes, refresh tokens
// referencing the session are dead regardless of their signature.
type Session struct {
	ID        string
	UserID    string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type VerificationCodeType string

const (
	VerificationEmail         VerificationCodeType = "email_verification"
	VerificationPasswordReset VerificationCodeType = "password_reset"
)

type VerificationCode struct {
	ID        string
	UserID    string
	Type      VerificationCodeType
	CreatedAt time.Time
	ExpiresAt time.Time
}
