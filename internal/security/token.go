package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"carelink/api/internal/config"
)

// Verification failures are returned as one of these two values so callers
// can tell an elapsed token apart from a forged or garbled one.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type AccessClaims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the two credential kinds. Access and refresh
// tokens use distinct secrets and default lifetimes, so a token of one kind
// never verifies as the other.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenCodec(cfg config.SecurityConfig) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.JWTAccessTTL,
		refreshTTL:    cfg.JWTRefreshTTL,
	}
}

// SignAccess mints a short-lived access token bound to a user and session.
// An optional audience (the caller's role) may be stamped into the claims.
func (c *TokenCodec) SignAccess(userID, sessionID string, audience ...string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
			Subject:   userID,
			Audience:  audience,
		},
	}
	return sign(claims, c.accessSecret)
}

// SignRefresh mints a long-lived refresh token carrying only the session id.
func (c *TokenCodec) SignRefresh(sessionID string, audience ...string) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.refreshTTL)),
			Audience:  audience,
		},
	}
	return sign(claims, c.refreshSecret)
}

func (c *TokenCodec) VerifyAccess(tokenStr string) (AccessClaims, error) {
	var claims AccessClaims
	if err := verify(tokenStr, &claims, c.accessSecret); err != nil {
		return AccessClaims{}, err
	}
	return claims, nil
}

func (c *TokenCodec) VerifyRefresh(tokenStr string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := verify(tokenStr, &claims, c.refreshSecret); err != nil {
		return RefreshClaims{}, err
	}
	return claims, nil
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func verify(tokenStr string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
