package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"carelink/api/internal/apperr"
	"carelink/api/internal/config"
	"carelink/api/internal/ids"
	"carelink/api/internal/models"
	"carelink/api/internal/repository"
	"carelink/api/internal/security"
)

// The auth core talks to its directories through minimal interfaces; the
// pgx repositories satisfy them in production and tests supply fakes.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, session models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	Extend(ctx context.Context, id string, expiresAt time.Time) error
	DeleteByID(ctx context.Context, id string) error
}

type VerificationStore interface {
	Create(ctx context.Context, code models.VerificationCode) error
}

type AuthService struct {
	users    UserStore
	sessions SessionStore
	codes    VerificationStore
	codec    *security.TokenCodec
	cfg      config.SecurityConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	codes VerificationStore,
	codec *security.TokenCodec,
	cfg config.SecurityConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codes:    codes,
		codec:    codec,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Role            models.UserRole
	UserAgent       string
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
}

// AuthResult carries the outcome of signup and login: the authenticated
// user plus the freshly minted credential pair. The user's password hash
// never leaves the service layer in any response projection.
type AuthResult struct {
	User         models.User
	AccessToken  string
	RefreshToken string
}

type RefreshResult struct {
	AccessToken string
	// NewRefreshToken is set only when the session was rotated.
	NewRefreshToken string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Password != input.ConfirmPassword {
		return AuthResult{}, apperr.BadRequest("Passwords do not match")
	}
	if !input.Role.Valid() {
		return AuthResult{}, apperr.BadRequest("Role must be doctor or patient")
	}

	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return AuthResult{}, err
	}
	if exists {
		return AuthResult{}, apperr.Conflict("User already exists")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
		Verified:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	// The code is recorded but delivery is out of scope; a failure here
	// must not block the signup.
	code := models.VerificationCode{
		ID:        ids.New(),
		UserID:    user.ID,
		Type:      models.VerificationEmail,
		ExpiresAt: s.now().Add(s.cfg.VerificationTTL),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("store verification code failed")
	}

	return s.startSession(ctx, user, input.UserAgent)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	// Unknown email and wrong password produce the identical failure so a
	// caller cannot probe which accounts exist.
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, apperr.Unauthorized("Invalid email or password")
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, apperr.Unauthorized("Invalid email or password")
	}

	return s.startSession(ctx, user, input.UserAgent)
}

// startSession creates a session row and issues the token pair bound to
// it. Each login gets its own session, so one user may hold several at
// once, one per device.
func (s *AuthService) startSession(ctx context.Context, user models.User, userAgent string) (AuthResult, error) {
	session := models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		UserAgent: userAgent,
		ExpiresAt: s.now().Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, err
	}

	accessToken, refreshToken, err := s.IssueTokens(user, session)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// IssueTokens signs a fresh access+refresh pair for an existing session.
func (s *AuthService) IssueTokens(user models.User, session models.Session) (accessToken, refreshToken string, err error) {
	accessToken, err = s.codec.SignAccess(user.ID, session.ID, string(user.Role))
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.codec.SignRefresh(session.ID, string(user.Role))
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Refresh mints a new access token for a live session. A session inside
// its last 24 hours is extended a fresh month and gets a rotated refresh
// token; one already past its expiry is rejected no matter how valid the
// refresh token's signature is.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return RefreshResult{}, apperr.Unauthorized("Invalid refresh token")
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return RefreshResult{}, apperr.Unauthorized("Session expired")
		}
		return RefreshResult{}, err
	}

	now := s.now()
	if !session.ExpiresAt.After(now) {
		return RefreshResult{}, apperr.Unauthorized("Session expired")
	}

	result := RefreshResult{}
	if session.ExpiresAt.Sub(now) <= s.cfg.RotationWindow {
		newExpiry := now.Add(s.cfg.SessionTTL)
		if err := s.sessions.Extend(ctx, session.ID, newExpiry); err != nil {
			return RefreshResult{}, err
		}
		rotated, err := s.codec.SignRefresh(session.ID)
		if err != nil {
			return RefreshResult{}, err
		}
		result.NewRefreshToken = rotated
	}

	accessToken, err := s.codec.SignAccess(session.UserID, session.ID)
	if err != nil {
		return RefreshResult{}, err
	}
	result.AccessToken = accessToken

	return result, nil
}

// Logout tears down the session referenced by the access token. It is
// best-effort: an absent or invalid token still ends with the caller
// holding no authenticated cookies, which is the state logout exists to
// reach.
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	claims, err := s.codec.VerifyAccess(accessToken)
	if err != nil {
		return
	}
	if err := s.sessions.DeleteByID(ctx, claims.SessionID); err != nil {
		s.log.Warn().Err(err).Str("session_id", claims.SessionID).Msg("delete session failed")
	}
}
