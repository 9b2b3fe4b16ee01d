package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"carelink/api/internal/apperr"
	"carelink/api/internal/models"
)

type authFixture struct {
	svc      *AuthService
	users    *memUserStore
	sessions *memSessionStore
	codes    *memVerificationStore
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newMemUserStore()
	sessions := newMemSessionStore()
	codes := &memVerificationStore{}
	svc := NewAuthService(users, sessions, codes, testCodec(), testSecurityConfig(), zerolog.Nop())
	return &authFixture{svc: svc, users: users, sessions: sessions, codes: codes}
}

func signupInput() SignupInput {
	return SignupInput{
		Email:           "a@x.com",
		Password:        "password1",
		ConfirmPassword: "password1",
		Role:            models.UserRolePatient,
		UserAgent:       "test-agent",
	}
}

func TestSignup(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	require.Equal(t, "a@x.com", result.User.Email)
	require.Equal(t, models.UserRolePatient, result.User.Role)
	require.False(t, result.User.Verified)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	// Stored password is hashed, never plaintext.
	stored, err := f.users.GetByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	require.NotContains(t, string(stored.PasswordHash), "password1")

	// One session, roughly a month out.
	require.Equal(t, 1, f.sessions.len())
	session := f.sessions.only()
	require.Equal(t, result.User.ID, session.UserID)
	require.Equal(t, "test-agent", session.UserAgent)
	require.WithinDuration(t, time.Now().Add(31*24*time.Hour), session.ExpiresAt, time.Minute)

	// A verification code with a six month expiry was recorded.
	require.Len(t, f.codes.codes, 1)
	require.Equal(t, models.VerificationEmail, f.codes.codes[0].Type)
	require.WithinDuration(t, time.Now().Add(183*24*time.Hour), f.codes.codes[0].ExpiresAt, time.Minute)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	_, err = f.svc.Signup(context.Background(), signupInput())
	require.True(t, apperr.IsStatus(err, http.StatusConflict))
	require.EqualError(t, err, "User already exists")
}

func TestSignupPasswordMismatch(t *testing.T) {
	f := newAuthFixture(t)

	input := signupInput()
	input.ConfirmPassword = "different1"
	_, err := f.svc.Signup(context.Background(), input)
	require.True(t, apperr.IsStatus(err, http.StatusBadRequest))
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	result, err := f.svc.Login(context.Background(), LoginInput{
		Email:    "a@x.com",
		Password: "password1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)

	// A second device gets its own session.
	require.Equal(t, 2, f.sessions.len())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	_, wrongPass := f.svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "wrongpass"})
	_, noUser := f.svc.Login(context.Background(), LoginInput{Email: "b@x.com", Password: "password1"})

	require.True(t, apperr.IsStatus(wrongPass, http.StatusUnauthorized))
	require.True(t, apperr.IsStatus(noUser, http.StatusUnauthorized))
	require.EqualError(t, wrongPass, "Invalid email or password")
	require.EqualError(t, noUser, "Invalid email or password")
}

func TestRefreshFarFromExpiry(t *testing.T) {
	f := newAuthFixture(t)
	signup, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	result, err := f.svc.Refresh(context.Background(), signup.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.Empty(t, result.NewRefreshToken, "no rotation while far from expiry")
	require.Equal(t, 0, f.sessions.extends)
}

func TestRefreshNearExpiryRotates(t *testing.T) {
	f := newAuthFixture(t)
	signup, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	// Jump to 23h before the session dies.
	session := f.sessions.only()
	f.svc.now = func() time.Time { return session.ExpiresAt.Add(-23 * time.Hour) }

	result, err := f.svc.Refresh(context.Background(), signup.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.NewRefreshToken)
	require.Equal(t, 1, f.sessions.extends)

	// The session got a fresh month from the refresh instant.
	extended := f.sessions.only()
	require.WithinDuration(t, f.svc.now().Add(31*24*time.Hour), extended.ExpiresAt, time.Second)
}

func TestRefreshExpiredSession(t *testing.T) {
	f := newAuthFixture(t)
	signup, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	session := f.sessions.only()
	f.svc.now = func() time.Time { return session.ExpiresAt.Add(time.Hour) }

	_, err = f.svc.Refresh(context.Background(), signup.RefreshToken)
	require.True(t, apperr.IsStatus(err, http.StatusUnauthorized))
	require.EqualError(t, err, "Session expired")
}

func TestRefreshDeletedSession(t *testing.T) {
	f := newAuthFixture(t)
	signup, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	session := f.sessions.only()
	require.NoError(t, f.sessions.DeleteByID(context.Background(), session.ID))

	_, err = f.svc.Refresh(context.Background(), signup.RefreshToken)
	require.True(t, apperr.IsStatus(err, http.StatusUnauthorized))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	signup, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)

	// An access token is signed with the other secret and must not pass.
	_, err = f.svc.Refresh(context.Background(), signup.AccessToken)
	require.True(t, apperr.IsStatus(err, http.StatusUnauthorized))
	require.EqualError(t, err, "Invalid refresh token")
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	signup, err := f.svc.Signup(context.Background(), signupInput())
	require.NoError(t, err)
	require.Equal(t, 1, f.sessions.len())

	f.svc.Logout(context.Background(), signup.AccessToken)
	require.Equal(t, 0, f.sessions.len())

	// Logging out again, or with garbage, stays silent.
	f.svc.Logout(context.Background(), signup.AccessToken)
	f.svc.Logout(context.Background(), "not-a-token")
	f.svc.Logout(context.Background(), "")
}

func TestSignupEmailNormalized(t *testing.T) {
	f := newAuthFixture(t)

	input := signupInput()
	input.Email = "  A@X.com "
	result, err := f.svc.Signup(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", result.User.Email)
	require.True(t, strings.EqualFold(result.User.Email, "A@X.COM"))
}
