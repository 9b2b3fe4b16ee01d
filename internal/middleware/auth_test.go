package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"carelink/api/internal/config"
	"carelink/api/internal/models"
	"carelink/api/internal/repository"
	"carelink/api/internal/security"
)

type fakeUserLoader map[string]models.User

func (f fakeUserLoader) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := f[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type fakeSessionLoader map[string]models.Session

func (f fakeSessionLoader) GetByID(_ context.Context, id string) (models.Session, error) {
	session, ok := f[id]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func gateCodec(accessTTL time.Duration) *security.TokenCodec {
	return security.NewTokenCodec(config.SecurityConfig{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessTTL:     accessTTL,
		JWTRefreshTTL:    30 * 24 * time.Hour,
	})
}

func gateRouter(codec *security.TokenCodec, users fakeUserLoader, sessions fakeSessionLoader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected",
		Authenticate(codec, users, sessions),
		func(c *gin.Context) {
			user, ok := CurrentUser(c)
			if !ok {
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": user.ID, "role": string(user.Role)})
		},
	)
	return router
}

func doGet(router *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateHappyPath(t *testing.T) {
	codec := gateCodec(15 * time.Minute)
	users := fakeUserLoader{"user-1": {ID: "user-1", Email: "a@x.com", Role: models.UserRoleDoctor}}
	sessions := fakeSessionLoader{"session-1": {ID: "session-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}}

	token, err := codec.SignAccess("user-1", "session-1")
	require.NoError(t, err)

	rec := doGet(gateRouter(codec, users, sessions), token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"userId":"user-1"`)
	require.Contains(t, rec.Body.String(), `"role":"doctor"`)
}

func TestAuthenticateMissingCookie(t *testing.T) {
	rec := doGet(gateRouter(gateCodec(15*time.Minute), fakeUserLoader{}, fakeSessionLoader{}), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Not authorized")
}

func TestAuthenticateExpiredToken(t *testing.T) {
	codec := gateCodec(-time.Minute)
	token, err := codec.SignAccess("user-1", "session-1")
	require.NoError(t, err)

	rec := doGet(gateRouter(codec, fakeUserLoader{}, fakeSessionLoader{}), token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Token expired")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	rec := doGet(gateRouter(gateCodec(15*time.Minute), fakeUserLoader{}, fakeSessionLoader{}), "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid token")
}

func TestAuthenticateSessionGone(t *testing.T) {
	codec := gateCodec(15 * time.Minute)
	token, err := codec.SignAccess("user-1", "session-1")
	require.NoError(t, err)

	rec := doGet(gateRouter(codec, fakeUserLoader{}, fakeSessionLoader{}), token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Session not found")
}

func TestRequireRole(t *testing.T) {
	codec := gateCodec(15 * time.Minute)
	users := fakeUserLoader{"user-1": {ID: "user-1", Role: models.UserRolePatient}}
	sessions := fakeSessionLoader{"session-1": {ID: "session-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/doctors-only",
		Authenticate(codec, users, sessions),
		RequireRole(models.UserRoleDoctor, "Only doctors can access this"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	token, err := codec.SignAccess("user-1", "session-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/doctors-only", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Only doctors can access this")
}
