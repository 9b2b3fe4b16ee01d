package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carelink/api/internal/config"
	"carelink/api/internal/middleware"
)

// RefreshTokenCookie is scoped to the refresh endpoint's path so the
// long-lived credential is never sent anywhere else.
const (
	RefreshTokenCookie = "refreshToken"
	refreshCookiePath  = "/api/v1/auth/refresh"
)

func setAccessCookie(c *gin.Context, cfg *config.AppConfig, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, token,
		int(cfg.Security.JWTAccessTTL.Seconds()), "/", "",
		cfg.Environment == "production", true)
}

func setRefreshCookie(c *gin.Context, cfg *config.AppConfig, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshTokenCookie, token,
		int(cfg.Security.JWTRefreshTTL.Seconds()), refreshCookiePath, "",
		cfg.Environment == "production", true)
}

func setAuthCookies(c *gin.Context, cfg *config.AppConfig, accessToken, refreshToken string) {
	setAccessCookie(c, cfg, accessToken)
	setRefreshCookie(c, cfg, refreshToken)
}

func clearAuthCookies(c *gin.Context, cfg *config.AppConfig) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "",
		cfg.Environment == "production", true)
	c.SetCookie(RefreshTokenCookie, "", -1, refreshCookiePath, "",
		cfg.Environment == "production", true)
}
