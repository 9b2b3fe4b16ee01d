package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carelink/api/internal/middleware"
	"carelink/api/internal/models"
	"carelink/api/internal/service"
)

type signupRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=8,max=255"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	Role            string `json:"role" binding:"required,oneof=doctor patient"`
}

// userResponse is the outward projection of a user; it never carries the
// password hash.
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            models.UserRole(req.Role),
		UserAgent:       c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	if result.User.Role == models.UserRoleDoctor {
		h.patients.InvalidateDoctorsCache(c.Request.Context())
	}

	setAuthCookies(c, h.cfg, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(result.User)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=255"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	setAuthCookies(c, h.cfg, result.AccessToken, result.RefreshToken)
	c.JSON(http.StatusOK, gin.H{
		"user":    toUserResponse(result.User),
		"message": "Login successful",
	})
}

func (h HandlerSet) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing refresh token"})
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.respondError(c, err)
		return
	}

	setAccessCookie(c, h.cfg, result.AccessToken)
	if result.NewRefreshToken != "" {
		setRefreshCookie(c, h.cfg, result.NewRefreshToken)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Access token refreshed"})
}

// Logout always succeeds from the caller's perspective: whatever the state
// of the token, the cookies end up cleared.
func (h HandlerSet) Logout(c *gin.Context) {
	if accessToken, err := c.Cookie(middleware.AccessTokenCookie); err == nil && accessToken != "" {
		h.auth.Logout(c.Request.Context(), accessToken)
	}

	clearAuthCookies(c, h.cfg)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}
