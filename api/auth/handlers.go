package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/services/auth"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
)

// Handler manages auth endpoints and middleware
type Handler struct {
	authService types.TokenValidator
}

// NewHandler creates a new auth handler. A nil validator rejects every token.
func NewHandler(authService types.TokenValidator) *Handler {
	return &Handler{authService: authService}
}

// RegisterRoutes registers the auth routes on the v1 group
func RegisterRoutes(group *gin.RouterGroup, handler *Handler) {
	group.GET("/me", handler.RequireAuth(), handler.Me)
}

// Me returns current user info from JWT
// @Summary Get current user
// @Description Get current user information from the Supabase JWT token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} auth.UserInfo
// @Failure 401 {object} types.ErrorResponse
// @Router /api/v1/me [get]
func (h *Handler) Me(c *gin.Context) {
	claims, exists := c.Get(types.ContextKeyClaims)
	if !exists {
		types.RespondError(c, apperrors.New(apperrors.ErrCodeUnauthorized, "Unauthorized"))
		return
	}

	c.JSON(http.StatusOK, auth.GetUserInfo(claims.(*auth.Claims)))
}

// RequireAuth rejects requests without a valid bearer token
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			types.RespondError(c, apperrors.New(apperrors.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		claims, err := h.validate(c, token)
		if err != nil {
			message := "Invalid or expired token"
			if errors.Is(err, auth.ErrAnonymousRole) {
				message = "Sign in to use this feature"
			}
			types.RespondError(c, apperrors.New(apperrors.ErrCodeUnauthorized, message).WithCause(err))
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present.
// Requests without one continue as anonymous.
func (h *Handler) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := h.validate(c, token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func (h *Handler) validate(c *gin.Context, token string) (*auth.Claims, error) {
	if h.authService == nil {
		return nil, auth.ErrNotConfigured
	}
	return h.authService.ValidateToken(c.Request.Context(), token)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(types.ContextKeyClaims, claims)
	c.Set(types.ContextKeyUserID, claims.Sub)
	c.Set(types.ContextKeyEmail, claims.Email)
}
