package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/zenbild/backend/internal/auth"
	"github.com/zenbild/backend/internal/services"
	"github.com/zenbild/backend/pkg/logger"
	"github.com/zenbild/backend/pkg/metrics"
)

// MagicAuthHandler exposes the passwordless login endpoints. Responses
// use the compact `{ok, ...}` shape the web client consumes rather than
// the API envelope.
type MagicAuthHandler struct {
	flow *services.MagicLinkService
	jwt  *iauth.JWTService
}

// NewMagicAuthHandler constructs the handler.
func NewMagicAuthHandler(flow *services.MagicLinkService, jwt *iauth.JWTService) *MagicAuthHandler {
	return &MagicAuthHandler{flow: flow, jwt: jwt}
}

type magicRequestPayload struct {
	Email           string `json:"email" validate:"required,email"`
	CreateIfMissing bool   `json:"create_if_missing"`
}

// Request handles POST /auth/magic/request.
func (h *MagicAuthHandler) Request(c *gin.Context) {
	var payload magicRequestPayload
	if !bindAndValidate(c, &payload) {
		metrics.LoginRequests.WithLabelValues("failure").Inc()
		return
	}

	result, err := h.flow.Request(c.Request.Context(), services.RequestInput{
		Email:           payload.Email,
		CreateIfMissing: payload.CreateIfMissing,
		IP:              c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
	})
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	metrics.LoginRequests.WithLabelValues("sent").Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true, "created": result.Created})
}

func (h *MagicAuthHandler) writeRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		// Still a 200: the caller opted out of account creation and the
		// client shows a dedicated screen for this case.
		metrics.LoginRequests.WithLabelValues("user_not_found").Inc()
		c.JSON(http.StatusOK, gin.H{"ok": false, "reason": "user_not_found"})
	case errors.Is(err, services.ErrRateLimited):
		metrics.LoginRequests.WithLabelValues("rate_limited").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "detail": "too many login requests, try again later"})
	case errors.Is(err, services.ErrFrontendURLMissing):
		metrics.LoginRequests.WithLabelValues("failure").Inc()
		logger.WithModule("auth").Error("magic link request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "detail": "login is not configured"})
	case errors.Is(err, services.ErrDeliveryFailed):
		metrics.LoginRequests.WithLabelValues("failure").Inc()
		logger.WithModule("auth").Error("magic link delivery failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "detail": "could not send the login email"})
	default:
		metrics.LoginRequests.WithLabelValues("failure").Inc()
		logger.WithModule("auth").Error("magic link request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "detail": "internal error"})
	}
}

// Consume handles POST /auth/magic/consume?token=<raw>.
func (h *MagicAuthHandler) Consume(c *gin.Context) {
	raw := c.Query("token")

	result, err := h.flow.Consume(c.Request.Context(), raw)
	if err != nil {
		h.writeConsumeError(c, err)
		return
	}

	session, err := h.jwt.Mint(result.UserID, result.IsGuest)
	if err != nil {
		metrics.LoginConsumes.WithLabelValues("failure").Inc()
		logger.WithModule("auth").Error("session mint failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "detail": "internal error"})
		return
	}

	iauth.SetSessionCookie(c, session, h.jwt.SessionTTL())
	metrics.LoginConsumes.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *MagicAuthHandler) writeConsumeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTokenMissing):
		metrics.LoginConsumes.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "detail": "missing token"})
	case errors.Is(err, services.ErrTokenInvalid):
		metrics.LoginConsumes.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "detail": "invalid or expired token"})
	case errors.Is(err, services.ErrTokenUsed):
		metrics.LoginConsumes.WithLabelValues("used").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "detail": "token already used"})
	default:
		metrics.LoginConsumes.WithLabelValues("failure").Inc()
		logger.WithModule("auth").Error("magic link consume failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "detail": "internal error"})
	}
}
