package server

import (
	"io"
	"net/http"

	"github.com/daymark/daymark/internal/lemonsqueezy"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (s *Server) registerWebhookRoutes() {
	s.engine.POST("/webhook/lemonsqueezy", s.handleBillingWebhook)
}

func (s *Server) handleBillingWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	signature := c.GetHeader("X-Signature")
	if !lemonsqueezy.VerifySignature(s.cfg.LemonSqueezy.WebhookSecret, body, signature) {
		s.log.Warn("webhook signature mismatch")
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.billingSvc.HandleWebhook(c.Request.Context(), body); err != nil {
		s.log.Warn("webhook rejected", zap.Error(err))
		AbortWithError(c, err)
		return
	}

	// Anomalous but verified deliveries are acknowledged so the
	// provider stops retrying them.
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
