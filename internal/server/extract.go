package server

import (
	"net/http"

	"github.com/daymark/daymark/internal/auth"
	"github.com/gin-gonic/gin"
)

type extractRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

func (s *Server) extract(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if !s.extractLimiter.Allow(c.Request.Context(), userID) {
		s.metrics.RateLimitRejected.Inc()
		AbortWithError(c, ErrRateLimited)
		return
	}

	todo, err := s.extractorSvc.Extract(c.Request.Context(), userID, req.Prompt)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}
