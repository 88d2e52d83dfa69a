package server

import (
	"net/http"

	"github.com/daymark/daymark/internal/auth"
	"github.com/gin-gonic/gin"
)

func (s *Server) getProfile(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	profile, err := s.userSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
