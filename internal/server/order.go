package server

import (
	"net/http"

	"github.com/daymark/daymark/internal/auth"
	"github.com/gin-gonic/gin"
)

func (s *Server) createCheckout(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	user, err := s.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	session, err := s.orderSvc.CreateCheckout(c.Request.Context(), userID, user.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// checkoutCallback is where the provider sends the browser after
// payment. Settlement happens via webhook; this just lands the user
// back in the app.
func (s *Server) checkoutCallback(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, s.cfg.AppEndpoint)
}
