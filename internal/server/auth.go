package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const stateCookie = "oauth_state"

func (s *Server) registerAuthRoutes() {
	s.engine.GET("/auth/google/login", s.googleLogin)
	s.engine.GET("/auth/google/callback", s.googleCallback)
}

func (s *Server) googleLogin(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.SetCookie(stateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, s.google.AuthURL(state))
}

func (s *Server) googleCallback(c *gin.Context) {
	state := c.Query("state")
	expected, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != expected {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	identity, err := s.google.Exchange(c.Request.Context(), code)
	if err != nil {
		s.log.Warn("google code exchange failed", zap.Error(err))
		AbortWithError(c, ErrUnauthorized)
		return
	}

	user, err := s.userSvc.EnsureFromIdentity(c.Request.Context(), identity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	token, err := s.tokens.Issue(user.ID, user.FirstName)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.SetCookie("token", token, s.cfg.AuthTokenTTLMin*60, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, s.cfg.AppEndpoint)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
