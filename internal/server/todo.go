package server

import (
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/auth"
	tododomain "github.com/daymark/daymark/internal/todo/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) createTodo(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var in tododomain.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	todo, err := s.todoSvc.Create(c.Request.Context(), userID, in)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

func (s *Server) listTodos(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	todos, err := s.todoSvc.List(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

func (s *Server) listUpcomingTodos(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var ref time.Time
	if raw := c.Query("current_time"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		ref = parsed
	}

	todos, err := s.todoSvc.Upcoming(c.Request.Context(), userID, ref)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"todos": todos})
}

func (s *Server) getTodo(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	todoID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	todo, err := s.todoSvc.Get(c.Request.Context(), userID, todoID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (s *Server) updateTodo(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	todoID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var in tododomain.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	todo, err := s.todoSvc.Update(c.Request.Context(), userID, todoID, in)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func (s *Server) deleteTodo(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	todoID, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.todoSvc.Delete(c.Request.Context(), userID, todoID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(raw)
}
