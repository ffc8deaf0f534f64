package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expensed/internal/store"
)

func (s *Server) handleGetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := s.store.GetUser(id)
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := s.store.DeleteUser(id)
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleCreateUser(c *gin.Context) {
	body := jsonBody(c)

	name, _ := body["name"].(string)
	if name == "" {
		errorResponse(c, http.StatusBadRequest, "Field 'name' is required")
		return
	}

	user, err := s.store.CreateUser(name)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.store.ListUsers()
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
