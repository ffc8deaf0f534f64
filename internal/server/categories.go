package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"expensed/internal/store"
)

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.store.ListCategories()
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	body := jsonBody(c)

	name, _ := body["name"].(string)
	if name == "" {
		errorResponse(c, http.StatusBadRequest, "Field 'name' is required")
		return
	}

	category, err := s.store.CreateCategory(name)
	if errors.Is(err, store.ErrCategoryExists) {
		errorResponse(c, http.StatusBadRequest, "Category with this name already exists")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "Query parameter 'id' is required")
		return
	}

	err = s.store.DeleteCategory(id)
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
