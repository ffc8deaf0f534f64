package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"expensed/internal/store"
	"expensed/internal/types"
)

func (s *Server) handleGetAccount(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	acct, err := s.store.GetOrCreateAccount(userID)
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewAccount(acct))
}

func (s *Server) handleDeposit(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	// User existence is checked before the body, matching the API contract:
	// a deposit to an unknown user is 404 regardless of payload.
	if _, err := s.store.GetUser(userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		s.internalError(c, err)
		return
	}

	body := jsonBody(c)

	raw, present := body["amount"]
	if !present {
		errorResponse(c, http.StatusBadRequest, "Field 'amount' is required")
		return
	}
	amount, ok := asFloat(raw)
	if !ok {
		errorResponse(c, http.StatusBadRequest, "Field 'amount' must be a number")
		return
	}
	if amount <= 0 {
		errorResponse(c, http.StatusBadRequest, "Field 'amount' must be positive")
		return
	}

	acct, err := s.store.Deposit(userID, types.MoneyFromFloat(amount))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewAccount(acct))
}
