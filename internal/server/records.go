package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"expensed/internal/store"
	"expensed/internal/types"
)

func (s *Server) handleGetRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	rec, err := s.store.GetRecord(id)
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewRecord(rec))
}

func (s *Server) handleDeleteRecord(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	err := s.store.DeleteRecord(id)
	if errors.Is(err, store.ErrNotFound) {
		errorResponse(c, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleCreateRecord(c *gin.Context) {
	body := jsonBody(c)

	var missing []string
	for _, field := range []string{"user_id", "category_id", "amount"} {
		if _, present := body[field]; !present {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		errorResponse(c, http.StatusBadRequest, "Missing fields: "+strings.Join(missing, ", "))
		return
	}

	// Uncoercible IDs behave like IDs of users that do not exist.
	userID, ok := asInt64(body["user_id"])
	if ok {
		_, err := s.store.GetUser(userID)
		ok = err == nil
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.internalError(c, err)
			return
		}
	}
	if !ok {
		errorResponse(c, http.StatusBadRequest, "User does not exist")
		return
	}

	categoryID, ok := asInt64(body["category_id"])
	if ok {
		_, err := s.store.GetCategory(categoryID)
		ok = err == nil
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			s.internalError(c, err)
			return
		}
	}
	if !ok {
		errorResponse(c, http.StatusBadRequest, "Category does not exist")
		return
	}

	amount, ok := asFloat(body["amount"])
	if !ok {
		errorResponse(c, http.StatusBadRequest, "Field 'amount' must be a number")
		return
	}
	if amount <= 0 {
		errorResponse(c, http.StatusBadRequest, "Field 'amount' must be positive")
		return
	}

	createdAt := time.Now().UTC()
	if raw, present := body["created_at"]; present {
		str, _ := raw.(string)
		if str != "" {
			t, err := parseISOTime(str)
			if err != nil {
				errorResponse(c, http.StatusBadRequest, "Field 'created_at' must be valid ISO datetime")
				return
			}
			createdAt = t
		}
	}

	rec, err := s.store.CreateRecord(userID, categoryID, createdAt, types.MoneyFromFloat(amount))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientFunds):
			errorResponse(c, http.StatusBadRequest, "Insufficient funds on account")
		case errors.Is(err, store.ErrNotFound):
			// Deleted between the existence check and the insert.
			errorResponse(c, http.StatusBadRequest, "User does not exist")
		default:
			s.internalError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, viewRecord(rec))
}

func (s *Server) handleListRecords(c *gin.Context) {
	filter := store.RecordFilter{
		UserID:     queryInt64(c, "user_id"),
		CategoryID: queryInt64(c, "category_id"),
	}
	if filter.UserID == nil && filter.CategoryID == nil {
		errorResponse(c, http.StatusBadRequest,
			"At least one of 'user_id' or 'category_id' must be provided")
		return
	}

	records, err := s.store.ListRecords(filter)
	if err != nil {
		s.internalError(c, err)
		return
	}

	views := make([]recordView, 0, len(records))
	for i := range records {
		views = append(views, viewRecord(&records[i]))
	}
	c.JSON(http.StatusOK, views)
}

// queryInt64 parses an optional integer query parameter. Unparsable values
// count as absent.
func queryInt64(c *gin.Context, name string) *int64 {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// isoTimeLayouts covers the ISO 8601 forms accepted for created_at. Naive
// timestamps are taken as UTC.
var isoTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseISOTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range isoTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
