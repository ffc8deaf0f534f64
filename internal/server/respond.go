package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"expensed/internal/types"
)

// errorResponse writes the uniform {"error": message} body.
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// internalError logs the cause and hides it from the client.
func (s *Server) internalError(c *gin.Context, err error) {
	s.log.Error("internal error",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err))
	errorResponse(c, http.StatusInternalServerError, "Internal server error")
}

// notFound is the response for unroutable IDs (non-integer path params).
func notFound(c *gin.Context) {
	errorResponse(c, http.StatusNotFound, "Not found")
}

// Amounts and balances go out as JSON numbers, timestamps as RFC 3339.

type recordView struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	CategoryID int64   `json:"category_id"`
	CreatedAt  *string `json:"created_at"`
	Amount     float64 `json:"amount"`
}

type accountView struct {
	ID      int64   `json:"id"`
	UserID  int64   `json:"user_id"`
	Balance float64 `json:"balance"`
}

func viewRecord(r *types.Record) recordView {
	v := recordView{
		ID:         r.ID,
		UserID:     r.UserID,
		CategoryID: r.CategoryID,
		Amount:     r.Amount.InexactFloat64(),
	}
	if !r.CreatedAt.IsZero() {
		ts := r.CreatedAt.UTC().Format(time.RFC3339)
		v.CreatedAt = &ts
	}
	return v
}

func viewAccount(a *types.Account) accountView {
	return accountView{
		ID:      a.ID,
		UserID:  a.UserID,
		Balance: a.Balance.InexactFloat64(),
	}
}

// pathID parses an integer path parameter. Non-integer values are treated as
// an unroutable path.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		notFound(c)
		return 0, false
	}
	return id, true
}

// jsonBody decodes the request body into a map. Malformed or absent bodies
// yield an empty map; field presence is checked per handler.
func jsonBody(c *gin.Context) map[string]interface{} {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		return map[string]interface{}{}
	}
	return body
}

// asFloat coerces a JSON value into a float64. Numeric strings are accepted.
func asFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asInt64 coerces a JSON value into an integer ID. Fractional numbers and
// non-numeric strings fail.
func asInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
