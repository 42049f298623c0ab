// Package service implements the HTTP API handlers.
//
// Handlers bind JSON request bodies, convert wire payloads to domain
// models, call into storage and the split engine, and render responses.
// Money crosses the wire as decimal strings ("12.34"); inside the
// process it is always integer cents.
package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evelane/tabsplit/internal/calculator"
	"github.com/evelane/tabsplit/internal/metrics"
	"github.com/evelane/tabsplit/internal/storage"
)

// respondError renders a domain error with the right status code.
// Validation failures carry their kind as the response code; unknown
// entities map to 404; a reconciliation failure is a server defect and
// maps to 500.
func respondError(c *gin.Context, err error) {
	var validationErr *calculator.ValidationError
	var reconciliationErr *calculator.ReconciliationError
	switch {
	case errors.As(err, &validationErr):
		metrics.ValidationFailures.WithLabelValues(string(validationErr.Kind)).Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  string(validationErr.Kind),
			"error": validationErr.Message,
		})
	case errors.As(err, &reconciliationErr):
		slog.Error("Settlement failed to reconcile",
			"category", reconciliationErr.Category,
			"want", reconciliationErr.Want,
			"got", reconciliationErr.Got,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "Internal",
			"error": "settlement failed to reconcile",
		})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "NotFound",
			"error": err.Error(),
		})
	default:
		slog.Error("Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  "Internal",
			"error": "internal error",
		})
	}
}

// respondBadRequest renders a malformed-request error (unparseable body,
// bad money string, conflicting fields).
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":  "BadRequest",
		"error": message,
	})
}
