package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/translation-progress-api/internal/services"
)

// progressError maps a progress failure to an HTTP error. Structural
// failures are transient fact store problems and the client may retry.
func progressError(err error) error {
	var se *services.StructuralError
	if errors.As(err, &se) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, map[string]any{
			"message":   "Progress unavailable",
			"fetch":     se.Fetch,
			"retryable": true,
		}).SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "Progress failed: "+err.Error())
}
