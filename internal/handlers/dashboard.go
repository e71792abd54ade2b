package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/translation-progress-api/internal/models"
	"github.com/translation-progress-api/internal/services"
)

// DashboardHandler serves per-session dashboard views
type DashboardHandler struct {
	dashboards *services.DashboardRegistry
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboards *services.DashboardRegistry) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// GetDashboard handles GET /sessions/:sessionId/dashboard. It refreshes the
// session's view; if a newer refresh or selection supersedes this one the
// newer state is returned.
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	d, err := h.dashboards.Get(ctx, c.Param("sessionId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard: "+err.Error())
	}

	return c.JSON(http.StatusOK, d.Refresh(ctx))
}

// UpdateSelection handles PUT /sessions/:sessionId/selection
func (h *DashboardHandler) UpdateSelection(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SelectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d, err := h.dashboards.Get(ctx, c.Param("sessionId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load dashboard: "+err.Error())
	}

	sel := models.Selection{ProjectID: req.ProjectID, EditionID: req.EditionID}
	if err := d.Select(ctx, sel); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save selection: "+err.Error())
	}

	return c.JSON(http.StatusOK, d.View())
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(g *echo.Group) {
	sessions := g.Group("/sessions/:sessionId")
	sessions.GET("/dashboard", h.GetDashboard)
	sessions.PUT("/selection", h.UpdateSelection)
}
