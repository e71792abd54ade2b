package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/translation-progress-api/internal/models"
	"github.com/translation-progress-api/internal/repository"
	"github.com/translation-progress-api/internal/services"
)

const maxActivityLimit = 50

// ProgressHandler handles edition, progress and activity endpoints
type ProgressHandler struct {
	editions repository.EditionRepository
	progress *services.ProgressService
	activity *services.ActivityService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(
	editions repository.EditionRepository,
	progress *services.ProgressService,
	activity *services.ActivityService,
) *ProgressHandler {
	return &ProgressHandler{
		editions: editions,
		progress: progress,
		activity: activity,
	}
}

// ListEditions handles GET /editions
func (h *ProgressHandler) ListEditions(c echo.Context) error {
	editions, err := h.editions.ListEditions(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list editions: "+err.Error())
	}
	if editions == nil {
		editions = []models.Edition{}
	}

	return c.JSON(http.StatusOK, models.EditionsResponse{
		Editions:         editions,
		DefaultEditionID: services.DefaultEdition(editions),
	})
}

// GetProgress handles GET /projects/:projectId/progress?edition_id=
func (h *ProgressHandler) GetProgress(c echo.Context) error {
	projectID := c.Param("projectId")
	editionID := c.QueryParam("edition_id")
	if editionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "edition_id is required")
	}

	snap, err := h.progress.GetProgress(c.Request().Context(), projectID, editionID)
	if err != nil {
		return progressError(err)
	}

	return c.JSON(http.StatusOK, models.ProgressResponse{
		ProjectID: projectID,
		EditionID: editionID,
		Progress:  snap,
	})
}

// InvalidateProgress handles DELETE /projects/:projectId/progress?edition_id=
func (h *ProgressHandler) InvalidateProgress(c echo.Context) error {
	editionID := c.QueryParam("edition_id")
	if editionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "edition_id is required")
	}

	if err := h.progress.Invalidate(c.Request().Context(), c.Param("projectId"), editionID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetActivity handles GET /projects/:projectId/activity?limit=
func (h *ProgressHandler) GetActivity(c echo.Context) error {
	projectID := c.Param("projectId")

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = n
	}
	if limit <= 0 || limit > maxActivityLimit {
		limit = 0
	}

	entries, err := h.activity.RecentActivity(c.Request().Context(), projectID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load activity: "+err.Error())
	}

	return c.JSON(http.StatusOK, models.ActivityResponse{
		ProjectID: projectID,
		Entries:   entries,
	})
}

// RegisterRoutes registers edition, progress and activity routes
func (h *ProgressHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/editions", h.ListEditions)

	projects := g.Group("/projects/:projectId")
	projects.GET("/progress", h.GetProgress)
	projects.DELETE("/progress", h.InvalidateProgress)
	projects.GET("/activity", h.GetActivity)
}
