package models

// Selection is the project and edition currently chosen by a dashboard session
type Selection struct {
	ProjectID string `json:"project_id"`
	EditionID string `json:"edition_id"`
}

// SelectionRequest is the request body for updating a session's selection
type SelectionRequest struct {
	ProjectID string `json:"project_id" validate:"required,max=128"`
	EditionID string `json:"edition_id" validate:"omitempty,max=128"`
}

// ProgressResponse is the response for a progress lookup
type ProgressResponse struct {
	ProjectID string           `json:"project_id"`
	EditionID string           `json:"edition_id"`
	Progress  ProgressSnapshot `json:"progress"`
}

// ActivityResponse is the response for the recent activity feed
type ActivityResponse struct {
	ProjectID string          `json:"project_id"`
	Entries   []ActivityEntry `json:"entries"`
}

// DashboardView is everything the dashboard renders for one session
type DashboardView struct {
	Selection       Selection         `json:"selection"`
	Editions        []Edition         `json:"editions"`
	Progress        *ProgressSnapshot `json:"progress,omitempty"`
	Activity        []ActivityEntry   `json:"activity"`
	ProgressLoading bool              `json:"progress_loading"`
	ActivityLoading bool              `json:"activity_loading"`
	ProgressError   string            `json:"progress_error,omitempty"`
}

// EditionsResponse is the response for listing editions
type EditionsResponse struct {
	Editions         []Edition `json:"editions"`
	DefaultEditionID string    `json:"default_edition_id"`
}
