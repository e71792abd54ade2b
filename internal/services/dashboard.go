package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/translation-progress-api/internal/logger"
	"github.com/translation-progress-api/internal/models"
	"github.com/translation-progress-api/internal/repository"
	"github.com/translation-progress-api/internal/selection"
)

// DashboardDeps are the collaborators shared by every dashboard session
type DashboardDeps struct {
	Selections selection.Store
	Editions   repository.EditionRepository
	Progress   *ProgressService
	Activity   *ActivityService
	FeedLimit  int
	Log        *logger.Logger
}

// Dashboard is the per-session facade over progress and activity. It owns the
// session's selection, persists it through a selection.Store, and keeps the
// last published view.
//
// Every Refresh and every selection change starts a new generation. A
// refresh only publishes its results if its generation is still current when
// it completes; results for superseded generations are dropped.
type Dashboard struct {
	sessionID string
	deps      DashboardDeps
	log       *logger.Logger

	// selectMu orders concurrent Select calls so the applied selection
	// matches the last one persisted
	selectMu sync.Mutex

	mu              sync.Mutex
	loaded          bool
	selection       models.Selection
	editions        []models.Edition
	generation      uint64
	cancel          context.CancelFunc
	snapshot        *models.ProgressSnapshot
	progressErr     string
	feed            []models.ActivityEntry
	progressLoading bool
	activityLoading bool
}

// NewDashboard creates an unloaded dashboard for sessionID
func NewDashboard(sessionID string, deps DashboardDeps) *Dashboard {
	return &Dashboard{
		sessionID: sessionID,
		deps:      deps,
		log:       deps.Log.With("service", "Dashboard", "session_id", sessionID),
		feed:      []models.ActivityEntry{},
	}
}

// Load restores the persisted selection and the list of editions. When no
// edition is selected the first available one is used.
func (d *Dashboard) Load(ctx context.Context) error {
	sel, err := d.deps.Selections.Load(ctx, d.sessionID)
	if err != nil {
		return fmt.Errorf("load selection: %w", err)
	}
	editions, err := d.deps.Editions.ListEditions(ctx)
	if err != nil {
		return fmt.Errorf("list editions: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.editions = editions
	d.selection = withDefaultEdition(sel, editions)
	d.loaded = true
	return nil
}

// Loaded reports whether Load has completed
func (d *Dashboard) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

// Select persists a new selection for the session and then applies it. Any
// refresh still running for the previous selection is cancelled and its
// results discarded. If saving fails the current selection is kept.
func (d *Dashboard) Select(ctx context.Context, sel models.Selection) error {
	d.selectMu.Lock()
	defer d.selectMu.Unlock()

	d.mu.Lock()
	sel = withDefaultEdition(sel, d.editions)
	d.mu.Unlock()

	if err := d.deps.Selections.Save(ctx, d.sessionID, sel); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if sel != d.selection {
		d.selection = sel
		d.supersedeLocked()
		d.snapshot = nil
		d.progressErr = ""
		d.feed = []models.ActivityEntry{}
	}
	return nil
}

// Selection returns the current selection
func (d *Dashboard) Selection() models.Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection
}

// Loading reports whether a refresh is in flight
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.progressLoading || d.activityLoading
}

// View returns the last published view
func (d *Dashboard) View() models.DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewLocked()
}

// Refresh recomputes progress and activity for the current selection and
// returns the resulting view. If the selection changes or another refresh
// starts before this one completes, its results are dropped and the current
// view is returned instead.
func (d *Dashboard) Refresh(ctx context.Context) models.DashboardView {
	d.mu.Lock()
	d.supersedeLocked()
	gen := d.generation
	sel := d.selection
	rctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.progressLoading = true
	d.activityLoading = true
	d.mu.Unlock()
	defer cancel()

	var (
		snap        models.ProgressSnapshot
		progressErr error
		feed        []models.ActivityEntry
		feedErr     error
	)
	var g errgroup.Group
	g.Go(func() error {
		snap, progressErr = d.deps.Progress.GetProgress(rctx, sel.ProjectID, sel.EditionID)
		return nil
	})
	g.Go(func() error {
		feed, feedErr = d.deps.Activity.RecentActivity(rctx, sel.ProjectID, d.deps.FeedLimit)
		return nil
	})
	_ = g.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.generation {
		return d.viewLocked()
	}
	d.cancel = nil
	d.progressLoading = false
	d.activityLoading = false

	switch {
	case progressErr == nil:
		d.snapshot = &snap
		d.progressErr = ""
	case errors.Is(progressErr, context.Canceled):
	default:
		d.snapshot = nil
		d.progressErr = progressErr.Error()
		d.log.Error("progress refresh failed", "project_id", sel.ProjectID, "edition_id", sel.EditionID, "error", progressErr)
	}

	switch {
	case feedErr == nil:
		d.feed = feed
	case errors.Is(feedErr, context.Canceled):
	default:
		d.log.Warn("activity refresh failed", "project_id", sel.ProjectID, "error", feedErr)
	}

	return d.viewLocked()
}

// Close cancels any refresh in flight; its results are dropped
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.supersedeLocked()
}

// supersedeLocked starts a new generation and cancels the running refresh
func (d *Dashboard) supersedeLocked() {
	d.generation++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.progressLoading = false
	d.activityLoading = false
}

func (d *Dashboard) viewLocked() models.DashboardView {
	view := models.DashboardView{
		Selection:       d.selection,
		Editions:        append([]models.Edition{}, d.editions...),
		Activity:        append([]models.ActivityEntry{}, d.feed...),
		ProgressLoading: d.progressLoading,
		ActivityLoading: d.activityLoading,
		ProgressError:   d.progressErr,
	}
	if d.snapshot != nil {
		snap := *d.snapshot
		view.Progress = &snap
	}
	return view
}

// DefaultEdition returns the id of the first edition, or "" when there are none
func DefaultEdition(editions []models.Edition) string {
	if len(editions) == 0 {
		return ""
	}
	return editions[0].ID
}

func withDefaultEdition(sel models.Selection, editions []models.Edition) models.Selection {
	if sel.EditionID == "" {
		sel.EditionID = DefaultEdition(editions)
	}
	return sel
}

// RegistryOptions bounds the sessions a DashboardRegistry keeps in memory
type RegistryOptions struct {
	// IdleTTL evicts sessions not requested for this long. Zero disables it.
	IdleTTL time.Duration
	// MaxSessions caps retained sessions; the least recently used one is
	// evicted to make room. Zero means no cap.
	MaxSessions int
}

type registryEntry struct {
	dashboard  *Dashboard
	lastAccess time.Time
}

// DashboardRegistry hands out one Dashboard per session. Evicted sessions
// lose only their in-memory view; the selection is reloaded from the
// selection store on the next request.
type DashboardRegistry struct {
	deps DashboardDeps
	opts RegistryOptions
	now  func() time.Time

	mu         sync.Mutex
	dashboards map[string]*registryEntry
	lastSweep  time.Time
}

// NewDashboardRegistry creates an empty registry
func NewDashboardRegistry(deps DashboardDeps, opts RegistryOptions) *DashboardRegistry {
	return &DashboardRegistry{
		deps:       deps,
		opts:       opts,
		now:        time.Now,
		dashboards: make(map[string]*registryEntry),
	}
}

// Get returns the loaded dashboard of sessionID, creating it on first use
func (r *DashboardRegistry) Get(ctx context.Context, sessionID string) (*Dashboard, error) {
	r.mu.Lock()
	now := r.now()
	r.sweepLocked(now)
	e, ok := r.dashboards[sessionID]
	if !ok {
		if r.opts.MaxSessions > 0 && len(r.dashboards) >= r.opts.MaxSessions {
			r.evictOldestLocked()
		}
		e = &registryEntry{dashboard: NewDashboard(sessionID, r.deps)}
		r.dashboards[sessionID] = e
	}
	e.lastAccess = now
	d := e.dashboard
	r.mu.Unlock()

	if !d.Loaded() {
		if err := d.Load(ctx); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Len returns the number of retained sessions
func (r *DashboardRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dashboards)
}

// sweepLocked drops idle sessions, at most once per IdleTTL
func (r *DashboardRegistry) sweepLocked(now time.Time) {
	ttl := r.opts.IdleTTL
	if ttl <= 0 || now.Sub(r.lastSweep) < ttl {
		return
	}
	for id, e := range r.dashboards {
		if now.Sub(e.lastAccess) >= ttl {
			r.removeLocked(id, e)
		}
	}
	r.lastSweep = now
}

func (r *DashboardRegistry) evictOldestLocked() {
	var (
		oldestID string
		oldest   *registryEntry
	)
	for id, e := range r.dashboards {
		if oldest == nil || e.lastAccess.Before(oldest.lastAccess) {
			oldestID, oldest = id, e
		}
	}
	if oldest != nil {
		r.removeLocked(oldestID, oldest)
	}
}

func (r *DashboardRegistry) removeLocked(id string, e *registryEntry) {
	delete(r.dashboards, id)
	e.dashboard.Close()
}
