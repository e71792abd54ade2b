package services

import "sync"

// resolution carries the keys of one Resolve call and the coverage fetches
// that degraded during it
type resolution struct {
	projectID string
	editionID string

	mu       sync.Mutex
	degraded []string
}

func (r *resolution) structural(fetch string, err error) error {
	return &StructuralError{
		Fetch:     fetch,
		ProjectID: r.projectID,
		EditionID: r.editionID,
		Err:       err,
	}
}

func (r *resolution) markDegraded(fetch string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = append(r.degraded, fetch)
}

func (r *resolution) degradedFetches() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.degraded...)
}
