package model

import (
	"context"
	"sort"
	"sync"

	"aetui/config"
)

// Registry maintains the ordered list of a user's sessions and tracks
// which one is current. It owns the only shared mutable cache in the
// application: the memoized session list, refreshed lazily and patched or
// dropped synchronously after create and delete. Batched commands run on
// separate goroutines, so all state is guarded by the mutex.
type Registry struct {
	engine Engine
	userID string

	mu        sync.Mutex
	memo      []SessionSummary
	memoValid bool
	currentID string
}

func NewRegistry(engine Engine, userID string) *Registry {
	return &Registry{
		engine: engine,
		userID: userID,
	}
}

// Sessions returns the user's sessions sorted by last update, newest
// first. Sessions with equal timestamps keep the engine's original
// relative order. The result is memoized until Invalidate, Create, or
// Delete.
func (r *Registry) Sessions(ctx context.Context) ([]SessionSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.memoValid {
		raw, err := r.engine.ListSessions(ctx, r.userID)
		if err != nil {
			return nil, err
		}
		sorted := make([]SessionSummary, len(raw))
		copy(sorted, raw)
		sortSummaries(sorted)
		r.memo = sorted
		r.memoValid = true
	}

	// Callers get a stamped copy so the memo is never read outside the
	// lock.
	out := make([]SessionSummary, len(r.memo))
	copy(out, r.memo)
	for i := range out {
		out[i].IsCurrent = r.currentID != "" && out[i].ID == r.currentID
	}
	return out, nil
}

// Invalidate drops the memoized list so the next Sessions call re-fetches.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidateLocked()
}

func (r *Registry) invalidateLocked() {
	r.memo = nil
	r.memoValid = false
}

// CurrentID returns the selected session ID, or "" in new-chat mode.
func (r *Registry) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentID
}

// ClearCurrent drops the selection, returning to new-chat mode.
func (r *Registry) ClearCurrent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentID = ""
}

// Select resolves a navigation-carried session ID. If the session exists
// it becomes current and is returned. If the engine reports it absent the
// reference is stale: the selection is cleared and (nil, false, nil) comes
// back so the caller falls through to new-chat mode without surfacing an
// error. The session need not appear in the memoized list to be selected;
// a direct fetch is authoritative.
func (r *Registry) Select(ctx context.Context, sessionID string) (*Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.engine.GetSession(ctx, r.userID, sessionID)
	if err != nil {
		return nil, false, err
	}
	if session == nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Registry] Stale session reference %s, falling back to new chat", sessionID)
		}
		if r.currentID == sessionID {
			r.currentID = ""
		}
		return nil, false, nil
	}

	r.currentID = session.ID
	return session, true, nil
}

// Create asks the engine for a fresh session, then patches the memoized
// list with a locally synthesized summary instead of re-fetching: the
// engine is eventually consistent and a just-created session may not show
// up in list results yet. The synthesized entry is trusted until the next
// invalidation.
func (r *Registry) Create(ctx context.Context) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.engine.CreateSession(ctx, r.userID)
	if err != nil {
		return nil, err
	}

	summary := session.Summary()
	summary.IsNew = true
	r.currentID = session.ID
	r.memo = append([]SessionSummary{summary}, r.memo...)
	r.memoValid = true
	return session, nil
}

// Delete removes a session and synchronously invalidates the memoized
// list, before any later read. The selection is cleared whether or not the
// remote delete succeeded: the caller must never keep pointing at an ID it
// asked to delete.
func (r *Registry) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.engine.DeleteSession(ctx, r.userID, sessionID)
	if r.currentID == sessionID {
		r.currentID = ""
	}
	r.invalidateLocked()
	return err
}

// sortSummaries orders by lastUpdateTime descending. The sort is stable so
// equal timestamps retain input order.
func sortSummaries(summaries []SessionSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastUpdateTime.Seconds() > summaries[j].LastUpdateTime.Seconds()
	})
}
