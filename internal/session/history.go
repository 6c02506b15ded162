package session

// loadHistory fetches the transcript for the given context and replaces the
// conversation log with it. It runs once per distinct context transition;
// callers skip it when a selection did not actually change.
//
// A history fetch that resolves after the user has moved on must not
// clobber the new context's transcript. There is no request cancellation;
// instead the context identity captured at fetch start is compared against
// the active selection before the result is applied, and stale results are
// dropped.
//
// Failures are deliberately quiet: the log keeps its previous (stale)
// contents and nothing reaches the error sink. A broken history fetch is
// low-severity next to a failed user action.
func (m *Manager) loadHistory(ctx Context) {
	if ctx.IsNone() {
		return
	}

	m.mu.Lock()
	m.fetchingHistory = true
	m.mu.Unlock()

	msgs, err := m.backend.History(ctx.ID, ctx.Kind == KindFolder)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchingHistory = false

	if err != nil {
		m.logger.Printf("history load failed for %s: %v", ctx, err)
		return
	}
	if m.store.Active() != ctx {
		m.logger.Printf("discarding stale history for %s", ctx)
		return
	}
	m.log.ReplaceAll(msgs)
}

// ReloadHistory refetches the transcript for the current context. Used by
// surfaces that want an explicit refresh; a no-op with nothing selected.
func (m *Manager) ReloadHistory() {
	m.loadHistory(m.Active())
}
