package session

import "github.com/anil29717/DeepDoc/internal/api"

// UploadBatch uploads the given files strictly one at a time, in input
// order. folderID picks the target folder; when nil and the active context
// is a folder, that folder is used.
//
// After each successful upload the progress counter advances so observers
// can render "k of n". Without a target folder, the active context follows
// the most recently uploaded document; with one, the selection is left
// alone so uploads augment the folder silently.
//
// The first failure stops the batch: remaining files are not attempted,
// already uploaded files stay uploaded, and a single error (the server's
// message when it supplies one) lands in the error sink. Whether the batch
// finished or stopped early, the document collection is refetched exactly
// once and the progress counter returns to idle.
//
// An empty batch is a no-op.
func (m *Manager) UploadBatch(paths []string, folderID *int) error {
	if len(paths) == 0 {
		return nil
	}

	m.mu.Lock()
	if m.uploading {
		m.mu.Unlock()
		return ErrBusy
	}
	m.uploading = true
	if folderID == nil {
		if active := m.store.Active(); active.Kind == KindFolder {
			id := active.ID
			folderID = &id
		}
	}
	total := len(paths)
	m.progress = Progress{Completed: 0, Total: total}
	m.mu.Unlock()

	m.errs.Clear()
	m.notifyProgress(0, total)

	var uploadErr error
	for _, path := range paths {
		doc, err := m.backend.UploadDocument(path, folderID)
		if err != nil {
			if msg := api.ServerMessage(err); msg != "" {
				m.errs.Set(msg)
			} else {
				m.errs.Set("Upload failed")
			}
			uploadErr = err
			break
		}

		m.mu.Lock()
		m.progress.Completed++
		completed := m.progress.Completed
		m.mu.Unlock()
		m.notifyProgress(completed, total)

		// Outside a folder the view tracks the newest file, mid-batch
		// included.
		if folderID == nil {
			m.mu.Lock()
			changed := m.store.SelectDocument(doc.ID)
			m.mu.Unlock()
			if changed {
				m.loadHistory(DocumentContext(doc.ID))
			}
		}
	}

	if err := m.RefreshDocuments(); err != nil {
		m.logger.Printf("document refresh after upload failed: %v", err)
	}

	m.mu.Lock()
	m.progress = Progress{}
	m.uploading = false
	m.mu.Unlock()
	m.notifyProgress(0, 0)

	return uploadErr
}

func (m *Manager) notifyProgress(completed, total int) {
	if m.onProgress != nil {
		m.onProgress(completed, total)
	}
}
