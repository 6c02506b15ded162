package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anil29717/DeepDoc/internal/api"
	"github.com/anil29717/DeepDoc/internal/models"
)

func apiErrorWithMessage(msg string) error {
	return &api.APIError{StatusCode: 400, Message: msg}
}

type progressRecorder struct {
	seq []Progress
}

func (r *progressRecorder) record(completed, total int) {
	r.seq = append(r.seq, Progress{Completed: completed, Total: total})
}

func TestUploadBatchSequentialOrder(t *testing.T) {
	backend := newFakeBackend()
	var rec progressRecorder

	m := NewManager(backend, WithProgressFunc(rec.record))
	require.NoError(t, m.Bootstrap())

	require.NoError(t, m.UploadBatch([]string{"a.pdf", "b.pdf", "c.pdf"}, nil))

	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf"}, backend.uploadedPaths, "uploads run strictly in input order")
	assert.Equal(t, []Progress{
		{0, 3},
		{1, 3},
		{2, 3},
		{3, 3},
		{0, 0},
	}, rec.seq)

	// Progress is back to idle once the batch is done.
	assert.Equal(t, Progress{}, m.Progress())
	assert.False(t, m.Busy().Uploading)
}

func TestUploadBatchSwitchesToNewestDocument(t *testing.T) {
	backend := newFakeBackend()
	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	require.NoError(t, m.UploadBatch([]string{"a.pdf", "b.pdf"}, nil))

	// Without a target folder the view follows the most recently uploaded
	// document.
	docs := m.Documents()
	require.Len(t, docs, 2)
	last := docs[len(docs)-1]
	assert.Equal(t, "b.pdf", last.Filename)
	assert.Equal(t, DocumentContext(last.ID), m.Active())
}

func TestUploadIntoFolderKeepsContext(t *testing.T) {
	backend := newFakeBackend()
	backend.folders = []models.Folder{{ID: 7, Name: "reports"}}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	require.NoError(t, m.SelectFolder(7))

	require.NoError(t, m.UploadBatch([]string{"a.pdf"}, nil))

	assert.Equal(t, FolderContext(7), m.Active(), "uploading into an open folder must not switch context")
	require.Len(t, backend.uploadedFolders, 1)
	require.NotNil(t, backend.uploadedFolders[0])
	assert.Equal(t, 7, *backend.uploadedFolders[0])

	// The refreshed collection shows the document inside the folder.
	docs := m.Documents()
	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].FolderID)
	assert.Equal(t, 7, *docs[0].FolderID)
}

func TestUploadBatchExplicitFolderOverridesActive(t *testing.T) {
	backend := newFakeBackend()
	backend.folders = []models.Folder{{ID: 1, Name: "x"}, {ID: 2, Name: "y"}}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	require.NoError(t, m.SelectFolder(1))

	two := 2
	require.NoError(t, m.UploadBatch([]string{"a.pdf"}, &two))

	require.Len(t, backend.uploadedFolders, 1)
	require.NotNil(t, backend.uploadedFolders[0])
	assert.Equal(t, 2, *backend.uploadedFolders[0])
	assert.Equal(t, FolderContext(1), m.Active())
}

func TestUploadBatchStopsOnFirstFailure(t *testing.T) {
	backend := newFakeBackend()
	var rec progressRecorder
	backend.uploadFn = func(path string, folderID *int) (*models.Document, error) {
		if path == "b.pdf" {
			return nil, errors.New("connection reset")
		}
		return &models.Document{ID: 200, Filename: path, Status: models.StatusReady, FolderID: folderID}, nil
	}

	m := NewManager(backend, WithProgressFunc(rec.record))
	require.NoError(t, m.Bootstrap())

	err := m.UploadBatch([]string{"a.pdf", "b.pdf", "c.pdf"}, nil)
	require.Error(t, err)

	assert.Equal(t, []string{"a.pdf"}, backend.uploadedPaths, "files after the failure are never attempted")
	assert.Equal(t, []Progress{
		{0, 3},
		{1, 3},
		{0, 0},
	}, rec.seq, "progress stops at the failure point, then resets")
	assert.Equal(t, "Upload failed", m.CurrentError())

	// a.pdf stays uploaded; no rollback.
	docs := m.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "a.pdf", docs[0].Filename)
	assert.False(t, m.Busy().Uploading)
}

func TestUploadFailurePrefersServerMessage(t *testing.T) {
	backend := newFakeBackend()
	backend.uploadFn = func(path string, folderID *int) (*models.Document, error) {
		return nil, apiErrorWithMessage("Invalid PDF file or processing error.")
	}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	require.Error(t, m.UploadBatch([]string{"bad.pdf"}, nil))
	assert.Equal(t, "Invalid PDF file or processing error.", m.CurrentError())
}

func TestUploadEmptyBatchIsNoOp(t *testing.T) {
	backend := newFakeBackend()
	var rec progressRecorder

	m := NewManager(backend, WithProgressFunc(rec.record))
	require.NoError(t, m.Bootstrap())
	before := m.Active()

	require.NoError(t, m.UploadBatch(nil, nil))

	assert.Empty(t, backend.uploadedPaths)
	assert.Empty(t, rec.seq, "no progress events for an empty selection")
	assert.Equal(t, before, m.Active())
	assert.Equal(t, Progress{}, m.Progress())
}

func TestUploadRefreshesDocumentsOnce(t *testing.T) {
	backend := newFakeBackend()
	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	baseline := backend.listDocCalls

	require.NoError(t, m.UploadBatch([]string{"a.pdf", "b.pdf", "c.pdf"}, nil))
	assert.Equal(t, baseline+1, backend.listDocCalls, "document collection refetched exactly once per batch")
}
