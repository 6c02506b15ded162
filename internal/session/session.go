// Package session implements the client-side conversation session: the
// active document/folder context, its transcript, and the upload pipeline.
// All state mutations funnel through a single Manager so that the context
// exclusivity and transcript ownership rules hold no matter which surface
// (one-shot command, chat TUI, MCP tool) drives it.
package session

import (
	"errors"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/anil29717/DeepDoc/internal/models"
)

var (
	ErrBusy            = errors.New("another request is already in flight")
	ErrNoContext       = errors.New("no document or folder selected")
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrEmptyFolderName = errors.New("folder name is empty")
	ErrUnknownDocument = errors.New("no such document")
	ErrUnknownFolder   = errors.New("no such folder")
)

// Progress is the upload batch counter. It is only meaningful while a batch
// is in flight and reads (0, 0) when idle.
type Progress struct {
	Completed int
	Total     int
}

// InFlight reports whether an upload batch is running.
func (p Progress) InFlight() bool { return p.Total > 0 }

// Busy is a snapshot of the per-action reentrancy guards.
type Busy struct {
	Chatting        bool
	Uploading       bool
	FetchingDocs    bool
	FetchingHistory bool
}

// Manager ties the context store, conversation log, upload pipeline and
// error sink together over one backend client. It is safe for concurrent
// use; blocking network calls are made outside the state lock, and
// responses that arrive for a context that is no longer active are
// discarded.
type Manager struct {
	backend    Backend
	logger     *log.Logger
	onProgress func(completed, total int)

	mu    sync.Mutex
	store ContextStore
	log   ConversationLog
	errs  ErrorSink

	progress        Progress
	chatting        bool
	uploading       bool
	fetchingDocs    bool
	fetchingHistory bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger directs diagnostic output (history fetch failures, discarded
// stale responses) to the given logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithProgressFunc registers an observer called after each upload in a
// batch completes, and once more with (0, 0) when the batch is done.
func WithProgressFunc(fn func(completed, total int)) Option {
	return func(m *Manager) { m.onProgress = fn }
}

// NewManager creates a session manager over the given backend.
func NewManager(backend Backend, opts ...Option) *Manager {
	m := &Manager{
		backend: backend,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap populates the document and folder collections. If nothing has
// been selected yet, the first listed document becomes the active context
// and its history is loaded.
func (m *Manager) Bootstrap() error {
	if err := m.RefreshFolders(); err != nil {
		m.logger.Printf("folder fetch failed: %v", err)
	}
	return m.RefreshDocuments()
}

// --- Snapshot accessors ---

func (m *Manager) Active() Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Active()
}

func (m *Manager) Documents() []models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]models.Document, len(m.store.Documents()))
	copy(docs, m.store.Documents())
	return docs
}

func (m *Manager) Folders() []models.Folder {
	m.mu.Lock()
	defer m.mu.Unlock()
	folders := make([]models.Folder, len(m.store.Folders()))
	copy(folders, m.store.Folders())
	return folders
}

func (m *Manager) Messages() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.Messages()
}

func (m *Manager) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

func (m *Manager) Busy() Busy {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Busy{
		Chatting:        m.chatting,
		Uploading:       m.uploading,
		FetchingDocs:    m.fetchingDocs,
		FetchingHistory: m.fetchingHistory,
	}
}

// CurrentError returns the current user-visible error, or "".
func (m *Manager) CurrentError() string { return m.errs.Current() }

// DismissError clears the current user-visible error.
func (m *Manager) DismissError() { m.errs.Clear() }

// FindDocument looks up a document in the local collection.
func (m *Manager) FindDocument(id int) (models.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.FindDocument(id)
}

// FindFolder looks up a folder in the local collection.
func (m *Manager) FindFolder(id int) (models.Folder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.FindFolder(id)
}

// --- Context selection ---

// SelectDocument makes the document the active context and loads its
// transcript. Re-selecting the already active document is a no-op and does
// not refetch or reset the transcript.
func (m *Manager) SelectDocument(id int) error {
	m.mu.Lock()
	if _, ok := m.store.FindDocument(id); !ok {
		m.mu.Unlock()
		return ErrUnknownDocument
	}
	changed := m.store.SelectDocument(id)
	m.mu.Unlock()

	if changed {
		m.loadHistory(DocumentContext(id))
	}
	return nil
}

// SelectFolder makes the folder the active context and loads its transcript.
func (m *Manager) SelectFolder(id int) error {
	m.mu.Lock()
	if _, ok := m.store.FindFolder(id); !ok {
		m.mu.Unlock()
		return ErrUnknownFolder
	}
	changed := m.store.SelectFolder(id)
	m.mu.Unlock()

	if changed {
		m.loadHistory(FolderContext(id))
	}
	return nil
}

// ClearSelection deactivates the current context and empties the transcript.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Clear()
	m.log.Reset()
}

// --- Collections ---

// RefreshDocuments refetches the document collection. On failure the
// collection is left at its last known value; the error is returned for
// diagnostics but is not put in the error sink.
func (m *Manager) RefreshDocuments() error {
	m.mu.Lock()
	m.fetchingDocs = true
	m.mu.Unlock()

	docs, err := m.backend.ListDocuments()

	m.mu.Lock()
	m.fetchingDocs = false
	if err != nil {
		m.mu.Unlock()
		m.logger.Printf("document fetch failed: %v", err)
		return err
	}
	defaulted := m.store.SetDocuments(docs)
	active := m.store.Active()
	m.mu.Unlock()

	if defaulted {
		m.loadHistory(active)
	}
	return nil
}

// RefreshFolders refetches the folder collection, leaving it untouched on
// failure.
func (m *Manager) RefreshFolders() error {
	folders, err := m.backend.ListFolders()
	if err != nil {
		m.logger.Printf("folder fetch failed: %v", err)
		return err
	}

	m.mu.Lock()
	m.store.SetFolders(folders)
	m.mu.Unlock()
	return nil
}

// CreateFolder creates a folder on the backend and appends it locally.
func (m *Manager) CreateFolder(name string) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyFolderName
	}

	folder, err := m.backend.CreateFolder(name)
	if err != nil {
		m.errs.Set("Failed to create folder")
		return nil, err
	}

	m.mu.Lock()
	m.store.AddFolder(*folder)
	m.mu.Unlock()
	return folder, nil
}

// DeleteDocument deletes the document on the backend and removes it from
// the local collection. If it was the active context, the selection
// transitions to None and the transcript is emptied.
func (m *Manager) DeleteDocument(id int) error {
	if err := m.backend.DeleteDocument(id); err != nil {
		m.errs.Set("Delete failed")
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store.RemoveDocument(id) {
		m.log.Reset()
	}
	return nil
}

// DeleteFolder deletes the folder on the backend. Its documents survive as
// unassigned, so the document collection is refetched to reflect that.
func (m *Manager) DeleteFolder(id int) error {
	if err := m.backend.DeleteFolder(id); err != nil {
		m.errs.Set("Delete failed")
		return err
	}

	m.mu.Lock()
	if m.store.RemoveFolder(id) {
		m.log.Reset()
	}
	m.mu.Unlock()

	if err := m.RefreshDocuments(); err != nil {
		m.logger.Printf("document refresh after folder delete failed: %v", err)
	}
	return nil
}

// --- Ask ---

// Ask submits one question against the active context. The user's message
// is appended to the transcript before the backend call and stays there
// even if the call fails; the assistant's answer is appended only on
// success. Concurrent asks are rejected, not queued.
func (m *Manager) Ask(question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	m.mu.Lock()
	active := m.store.Active()
	if active.IsNone() {
		m.mu.Unlock()
		return "", ErrNoContext
	}
	if m.chatting {
		m.mu.Unlock()
		return "", ErrBusy
	}
	m.chatting = true
	m.log.AppendUser(question)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.chatting = false
		m.mu.Unlock()
	}()

	var documentID, folderID *int
	switch active.Kind {
	case KindDocument:
		documentID = &active.ID
	case KindFolder:
		folderID = &active.ID
	}

	resp, err := m.backend.Ask(question, documentID, folderID)
	if err != nil {
		m.errs.Set("Failed to get response")
		return "", err
	}

	m.mu.Lock()
	if m.store.Active() == active {
		m.log.AppendAssistant(resp.Answer)
	} else {
		m.logger.Printf("discarding answer for no longer active %s", active)
	}
	m.mu.Unlock()

	return resp.Answer, nil
}
