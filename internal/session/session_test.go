package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anil29717/DeepDoc/internal/api"
	"github.com/anil29717/DeepDoc/internal/models"
)

// fakeBackend is an in-memory stand-in for the DeepDoc API. Individual
// operations can be overridden per test through the *Fn hooks.
type fakeBackend struct {
	mu sync.Mutex

	docs    []models.Document
	folders []models.Folder
	history map[string][]models.Message

	listDocsErr   error
	deleteDocErr  error
	createFoldErr error

	askFn     func(question string, documentID, folderID *int) (*api.AskResponse, error)
	historyFn func(id int, isFolder bool) ([]models.Message, error)
	uploadFn  func(path string, folderID *int) (*models.Document, error)

	uploadedPaths   []string
	uploadedFolders []*int
	historyCalls    []string
	askCalls        int
	listDocCalls    int

	nextDocID int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		history:   make(map[string][]models.Message),
		nextDocID: 100,
	}
}

func historyKey(id int, isFolder bool) string {
	if isFolder {
		return fmt.Sprintf("folder:%d", id)
	}
	return fmt.Sprintf("doc:%d", id)
}

func (f *fakeBackend) ListDocuments() ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listDocCalls++
	if f.listDocsErr != nil {
		return nil, f.listDocsErr
	}
	out := make([]models.Document, len(f.docs))
	copy(out, f.docs)
	return out, nil
}

func (f *fakeBackend) ListFolders() ([]models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Folder, len(f.folders))
	copy(out, f.folders)
	return out, nil
}

func (f *fakeBackend) CreateFolder(name string) (*models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createFoldErr != nil {
		return nil, f.createFoldErr
	}
	folder := models.Folder{ID: len(f.folders) + 1, Name: name}
	f.folders = append(f.folders, folder)
	return &folder, nil
}

func (f *fakeBackend) DeleteFolder(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, folder := range f.folders {
		if folder.ID == id {
			f.folders = append(f.folders[:i], f.folders[i+1:]...)
			break
		}
	}
	// Folder deletion does not cascade; members become unassigned.
	for i := range f.docs {
		if f.docs[i].FolderID != nil && *f.docs[i].FolderID == id {
			f.docs[i].FolderID = nil
		}
	}
	return nil
}

func (f *fakeBackend) DeleteDocument(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteDocErr != nil {
		return f.deleteDocErr
	}
	for i, d := range f.docs {
		if d.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeBackend) UploadDocument(path string, folderID *int) (*models.Document, error) {
	if f.uploadFn != nil {
		f.mu.Lock()
		fn := f.uploadFn
		f.mu.Unlock()
		doc, err := fn(path, folderID)
		if err != nil {
			return nil, err
		}
		f.recordUpload(path, folderID, doc)
		return doc, nil
	}

	f.mu.Lock()
	f.nextDocID++
	doc := &models.Document{
		ID:       f.nextDocID,
		Filename: path,
		Status:   models.StatusReady,
		FolderID: folderID,
	}
	f.mu.Unlock()
	f.recordUpload(path, folderID, doc)
	return doc, nil
}

func (f *fakeBackend) recordUpload(path string, folderID *int, doc *models.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadedPaths = append(f.uploadedPaths, path)
	f.uploadedFolders = append(f.uploadedFolders, folderID)
	f.docs = append(f.docs, *doc)
}

func (f *fakeBackend) History(id int, isFolder bool) ([]models.Message, error) {
	f.mu.Lock()
	f.historyCalls = append(f.historyCalls, historyKey(id, isFolder))
	fn := f.historyFn
	f.mu.Unlock()

	if fn != nil {
		return fn(id, isFolder)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[historyKey(id, isFolder)], nil
}

func (f *fakeBackend) Ask(question string, documentID, folderID *int) (*api.AskResponse, error) {
	f.mu.Lock()
	f.askCalls++
	fn := f.askFn
	f.mu.Unlock()

	if fn != nil {
		return fn(question, documentID, folderID)
	}
	return &api.AskResponse{Answer: "the answer"}, nil
}

func doc(id int, name string) models.Document {
	return models.Document{ID: id, Filename: name, Status: models.StatusReady}
}

// --- ContextStore ---

func TestContextExclusivity(t *testing.T) {
	tests := []struct {
		name string
		ops  func(s *ContextStore)
		want Context
	}{
		{
			name: "document replaces folder",
			ops: func(s *ContextStore) {
				s.SelectFolder(7)
				s.SelectDocument(42)
			},
			want: DocumentContext(42),
		},
		{
			name: "folder replaces document",
			ops: func(s *ContextStore) {
				s.SelectDocument(42)
				s.SelectFolder(7)
			},
			want: FolderContext(7),
		},
		{
			name: "clear wins",
			ops: func(s *ContextStore) {
				s.SelectDocument(1)
				s.SelectFolder(2)
				s.Clear()
			},
			want: None(),
		},
		{
			name: "long alternation ends on last selection",
			ops: func(s *ContextStore) {
				s.SelectDocument(1)
				s.SelectFolder(1)
				s.SelectDocument(2)
				s.SelectFolder(2)
				s.Clear()
				s.SelectDocument(3)
			},
			want: DocumentContext(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ContextStore
			tt.ops(&s)
			assert.Equal(t, tt.want, s.Active())
		})
	}
}

func TestDefaultToFirstDocument(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(5, "a.pdf"), doc(9, "b.pdf")}
	backend.history["doc:5"] = []models.Message{{Role: models.RoleUser, Content: "hi"}}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	assert.Equal(t, DocumentContext(5), m.Active())
	// The default selection behaves like any other context switch: the
	// transcript for it is loaded.
	require.Len(t, m.Messages(), 1)
	assert.Equal(t, "hi", m.Messages()[0].Content)
}

func TestDefaultNeverOverridesExplicitSelection(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf")}
	backend.folders = []models.Folder{{ID: 7, Name: "reports"}}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	require.NoError(t, m.SelectFolder(7))

	require.NoError(t, m.RefreshDocuments())
	assert.Equal(t, FolderContext(7), m.Active())

	// Even after explicitly clearing, a refresh must not sneak the first
	// document back in.
	m.ClearSelection()
	require.NoError(t, m.RefreshDocuments())
	assert.Equal(t, None(), m.Active())
}

func TestReselectActiveContextNoRefetch(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf")}
	backend.history["doc:1"] = []models.Message{
		{Role: models.RoleUser, Content: "q"},
		{Role: models.RoleAssistant, Content: "a"},
	}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	require.Equal(t, DocumentContext(1), m.Active())
	fetches := len(backend.historyCalls)

	require.NoError(t, m.SelectDocument(1))
	require.NoError(t, m.SelectDocument(1))

	assert.Equal(t, fetches, len(backend.historyCalls), "re-selecting the active context must not refetch")
	assert.Len(t, m.Messages(), 2)
}

func TestSelectUnknown(t *testing.T) {
	m := NewManager(newFakeBackend())
	assert.ErrorIs(t, m.SelectDocument(99), ErrUnknownDocument)
	assert.ErrorIs(t, m.SelectFolder(99), ErrUnknownFolder)
}

func TestDeleteActiveDocumentClearsContext(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(42, "a.pdf")}
	backend.history["doc:42"] = []models.Message{{Role: models.RoleUser, Content: "q"}}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	require.Equal(t, DocumentContext(42), m.Active())

	require.NoError(t, m.DeleteDocument(42))

	assert.Equal(t, None(), m.Active())
	assert.Empty(t, m.Messages())

	_, err := m.Ask("still there?")
	assert.ErrorIs(t, err, ErrNoContext)
	assert.Zero(t, backend.askCalls)
}

func TestDeleteInactiveDocumentKeepsContext(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf"), doc(2, "b.pdf")}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	require.NoError(t, m.SelectDocument(1))

	require.NoError(t, m.DeleteDocument(2))
	assert.Equal(t, DocumentContext(1), m.Active())
}

func TestDeleteFolderUnassignsDocuments(t *testing.T) {
	backend := newFakeBackend()
	seven := 7
	backend.folders = []models.Folder{{ID: seven, Name: "reports"}}
	d := doc(1, "a.pdf")
	d.FolderID = &seven
	backend.docs = []models.Document{d}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	require.NoError(t, m.SelectFolder(7))

	require.NoError(t, m.DeleteFolder(7))

	assert.Equal(t, None(), m.Active())
	docs := m.Documents()
	require.Len(t, docs, 1)
	assert.Nil(t, docs[0].FolderID, "documents of a deleted folder must show as unassigned after refresh")
}

func TestDeleteDocumentFailureSurfacesError(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf")}
	backend.deleteDocErr = errors.New("boom")

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	require.Error(t, m.DeleteDocument(1))
	assert.Equal(t, "Delete failed", m.CurrentError())
	// Local collection untouched on failure.
	assert.Len(t, m.Documents(), 1)
}

// --- History ---

func TestHistoryRoundTripStable(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf"), doc(2, "b.pdf")}
	backend.history["doc:2"] = []models.Message{
		{Role: models.RoleUser, Content: "q1"},
		{Role: models.RoleAssistant, Content: "a1"},
	}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	require.NoError(t, m.SelectDocument(2))
	first := m.Messages()

	// Force a second fetch for the same unchanged context.
	m.ReloadHistory()
	second := m.Messages()

	assert.Equal(t, first, second)
}

func TestHistoryFailureIsSilentAndStale(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf"), doc(2, "b.pdf")}
	backend.history["doc:1"] = []models.Message{{Role: models.RoleUser, Content: "old"}}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())
	require.Equal(t, DocumentContext(1), m.Active())
	require.Len(t, m.Messages(), 1)

	backend.historyFn = func(id int, isFolder bool) ([]models.Message, error) {
		return nil, errors.New("backend down")
	}
	require.NoError(t, m.SelectDocument(2))

	// The log keeps its previous contents and no banner is raised.
	assert.Equal(t, "old", m.Messages()[0].Content)
	assert.Empty(t, m.CurrentError())
}

func TestStaleHistoryResponseDiscarded(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf"), doc(2, "b.pdf")}

	entered := make(chan struct{})
	release := make(chan struct{})
	backend.historyFn = func(id int, isFolder bool) ([]models.Message, error) {
		if id == 2 {
			close(entered)
			<-release
			return []models.Message{{Role: models.RoleAssistant, Content: "from doc 2"}}, nil
		}
		return []models.Message{{Role: models.RoleAssistant, Content: "from doc 1"}}, nil
	}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap()) // defaults to doc 1

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.SelectDocument(2) // blocks in the history fetch
	}()
	<-entered

	// Switch away while doc 2's fetch is still in flight, then let the
	// stale response land.
	require.NoError(t, m.SelectDocument(1))
	close(release)
	<-done

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "from doc 1", msgs[0].Content, "stale history response must be discarded")
	assert.Equal(t, DocumentContext(1), m.Active())
}

// --- Ask ---

func TestAskAppendsOptimistically(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(42, "a.pdf")}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	answer, err := m.Ask("What is the refund policy?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", answer)

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "What is the refund policy?", msgs[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
}

func TestAskFailureKeepsUserMessage(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(42, "a.pdf")}
	backend.askFn = func(string, *int, *int) (*api.AskResponse, error) {
		return nil, errors.New("model overloaded")
	}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	_, err := m.Ask("why?")
	require.Error(t, err)

	msgs := m.Messages()
	require.Len(t, msgs, 1, "user message stays, no assistant reply")
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "Failed to get response", m.CurrentError())

	// Busy flag must clear even on the error path.
	assert.False(t, m.Busy().Chatting)
}

func TestAskRejectedWithoutContext(t *testing.T) {
	backend := newFakeBackend()
	m := NewManager(backend)

	_, err := m.Ask("What is the refund policy?")
	assert.ErrorIs(t, err, ErrNoContext)
	assert.Zero(t, backend.askCalls, "no backend call without a context")
	assert.Empty(t, m.Messages())
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf")}
	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	_, err := m.Ask("   \t ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Empty(t, m.Messages())
}

func TestAskScopedToContextKind(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(42, "a.pdf")}
	backend.folders = []models.Folder{{ID: 7, Name: "reports"}}

	var gotDoc, gotFolder *int
	backend.askFn = func(q string, documentID, folderID *int) (*api.AskResponse, error) {
		gotDoc, gotFolder = documentID, folderID
		return &api.AskResponse{Answer: "ok"}, nil
	}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	require.NoError(t, m.SelectDocument(42))
	_, err := m.Ask("q")
	require.NoError(t, err)
	require.NotNil(t, gotDoc)
	assert.Equal(t, 42, *gotDoc)
	assert.Nil(t, gotFolder, "never both ids")

	require.NoError(t, m.SelectFolder(7))
	_, err = m.Ask("q")
	require.NoError(t, err)
	assert.Nil(t, gotDoc)
	require.NotNil(t, gotFolder)
	assert.Equal(t, 7, *gotFolder)
}

func TestConcurrentAskRejected(t *testing.T) {
	backend := newFakeBackend()
	backend.docs = []models.Document{doc(1, "a.pdf")}

	entered := make(chan struct{})
	release := make(chan struct{})
	backend.askFn = func(string, *int, *int) (*api.AskResponse, error) {
		close(entered)
		<-release
		return &api.AskResponse{Answer: "slow"}, nil
	}

	m := NewManager(backend)
	require.NoError(t, m.Bootstrap())

	done := make(chan error, 1)
	go func() {
		_, err := m.Ask("first")
		done <- err
	}()
	<-entered

	_, err := m.Ask("second")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)

	// The rejected ask must not have appended anything.
	msgs := m.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "slow", msgs[1].Content)
}

// --- ErrorSink ---

func TestErrorSinkReplaces(t *testing.T) {
	var s ErrorSink
	assert.Empty(t, s.Current())

	s.Set("first")
	s.Set("second")
	assert.Equal(t, "second", s.Current())

	s.Clear()
	assert.Empty(t, s.Current())
}
