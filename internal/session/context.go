package session

import (
	"fmt"

	"github.com/anil29717/DeepDoc/internal/models"
)

// ContextKind discriminates the active conversational scope.
type ContextKind int

const (
	KindNone ContextKind = iota
	KindDocument
	KindFolder
)

func (k ContextKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindFolder:
		return "folder"
	default:
		return "none"
	}
}

// Context is the active conversational scope: nothing, one document, or one
// folder. The zero value is None.
type Context struct {
	Kind ContextKind
	ID   int
}

func None() Context                  { return Context{} }
func DocumentContext(id int) Context { return Context{Kind: KindDocument, ID: id} }
func FolderContext(id int) Context   { return Context{Kind: KindFolder, ID: id} }

func (c Context) IsNone() bool { return c.Kind == KindNone }

func (c Context) String() string {
	if c.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%s:%d", c.Kind, c.ID)
}

// ContextStore owns the document and folder collections and the single
// active selection. Selecting a document always clears any folder selection
// and vice versa; at most one of the two is ever populated.
//
// ContextStore is a plain state holder. It performs no I/O and is not safe
// for concurrent use; the Manager serializes access to it.
type ContextStore struct {
	documents []models.Document
	folders   []models.Folder
	active    Context

	// explicit is set once the user has chosen a context themselves, so
	// the default-to-first-document policy never overrides them.
	explicit bool
}

// SelectDocument activates the given document, clearing any folder
// selection. It reports whether the active context actually changed, so
// callers can skip a redundant history fetch on re-selection.
func (s *ContextStore) SelectDocument(id int) (changed bool) {
	s.explicit = true
	next := DocumentContext(id)
	if s.active == next {
		return false
	}
	s.active = next
	return true
}

// SelectFolder activates the given folder, clearing any document selection.
func (s *ContextStore) SelectFolder(id int) (changed bool) {
	s.explicit = true
	next := FolderContext(id)
	if s.active == next {
		return false
	}
	s.active = next
	return true
}

// Clear deactivates any selection.
func (s *ContextStore) Clear() {
	s.explicit = true
	s.active = None()
}

// Active returns the current selection.
func (s *ContextStore) Active() Context { return s.active }

// Documents returns the current document collection.
func (s *ContextStore) Documents() []models.Document { return s.documents }

// Folders returns the current folder collection.
func (s *ContextStore) Folders() []models.Folder { return s.folders }

// SetDocuments replaces the document collection wholesale after a refetch.
// If nothing has been selected yet and no explicit choice was ever made, the
// first listed document becomes active (default-to-first policy; list order
// is whatever the server returned). It reports whether that default
// selection happened.
func (s *ContextStore) SetDocuments(docs []models.Document) (defaulted bool) {
	s.documents = docs
	if s.active.IsNone() && !s.explicit && len(docs) > 0 {
		s.active = DocumentContext(docs[0].ID)
		return true
	}
	return false
}

// SetFolders replaces the folder collection wholesale.
func (s *ContextStore) SetFolders(folders []models.Folder) {
	s.folders = folders
}

// AddFolder appends a newly created folder to the collection.
func (s *ContextStore) AddFolder(f models.Folder) {
	s.folders = append(s.folders, f)
}

// RemoveDocument drops the document from the collection. If it was the
// active selection, the context transitions to None; the report lets the
// caller invalidate dependent state.
func (s *ContextStore) RemoveDocument(id int) (wasActive bool) {
	for i, d := range s.documents {
		if d.ID == id {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			break
		}
	}
	if s.active == DocumentContext(id) {
		s.active = None()
		return true
	}
	return false
}

// RemoveFolder drops the folder from the collection, transitioning to None
// if it was active. The caller is responsible for refetching documents so
// that members of the deleted folder show as unassigned.
func (s *ContextStore) RemoveFolder(id int) (wasActive bool) {
	for i, f := range s.folders {
		if f.ID == id {
			s.folders = append(s.folders[:i], s.folders[i+1:]...)
			break
		}
	}
	if s.active == FolderContext(id) {
		s.active = None()
		return true
	}
	return false
}

// FindDocument looks up a document in the local collection.
func (s *ContextStore) FindDocument(id int) (models.Document, bool) {
	for _, d := range s.documents {
		if d.ID == id {
			return d, true
		}
	}
	return models.Document{}, false
}

// FindFolder looks up a folder in the local collection.
func (s *ContextStore) FindFolder(id int) (models.Folder, bool) {
	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return models.Folder{}, false
}
