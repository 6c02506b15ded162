package session

import (
	"github.com/anil29717/DeepDoc/internal/api"
	"github.com/anil29717/DeepDoc/internal/models"
)

// Backend is the slice of the DeepDoc API the session manager depends on.
// *api.Client satisfies it; tests substitute an in-memory fake.
type Backend interface {
	ListDocuments() ([]models.Document, error)
	ListFolders() ([]models.Folder, error)
	CreateFolder(name string) (*models.Folder, error)
	DeleteFolder(id int) error
	DeleteDocument(id int) error
	UploadDocument(path string, folderID *int) (*models.Document, error)
	History(id int, isFolder bool) ([]models.Message, error)
	Ask(question string, documentID, folderID *int) (*api.AskResponse, error)
}

var _ Backend = (*api.Client)(nil)
