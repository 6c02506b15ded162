package models

import "time"

// DocumentStatus tracks server-side processing of an uploaded document.
type DocumentStatus string

const (
	StatusProcessing DocumentStatus = "PROCESSING"
	StatusReady      DocumentStatus = "READY"
	StatusFailed     DocumentStatus = "FAILED"
)

// Document represents an uploaded document in the system.
// Documents are created server-side on upload and only ever mutated by
// refetching; status transitions (PROCESSING -> READY) happen on the server.
type Document struct {
	ID        int            `json:"id"`
	UserID    int            `json:"user_id,omitempty"`
	FolderID  *int           `json:"folder_id"`
	Filename  string         `json:"filename"`
	PageCount int            `json:"page_count"`
	Status    DocumentStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// InFolder reports whether the document is assigned to the given folder.
func (d *Document) InFolder(folderID int) bool {
	return d.FolderID != nil && *d.FolderID == folderID
}

// Folder groups documents for multi-file conversations. Deleting a folder
// does not delete its documents; they become unassigned.
type Folder struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
)

// Message is one entry in a conversation transcript.
type Message struct {
	ID             int       `json:"id,omitempty"`
	ConversationID int       `json:"conversation_id,omitempty"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// User represents an account on the backend.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
