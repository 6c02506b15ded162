package repository

import (
	"time"

	"gorm.io/datatypes"
)

// User is an account row. PasswordHash is bcrypt and never serialized.
type User struct {
	ID           int       `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	IsAdmin      bool      `json:"is_admin" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

// Folder groups documents. Deleting a folder leaves its documents in place
// with folder_id cleared.
type Folder struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"user_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is an uploaded file. StoredPath is the server-local location of
// the original bytes and is never exposed to clients.
type Document struct {
	ID         int       `json:"id" gorm:"primaryKey"`
	UserID     int       `json:"user_id" gorm:"index;not null"`
	FolderID   *int      `json:"folder_id" gorm:"index"`
	Filename   string    `json:"filename" gorm:"not null"`
	StoredPath string    `json:"-"`
	PageCount  int       `json:"page_count"`
	Status     string    `json:"status" gorm:"default:PROCESSING"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation ties a message thread to exactly one of a document or a
// folder, per user.
type Conversation struct {
	ID         int       `json:"id" gorm:"primaryKey"`
	UserID     int       `json:"user_id" gorm:"index;not null"`
	DocumentID *int      `json:"document_id" gorm:"index"`
	FolderID   *int      `json:"folder_id" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
}

// Message is one transcript entry. Sources is a JSON array of filenames the
// answer drew from; null for user messages.
type Message struct {
	ID             int            `json:"id" gorm:"primaryKey"`
	ConversationID int            `json:"conversation_id" gorm:"index;not null"`
	Role           string         `json:"role" gorm:"not null"`
	Content        string         `json:"content" gorm:"not null"`
	Sources        datatypes.JSON `json:"sources,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Feedback is a user rating on an assistant message.
type Feedback struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	MessageID int       `json:"message_id" gorm:"index;not null"`
	UserID    int       `json:"user_id" gorm:"index;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
