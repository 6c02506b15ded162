package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/anil29717/DeepDoc/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// AskInput DTO for a chat question. Exactly one of DocumentID/FolderID must
// be set.
type AskInput struct {
	Question   string `json:"question" binding:"required"`
	DocumentID *int   `json:"document_id"`
	FolderID   *int   `json:"folder_id"`
}

// Ask answers a question scoped to one document or one folder. The reference
// server has no retrieval pipeline; it produces a canned answer that cites
// the scoped filenames so clients can exercise the full flow.
func Ask(c *gin.Context) {
	user := currentUser(c)

	var input AskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if (input.DocumentID == nil) == (input.FolderID == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Provide exactly one of document_id or folder_id"})
		return
	}
	question := strings.TrimSpace(input.Question)
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Question cannot be empty"})
		return
	}

	sources, err := resolveSources(user.ID, input.DocumentID, input.FolderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		return
	}

	conv, err := findOrCreateConversation(user.ID, input.DocumentID, input.FolderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to open conversation"})
		return
	}

	userMsg := repository.Message{
		ConversationID: conv.ID,
		Role:           "user",
		Content:        question,
	}
	if err := repository.DB.Create(&userMsg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to record question"})
		return
	}

	answer := synthesizeAnswer(question, sources)
	sourcesJSON, _ := json.Marshal(sources)
	assistantMsg := repository.Message{
		ConversationID: conv.ID,
		Role:           "assistant",
		Content:        answer,
		Sources:        datatypes.JSON(sourcesJSON),
	}
	if err := repository.DB.Create(&assistantMsg).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to record answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":          answer,
		"sources":         sources,
		"conversation_id": conv.ID,
	})
}

// resolveSources returns the filenames in scope, verifying ownership.
func resolveSources(userID int, documentID, folderID *int) ([]string, error) {
	if documentID != nil {
		var doc repository.Document
		if err := repository.DB.Where("id = ? AND user_id = ?", *documentID, userID).First(&doc).Error; err != nil {
			return nil, fmt.Errorf("Document not found")
		}
		return []string{doc.Filename}, nil
	}

	var count int64
	repository.DB.Model(&repository.Folder{}).Where("id = ? AND user_id = ?", *folderID, userID).Count(&count)
	if count == 0 {
		return nil, fmt.Errorf("Folder not found")
	}

	docs := []repository.Document{}
	repository.DB.Where("folder_id = ?", *folderID).Find(&docs)
	names := make([]string, 0, len(docs))
	for _, d := range docs {
		names = append(names, d.Filename)
	}
	return names, nil
}

func findOrCreateConversation(userID int, documentID, folderID *int) (*repository.Conversation, error) {
	var conv repository.Conversation
	query := repository.DB.Where("user_id = ?", userID)
	if documentID != nil {
		query = query.Where("document_id = ?", *documentID)
	} else {
		query = query.Where("folder_id = ?", *folderID)
	}
	if err := query.First(&conv).Error; err == nil {
		return &conv, nil
	}

	conv = repository.Conversation{UserID: userID, DocumentID: documentID, FolderID: folderID}
	if err := repository.DB.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func synthesizeAnswer(question string, sources []string) string {
	if len(sources) == 0 {
		return "I could not find any documents in this folder to answer from. Upload a document first."
	}
	return fmt.Sprintf("Based on %s: this is a development answer to %q. "+
		"Run the production backend for real retrieval.",
		strings.Join(sources, ", "), question)
}

// History returns the transcript for a document (default) or folder
// (?is_folder=true), oldest first.
func History(c *gin.Context) {
	user := currentUser(c)

	id := c.Param("id")
	isFolder := c.Query("is_folder") == "true"

	var conv repository.Conversation
	query := repository.DB.Where("user_id = ?", user.ID)
	if isFolder {
		query = query.Where("folder_id = ?", id)
	} else {
		query = query.Where("document_id = ?", id)
	}
	if err := query.First(&conv).Error; err != nil {
		// No conversation yet is an empty transcript, not an error
		c.JSON(http.StatusOK, []repository.Message{})
		return
	}

	msgs := []repository.Message{}
	if err := repository.DB.Where("conversation_id = ?", conv.ID).Order("created_at asc, id asc").Find(&msgs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// FeedbackInput DTO for rating an assistant message
type FeedbackInput struct {
	MessageID int    `json:"message_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// Feedback records a rating for an assistant message the caller can see.
func Feedback(c *gin.Context) {
	user := currentUser(c)

	var input FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var msg repository.Message
	if err := repository.DB.First(&msg, input.MessageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Message not found"})
		return
	}
	var conv repository.Conversation
	if err := repository.DB.Where("id = ? AND user_id = ?", msg.ConversationID, user.ID).First(&conv).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Message not found"})
		return
	}

	fb := repository.Feedback{
		MessageID: input.MessageID,
		UserID:    user.ID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := repository.DB.Create(&fb).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to record feedback"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Feedback recorded"})
}
