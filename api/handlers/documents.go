package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anil29717/DeepDoc/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// uploadDir is where document bytes are stored, set from main.
var uploadDir = "./uploads"

// ConfigureStorage sets the upload directory and ensures it exists.
func ConfigureStorage(dir string) error {
	uploadDir = dir
	return os.MkdirAll(dir, 0755)
}

// ListDocuments returns the caller's documents, newest first.
func ListDocuments(c *gin.Context) {
	user := currentUser(c)

	docs := []repository.Document{}
	if err := repository.DB.Where("user_id = ?", user.ID).Order("created_at desc").Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// GetDocument returns a single document owned by the caller.
func GetDocument(c *gin.Context) {
	user := currentUser(c)

	var doc repository.Document
	if err := repository.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetDocumentStatus returns just the processing status.
func GetDocumentStatus(c *gin.Context) {
	user := currentUser(c)

	var doc repository.Document
	if err := repository.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": doc.ID, "status": doc.Status})
}

// DeleteDocument removes a document and its stored file.
func DeleteDocument(c *gin.Context) {
	user := currentUser(c)

	var doc repository.Document
	if err := repository.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&doc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Document not found"})
		return
	}

	if err := repository.DB.Delete(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete document"})
		return
	}
	if doc.StoredPath != "" {
		_ = os.Remove(doc.StoredPath)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// UploadDocument accepts a multipart file, optionally into a folder given by
// the folder_id query parameter, and schedules processing.
func UploadDocument(c *gin.Context) {
	user := currentUser(c)
	doc, ok := storeUpload(c, user.ID)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"status":      doc.Status,
	})
}

// storeUpload is shared by the regular and admin upload endpoints. It writes
// the error response itself and reports success via the bool.
func storeUpload(c *gin.Context, ownerID int) (*repository.Document, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "A file is required"})
		return nil, false
	}

	var folderID *int
	if raw := c.Query("folder_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid folder_id"})
			return nil, false
		}
		var count int64
		repository.DB.Model(&repository.Folder{}).Where("id = ? AND user_id = ?", id, ownerID).Count(&count)
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Folder not found"})
			return nil, false
		}
		folderID = &id
	}

	storedPath := filepath.Join(uploadDir, uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to store file"})
		return nil, false
	}

	doc := repository.Document{
		UserID:     ownerID,
		FolderID:   folderID,
		Filename:   filepath.Base(file.Filename),
		StoredPath: storedPath,
		Status:     "PROCESSING",
	}
	if err := repository.DB.Create(&doc).Error; err != nil {
		_ = os.Remove(storedPath)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to register document"})
		return nil, false
	}

	go processDocument(doc.ID)
	return &doc, true
}

// processDocument simulates the ingestion pipeline. The reference server has
// no real text extraction; it marks the document READY after a short delay so
// clients can observe the PROCESSING state.
func processDocument(id int) {
	time.Sleep(2 * time.Second)
	repository.DB.Model(&repository.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": "READY", "page_count": 1})
}
