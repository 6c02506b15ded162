package handlers

import (
	"net/http"
	"strings"

	"github.com/anil29717/DeepDoc/repository"
	"github.com/gin-gonic/gin"
)

// CreateFolderInput DTO for creating a folder
type CreateFolderInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateFolder creates a new folder for the caller.
func CreateFolder(c *gin.Context) {
	user := currentUser(c)

	var input CreateFolderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Folder name cannot be empty"})
		return
	}

	folder := repository.Folder{UserID: user.ID, Name: name}
	if err := repository.DB.Create(&folder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create folder"})
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// ListFolders returns the caller's folders.
func ListFolders(c *gin.Context) {
	user := currentUser(c)

	folders := []repository.Folder{}
	if err := repository.DB.Where("user_id = ?", user.ID).Order("created_at desc").Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list folders"})
		return
	}
	c.JSON(http.StatusOK, folders)
}

// ListFolderDocuments returns the documents assigned to one folder.
func ListFolderDocuments(c *gin.Context) {
	user := currentUser(c)

	var folder repository.Folder
	if err := repository.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&folder).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Folder not found"})
		return
	}

	docs := []repository.Document{}
	if err := repository.DB.Where("folder_id = ?", folder.ID).Order("created_at desc").Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list folder documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// DeleteFolder removes a folder. Its documents survive with folder_id
// cleared; there is deliberately no cascade.
func DeleteFolder(c *gin.Context) {
	user := currentUser(c)

	var folder repository.Folder
	if err := repository.DB.Where("id = ? AND user_id = ?", c.Param("id"), user.ID).First(&folder).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Folder not found"})
		return
	}

	if err := repository.DB.Model(&repository.Document{}).Where("folder_id = ?", folder.ID).
		Update("folder_id", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to unassign documents"})
		return
	}
	if err := repository.DB.Delete(&folder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete folder"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Folder deleted"})
}
