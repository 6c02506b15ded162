package handlers

import (
	"net/http"
	"strconv"

	"github.com/anil29717/DeepDoc/repository"
	"github.com/gin-gonic/gin"
)

// AdminListUsers returns every account.
func AdminListUsers(c *gin.Context) {
	users := []repository.User{}
	if err := repository.DB.Order("id asc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// UserStatusInput DTO for activating/deactivating an account
type UserStatusInput struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AdminSetUserStatus activates or deactivates an account. Admins cannot
// deactivate themselves.
func AdminSetUserStatus(c *gin.Context) {
	admin := currentUser(c)

	var input UserStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user repository.User
	if err := repository.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	if user.ID == admin.ID && !*input.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "You cannot deactivate your own account"})
		return
	}

	if err := repository.DB.Model(&user).Update("is_active", *input.IsActive).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// AdminListDocuments returns every document across all accounts.
func AdminListDocuments(c *gin.Context) {
	docs := []repository.Document{}
	if err := repository.DB.Order("created_at desc").Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// AdminUploadForUser uploads a document owned by another account. The target
// user id comes as a form field alongside the file.
func AdminUploadForUser(c *gin.Context) {
	raw := c.PostForm("user_id")
	userID, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "A valid user_id form field is required"})
		return
	}

	var count int64
	repository.DB.Model(&repository.User{}).Where("id = ?", userID).Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}

	doc, ok := storeUpload(c, userID)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, doc)
}
