// Package handlers implements the gin handlers for the deepdocd reference
// server. Error bodies use {"detail": ...} to match the wire format the CLI
// expects.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/anil29717/DeepDoc/repository"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Signing material, set once from main before the router starts.
var (
	jwtSecret []byte
	tokenTTL  time.Duration
)

// ConfigureAuth sets the token signing secret and lifetime.
func ConfigureAuth(secret string, ttl time.Duration) {
	jwtSecret = []byte(secret)
	tokenTTL = ttl
}

// SignupInput DTO for creating an account
type SignupInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// Signup creates a new account.
func Signup(c *gin.Context) {
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var count int64
	repository.DB.Model(&repository.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"detail": "An account with this email already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create account"})
		return
	}

	user := repository.User{
		Email:        email,
		Name:         input.Name,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := repository.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoginInput DTO for authenticating
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a signed bearer token.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var user repository.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := repository.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"detail": "This account has been deactivated"})
		return
	}

	token, err := signToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         user,
	})
}

func signToken(userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
