package main

import (
	"fmt"
	"log"
	"time"

	"github.com/anil29717/DeepDoc/api/handlers"
	"github.com/anil29717/DeepDoc/config"
	"github.com/anil29717/DeepDoc/repository"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := repository.Connect(cfg); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := repository.SeedAdmin(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}

	handlers.ConfigureAuth(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err := handlers.ConfigureStorage(cfg.Storage.UploadDir); err != nil {
		log.Fatalf("failed to prepare upload dir: %v", err)
	}

	r := gin.Default()

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		api.POST("/auth/signup", handlers.Signup)
		api.POST("/auth/login", handlers.Login)

		authed := api.Group("", handlers.AuthRequired())
		{
			authed.GET("/documents", handlers.ListDocuments)
			authed.POST("/documents/upload", handlers.UploadDocument)
			authed.GET("/documents/:id", handlers.GetDocument)
			authed.GET("/documents/:id/status", handlers.GetDocumentStatus)
			authed.DELETE("/documents/:id", handlers.DeleteDocument)

			authed.GET("/folders", handlers.ListFolders)
			authed.POST("/folders", handlers.CreateFolder)
			authed.GET("/folders/:id/documents", handlers.ListFolderDocuments)
			authed.DELETE("/folders/:id", handlers.DeleteFolder)

			authed.POST("/chat/ask", handlers.Ask)
			authed.GET("/chat/history/:id", handlers.History)
			authed.POST("/chat/feedback", handlers.Feedback)

			admin := authed.Group("/admin", handlers.AdminRequired())
			{
				admin.GET("/users", handlers.AdminListUsers)
				admin.PATCH("/users/:id/status", handlers.AdminSetUserStatus)
				admin.GET("/documents", handlers.AdminListDocuments)
				admin.POST("/upload-for-user", handlers.AdminUploadForUser)
			}
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
