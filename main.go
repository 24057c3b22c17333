package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pasternak-karmel/google-clone/config/database"
	"github.com/pasternak-karmel/google-clone/internal/document/service"
	"github.com/pasternak-karmel/google-clone/internal/document/store"
	"github.com/pasternak-karmel/google-clone/internal/identity"
	"github.com/pasternak-karmel/google-clone/pkg/logger"
	"github.com/pasternak-karmel/google-clone/router"
	"github.com/pasternak-karmel/google-clone/socket"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	logger.Init()
	if err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		logger.Sugar.Fatal("JWT_SECRET environment variable not set")
	}

	directory := identity.NewDirectory()
	tokens := identity.NewTokenService(jwtSecret)

	// The store is in-memory by default; DATABASE_URL plugs in the
	// durable Postgres backend.
	var docStore store.Store
	if url := strings.TrimSpace(os.Getenv("DATABASE_URL")); url != "" {
		db, err := database.Connect(url)
		if err != nil {
			logger.Sugar.Fatalf("Could not connect to database after retries: %v", err)
		}
		defer db.Close()

		pg := store.NewPostgresStore(db, directory)
		if err := pg.EnsureSchema(); err != nil {
			logger.Sugar.Fatalf("Could not prepare database schema: %v", err)
		}
		docStore = pg
	} else {
		logger.Sugar.Info("No DATABASE_URL set, documents are kept in process memory only")
		docStore = store.NewMemoryStore(directory)
	}

	hub := socket.NewHub(tokens)
	go hub.Run()

	docService := service.NewDocumentService(docStore, directory, hub)
	authHandler := identity.NewAuthHandler(directory, tokens)

	handler := router.Setup(docService, authHandler, tokens, hub)

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	logger.Sugar.Infof("Go Backend listening on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
