package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/config"
	"github.com/moneylens/backend/internal/extraction"
	"github.com/moneylens/backend/internal/insight"
	"github.com/moneylens/backend/internal/log"
	"github.com/moneylens/backend/internal/search"
	"github.com/moneylens/backend/internal/service"
	"github.com/moneylens/backend/internal/store"
)

func main() {
	cfg := config.Load()
	logger := log.New(log.ParseLevel(cfg.LogLevel), "server")

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var storeImpl store.Store
	var firebaseAuth *auth.FirebaseAuth

	if cfg.UseMemoryStore {
		logger.Info("using in-memory store for local development")
		storeImpl = store.NewMemoryStore()
		// Memory store always pairs with mock auth so local dev needs no
		// Firebase setup.
	} else {
		firestoreClient, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			logger.Error("create Firestore client", "error", err)
			os.Exit(1)
		}
		defer firestoreClient.Close()
		storeImpl = store.NewFirestoreStore(firestoreClient)

		if cfg.SkipAuth {
			logger.Warn("SKIP_AUTH enabled, using mock authentication with Firestore")
		} else {
			firebaseAuth, err = auth.NewFirebaseAuth(ctx)
			if err != nil {
				logger.Error("initialize Firebase Auth", "error", err)
				os.Exit(1)
			}
		}
	}

	var insights service.InsightGenerator
	if cfg.GeminiAPIKey != "" {
		insights = insight.NewGeminiClientWithBaseURL(cfg.GeminiAPIKey, cfg.GeminiBaseURL)
	} else {
		logger.Warn("GEMINI_API_KEY not set, insights disabled")
	}

	var extractor service.StatementProcessor
	if cfg.ExtractionURL != "" {
		var archiver *extraction.Archiver
		if cfg.StatementBucket != "" {
			storageClient, err := storage.NewClient(ctx)
			if err != nil {
				logger.Error("create storage client", "error", err)
				os.Exit(1)
			}
			defer storageClient.Close()
			archiver = extraction.NewArchiver(storageClient, cfg.StatementBucket)
		}
		extractor = extraction.NewService(
			extraction.NewClient(cfg.ExtractionURL, cfg.ExtractionTimeout),
			archiver,
			logger.WithComponent("extraction"),
		)
	} else {
		logger.Warn("EXTRACTION_URL not set, statement extraction disabled")
	}

	var searcher service.Searcher
	if cfg.AlgoliaAppID != "" {
		algolia, err := search.NewAlgoliaClient(search.Config{
			AppID:     cfg.AlgoliaAppID,
			APIKey:    cfg.AlgoliaAPIKey,
			IndexName: cfg.AlgoliaIndexName,
		})
		if err != nil {
			logger.Error("create Algolia client", "error", err)
			os.Exit(1)
		}
		searcher = algolia
	}

	var profiles service.ProfileProvider
	if firebaseAuth != nil {
		profiles = firebaseAuth
	}

	svc := service.NewFinanceService(storeImpl, insights, extractor, searcher, profiles,
		logger.WithComponent("service"))

	var authMiddleware func(http.Handler) http.Handler
	if firebaseAuth != nil {
		authMiddleware = auth.Middleware(firebaseAuth)
	} else {
		authMiddleware = auth.LocalDevMiddleware()
	}
	handler := authMiddleware(svc.Routes())

	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:1234",
			"http://localhost:3000",
			"http://127.0.0.1:1234",
			"https://moneylens.dev",
			"https://www.moneylens.dev",
			"https://*.vercel.app",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
			"X-Debug-Impersonate-User",
		},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(c.Handler(handler), &http2.Server{}),
	}

	logger.Info("starting server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
