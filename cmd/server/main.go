package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/api"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/chat"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/config"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/db"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/google"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/index"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/ollama"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/repository"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/services"
	"github.com/RamyaVenkatesh/AI-Knowledge-Base-Agent/internal/telemetry"
)

func main() {
	log.Println("🚀 Starting AI Knowledge Base Agent...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Initialize Jaeger tracing first so all operations are traced
	jaegerShutdown, err := telemetry.InitJaeger("knowledge-agent", cfg.JaegerEndpoint)
	if err != nil {
		log.Printf("⚠️  Failed to initialize Jaeger: %v (continuing without tracing)", err)
		jaegerShutdown = func(ctx context.Context) error { return nil }
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := jaegerShutdown(ctx); err != nil {
			log.Printf("⚠️  Failed to shutdown Jaeger: %v", err)
		}
	}()

	// Initialize GORM database
	database, err := db.NewGorm(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Initialize Ollama client for generation and embeddings
	ollamaClient := ollama.NewClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaEmbedModel)
	log.Printf("✓ Ollama client initialized (model: %s, embeddings: %s)", cfg.OllamaModel, cfg.OllamaEmbedModel)

	// Initialize repository and vector index
	chunkRepo := repository.NewChunkRepository(database.DB)
	vectorIndex := index.New()

	// Start the rebuild scheduler and build the index from whatever is
	// already in the database
	indexer := services.NewIndexer(ollamaClient, chunkRepo, vectorIndex)
	indexer.Start()
	if err := indexer.RebuildNow(context.Background()); err != nil {
		log.Printf("⚠️  Initial index build failed: %v (retrying on next ingest)", err)
	}

	// Optional Google integration. When not configured the agent still
	// answers knowledge questions; calendar and email paths explain that
	// they are disabled.
	var calendarClient services.CalendarClient
	var emailClient services.EmailClient
	if cfg.GoogleEnabled() {
		ts, err := google.NewTokenSource(context.Background(), cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
		if err != nil {
			log.Printf("⚠️  Google integration disabled: %v", err)
		} else {
			calSvc, err := google.NewCalendarService(context.Background(), ts)
			if err != nil {
				log.Printf("⚠️  Calendar integration disabled: %v", err)
			} else {
				calendarClient = calSvc
				log.Println("✓ Google Calendar client initialized")
			}

			gmailSvc, err := google.NewGmailService(context.Background(), ts)
			if err != nil {
				log.Printf("⚠️  Gmail integration disabled: %v", err)
			} else {
				emailClient = gmailSvc
				log.Println("✓ Gmail client initialized")
			}
		}
	} else {
		log.Println("🔧 Google credentials not configured, calendar and email features disabled")
	}

	// Wire services
	ingestService := services.NewIngestService(chunkRepo, indexer, cfg.ChunkSize, cfg.ChunkOverlap)
	retrievalService := services.NewRetrievalService(ollamaClient, vectorIndex, chunkRepo, cfg.RetrievalTopK)
	intentRouter := services.NewIntentRouter(ollamaClient)
	timeWindow := services.NewTimeWindowExtractor(ollamaClient)
	calendarOrch := services.NewCalendarOrchestrator(calendarClient, retrievalService)
	draftOrch := services.NewDraftOrchestrator(emailClient, retrievalService, ollamaClient)
	agentService := services.NewAgentService(
		intentRouter,
		timeWindow,
		calendarOrch,
		draftOrch,
		retrievalService,
		ollamaClient,
		cfg.ContextExchanges,
	)

	// Chat sessions over WebSocket
	sessionManager := chat.NewSessionManager(cfg.SessionMaxTurns)
	sessionManager.Start()
	wsHandler := chat.NewWebSocketHandler(sessionManager, agentService)

	// Initialize handlers with dependency injection
	handler := api.NewHandler(ingestService, chunkRepo, retrievalService, agentService, wsHandler.HandleConnection)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // chat responses wait on the LLM
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://%s", addr)
		log.Printf("📚 API Endpoints:")
		log.Printf("   POST   /api/documents               - Add document to knowledge base")
		log.Printf("   GET    /api/documents               - List documents with stats")
		log.Printf("   POST   /api/documents/seed          - Load sample documents")
		log.Printf("   GET    /api/documents/:title/chunks - Inspect document chunks")
		log.Printf("   POST   /api/search                  - Semantic search")
		log.Printf("   POST   /api/chat                    - Chat with the agent")
		log.Printf("   GET    /api/health                  - Health check")
		log.Printf("   WS     /ws/chat                     - Interactive chat session")
		log.Println()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Shutting down server...")

	// Give the server 30 seconds to finish existing requests
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	// Stop the rebuild scheduler, waiting for an in-flight rebuild
	indexer.Shutdown()

	// Stop the chat session manager
	sessionManager.Shutdown()

	log.Println("✓ Server shutdown complete")
}
