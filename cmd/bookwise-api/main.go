package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	httpadapter "github.com/dmoretti/bookwise-agent/internal/adapters/http"
	"github.com/dmoretti/bookwise-agent/internal/adapters/llm"
	firestorestore "github.com/dmoretti/bookwise-agent/internal/adapters/storage/firestore"
	memstore "github.com/dmoretti/bookwise-agent/internal/adapters/storage/memory"
	"github.com/dmoretti/bookwise-agent/internal/app/conversation"
	"github.com/dmoretti/bookwise-agent/internal/config"
	"github.com/dmoretti/bookwise-agent/internal/domain"
)

func main() {
	ctx := context.Background()

	// .env is optional, real env vars win.
	_ = godotenv.Load()

	cfg := config.Load()

	var (
		llmClient domain.LLMClient
		err       error
	)

	if cfg.UseMockLLM {
		log.Println("[LLM] Using MOCK LLM client")
		llmClient = llm.NewMockLLM()
	} else {
		log.Println("[LLM] Using Vertex genai client")
		llmClient, err = llm.NewGenAIClient(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing genai client: %v", err)
		}
	}

	var sessionStore domain.SessionStore
	var messageStore domain.MessageStore

	switch cfg.StorageBackend {
	case "firestore":
		if cfg.GCPProjectID == "" {
			log.Fatal("BOOKWISE_GCP_PROJECT is required for the Firestore storage backend")
		}

		log.Printf("[STORE] Using Firestore storage (project=%s)", cfg.GCPProjectID)
		fsStore, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}

		// 1 store, implements 2 interfaces
		sessionStore = fsStore
		messageStore = fsStore

	default:
		log.Println("[STORE] Using in-memory storage")
		sessionStore = memstore.NewSessionStore()
		messageStore = memstore.NewMessageStore()
	}

	svc := conversation.NewService(llm.NewGateway(llmClient), sessionStore, messageStore)

	handler := httpadapter.NewServer(svc)

	addr := ":" + cfg.Port
	log.Println("Bookwise API listening on", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
