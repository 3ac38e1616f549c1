package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gemini-chatter/internal/chat"
	"gemini-chatter/internal/config"
	"gemini-chatter/internal/history"
	"gemini-chatter/internal/llm"
	"gemini-chatter/internal/storage"
	"gemini-chatter/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	llmClient, err := llm.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}

	repo, err := storage.NewFileRepository(cfg.HistoryFilePath)
	if err != nil {
		log.Fatalf("failed to init history repo: %v", err)
	}

	svc := chat.NewService(history.NewManager(), repo, llmClient, cfg.LLMTimeout)
	if err := svc.LoadHistory(); err != nil {
		log.Printf("failed to load chat history: %v", err)
	}

	srv := web.New(svc, cfg.SessionSecret, cfg.Port)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Printf("shutting down")
		if err := srv.Stop(); err != nil {
			log.Printf("failed to stop server: %v", err)
		}
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
