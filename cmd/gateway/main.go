package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/citizenvoice/assistant/internal/config"
	"github.com/citizenvoice/assistant/internal/handler"
	"github.com/citizenvoice/assistant/internal/middleware"
	"github.com/citizenvoice/assistant/internal/service/engine"
	"github.com/citizenvoice/assistant/internal/service/history"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load(os.Getenv("ASSISTANT_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	tokens, err := cfg.Gateway.TokenTable()
	if err != nil {
		log.Fatalf("failed to parse auth tokens: %v", err)
	}

	var histStore history.Store
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to redis at %s: %v", cfg.Redis.Addr, err)
		}
		histStore = history.NewRedisStore(rdb)
		log.Println("history store: redis")
	} else {
		histStore = history.NewMemoryStore()
		log.Println("history store: in-memory (set REDIS_ADDR for persistence)")
	}

	var responder engine.Responder = engine.StaticResponder{}
	if cfg.AI.Enabled() {
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			log.Printf("warning: failed to initialize chat model: %v", err)
			log.Println("continuing with the static responder")
		} else if llm, err := engine.NewLLMResponder(ctx, chatModel); err != nil {
			log.Printf("warning: failed to build LLM responder: %v", err)
			log.Println("continuing with the static responder")
		} else {
			responder = llm
			log.Println("LLM responder initialized successfully")
		}
	} else {
		log.Println("ARK credentials not configured, using the static responder")
	}

	router := handler.NewRouter(responder, engine.ToneSynthesizer{}, histStore, middleware.StaticAuthenticator(tokens))

	startServer(ctx, cfg.Gateway.ListenAddr(), router)
}

func startServer(ctx context.Context, addr string, router http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("CitizenVoice gateway listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
