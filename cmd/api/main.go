package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelada-api/internal/config"
	"github.com/pelada-api/internal/domain"
	"github.com/pelada-api/internal/engine"
	"github.com/pelada-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/pelada-api/internal/infrastructure/jwt"
	s3infra "github.com/pelada-api/internal/infrastructure/s3"
	"github.com/pelada-api/internal/infrastructure/sns"
	"github.com/pelada-api/internal/infrastructure/whatsapp"
	"github.com/pelada-api/internal/pkg/id"
	transporthttp "github.com/pelada-api/internal/transport/http"
	"golang.org/x/crypto/bcrypt"
)

// seedAdminUser provisions the initial admin account from the environment.
// Existing accounts are never touched.
func seedAdminUser(ctx context.Context, cfg *config.Config, users *dynamo.UserRepo) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	if _, err := users.GetByUsername(ctx, cfg.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return users.Put(ctx, &domain.User{
		UserID:       id.New(),
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Enable:       1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid timezone %q: %v", cfg.Timezone, err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider is optional; login is unavailable without keys.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for report exports.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// WhatsApp gateway sender.
	waSender := whatsapp.NewSender(cfg)

	// SNS SMS fallback is optional.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	playerRepo := dynamo.NewPlayerRepo(dynamoClient, cfg.DynamoTables.Players)
	gameRepo := dynamo.NewGameRepo(dynamoClient, cfg.DynamoTables.Games)
	sessionRepo := dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions)
	configRepo := dynamo.NewConfigRepo(dynamoClient, cfg.DynamoTables.NotificationConfigs)
	sentRepo := dynamo.NewSentRepo(dynamoClient, cfg.DynamoTables.SentReminders)
	confirmationRepo := dynamo.NewConfirmationRepo(dynamoClient, cfg.DynamoTables.Confirmations)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	logger := slog.Default()

	if err := seedAdminUser(context.Background(), cfg, userRepo); err != nil {
		log.Printf("WARN: admin user seed failed: %v", err)
	}

	// Reminder engine.
	engineStore := dynamo.NewEngineStore(sessionRepo, gameRepo, configRepo, sentRepo, playerRepo, confirmationRepo, loc, logger)
	dispatcher := engine.NewDispatcher(engineStore, waSender, smsSender, logger)
	loop := engine.NewLoop(engineStore, dispatcher, cfg.PollInterval, cfg.TickTimeout, cfg.DispatchConcurrency, logger)

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(loopCtx)
	}()

	deps := &transporthttp.Deps{
		PlayerRepo:       playerRepo,
		GameRepo:         gameRepo,
		SessionRepo:      sessionRepo,
		ConfigRepo:       configRepo,
		SentRepo:         sentRepo,
		ConfirmationRepo: confirmationRepo,
		UserRepo:         userRepo,
		S3Store:          s3Store,
		JWTProvider:      jwtProvider,
		Location:         loc,
		WebhookSecret:    cfg.WebhookSecret,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	stopLoop()
	select {
	case <-loopDone:
	case <-time.After(cfg.TickTimeout):
		log.Println("WARN: reminder loop did not stop within tick timeout")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
