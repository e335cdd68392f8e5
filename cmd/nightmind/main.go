package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/shanilnc/night-mind/internal/ai"
	"github.com/shanilnc/night-mind/internal/chat"
	"github.com/shanilnc/night-mind/internal/journal"
	"github.com/shanilnc/night-mind/internal/vault"
	"github.com/shanilnc/night-mind/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	if cfg.State.Passphrase == "" {
		logger.Fatal("State passphrase is required; set NIGHTMIND_PASSPHRASE or state.passphrase")
	}

	// Initialize journal storage
	var store journal.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory journal storage")
		store = journal.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL journal storage")
		dbConfig := journal.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = journal.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize journal storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize the encrypted state vault
	files, err := vault.NewFileStore(cfg.State.Dir)
	if err != nil {
		logger.Fatal("Failed to open state directory", zap.Error(err))
	}
	blobs, err := vault.NewEncryptedStore(files, cfg.State.Passphrase)
	if err != nil {
		logger.Fatal("Failed to initialize state encryption", zap.Error(err))
	}

	// Initialize the AI collaborators
	client := ai.NewOpenAIClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		time.Duration(cfg.OpenAI.CompletionTimeout)*time.Second,
		time.Duration(cfg.OpenAI.AnalysisTimeout)*time.Second,
		logger,
	)

	// Initialize the stores
	conversations, err := chat.NewStore(blobs, client, client, logger)
	if err != nil {
		logger.Fatal("Failed to load conversation state", zap.Error(err))
	}
	journalSvc := journal.NewService(store, logger)

	cli := newCLI(conversations, journalSvc, logger)
	if err := cli.Run(); err != nil {
		logger.Fatal("CLI error", zap.Error(err))
	}
}
