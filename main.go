// main.go
package main

import (
	"context"
	"log"
	"time"

	"food-ordering/cmd"
	"food-ordering/internal/data/repository"
	"food-ordering/internal/wire"
	"food-ordering/pkg/crypto"
	"food-ordering/pkg/database"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Field encryption, one codec for the whole process
	codec, err := crypto.NewCodec(config.Cipher.Algorithm, config.Cipher.Key, config.Cipher.IV)
	if err != nil {
		logger.Fatal("Invalid cipher configuration", zap.Error(err))
	}
	hasher := utils.NewPasswordHasher(config.Password.BcryptCost, config.Password.HashConcurrency)

	// Connect to database
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := database.InitDB(ctx, config.Database)
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.RunMigrations(config.Database.ConnString(), logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Initialize all repositories
	mapper := repository.NewUserMapper(codec, hasher)
	repos := repository.NewRepository(db, mapper, logger)

	tokens := utils.NewTokenManager(config.JWT.Secret, config.JWT.Expiry())

	// Wire all dependencies
	app := wire.Wiring(repos, tokens, hasher, config, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
