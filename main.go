package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"loan-predictor/api"
	"loan-predictor/cli"
	"loan-predictor/config"
	"loan-predictor/logging"
	"loan-predictor/repository"
	"loan-predictor/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)
	defer logger.Sync()

	tokenPath, err := repository.DefaultTokenPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot resolve session path: %v\n", err)
		os.Exit(1)
	}
	tokens := repository.NewFileTokenStore(tokenPath)

	var cache repository.CacheRepository
	if cfg.Redis.Enabled {
		redisCache := repository.NewRedisCache(cfg.Redis.Addr, cfg.Redis.TTL)
		defer redisCache.Close()
		cache = redisCache
	} else {
		cache = repository.NewMemoryCache(cfg.Redis.TTL)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	sessions := service.NewSessionStore(client, tokens, logger)
	classifier := service.NewRiskClassifierFromConfig(cfg.Risk)
	predictor := service.NewPredictor(client, sessions, classifier, logger)
	history := service.NewHistoryService(client, sessions, cache, cfg.History.Limit, logger)

	app := &cli.App{
		Sessions:  sessions,
		Form:      service.NewFormModel(),
		Predictor: predictor,
		History:   history,
		Client:    client,
		Logger:    logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(app)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Debug("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
