package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/trivia-bot/internal/config"
	"github.com/aliskhannn/trivia-bot/internal/delivery/telegram"
	"github.com/aliskhannn/trivia-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres"
	"github.com/aliskhannn/trivia-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-bot/internal/logger"
	"github.com/aliskhannn/trivia-bot/internal/opentdb"
	"github.com/aliskhannn/trivia-bot/internal/service"
	"github.com/aliskhannn/trivia-bot/internal/storage"
)

var commands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "play", Description: "Start a quiz: /play [easy|medium|hard] [multiple|boolean] [category-id]"},
	{Command: "reset", Description: "Fetch a new set of questions"},
	{Command: "stop", Description: "Stop the current quiz"},
	{Command: "stats", Description: "Show your results"},
	{Command: "resetstats", Description: "Delete your results"},
	{Command: "help", Description: "Help"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Bot.Debug

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	client := opentdb.NewClient(
		cfg.Trivia.BaseURL,
		opentdb.WithHTTPClient(&http.Client{Timeout: cfg.Trivia.HTTPTimeout}),
		opentdb.WithLogger(lg.Named("opentdb")),
	)

	// Initialize repositories and services.
	userRepo := repository.NewUserRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	transactor := postgres.NewTransactor(pool)

	quizService := service.NewQuizService(client, storage.NewQuizStorage(), resultRepo, lg.Named("quiz"))
	userService := service.NewUserService(userRepo)
	statsService := service.NewStatsService(resultRepo)
	resetService := service.NewResetService(transactor)

	handler := telegram.NewHandler(
		bot,
		lg.Named("telegram"),
		quizService,
		userService,
		statsService,
		resetService,
		storage.NewMessageStorage(),
		telegram.Config{
			UpdateTimeout:  cfg.Bot.UpdateTimeout,
			DefaultOptions: entities.PlayOptions{Amount: cfg.Trivia.Amount},
		},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutdown signal received")
		bot.StopReceivingUpdates()
		return nil
	})

	return g.Wait()
}
