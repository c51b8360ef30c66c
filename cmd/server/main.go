package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/gleeworld/approvals/internal/config"
	"github.com/gleeworld/approvals/internal/container"
	httpadapter "github.com/gleeworld/approvals/internal/interfaces/http"
	"github.com/gleeworld/approvals/pkg/utils"
)

func main() {
	// Local development credentials; absent in production where the
	// environment is set directly.
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting request approval service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	app, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Container shutdown error", zap.Error(err))
		}
	}()

	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			JWTSecret:    cfg.Auth.JWTSecret,
		},
		app.Services().Request,
		app.Services().Report,
		app.Engine(),
		kvLogger{logger.Sugar()},
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		cancel()
		<-serverErr
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// kvLogger adapts the sugared zap logger to the key-value Logger interface
// used by the HTTP adapter
type kvLogger struct {
	s *zap.SugaredLogger
}

func (l kvLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l kvLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}
