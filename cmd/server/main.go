package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"todo-service/internal/config"
	"todo-service/internal/logger"
	"todo-service/internal/server"
)

func main() {
	configFile := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	// Загружаем .env и конфигурацию из файла
	appConfig, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Error initializing config: %v", err)
	}

	appLog := logger.New(appConfig.Logger)

	srv, err := server.NewServer(appConfig, appLog)
	if err != nil {
		appLog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Инициализация компонентов (DI): Repository → Service → Handler
	if err := srv.Initialize(context.Background()); err != nil {
		appLog.Error("failed to initialize server", "error", err)
		_ = srv.Shutdown()
		os.Exit(1)
	}

	// Канал для graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := srv.Start()

	// Ожидание сигнала или ошибки
	exitCode := 0
	select {
	case err := <-errChan:
		appLog.Error("server error", "error", err)
		exitCode = 1
	case sig := <-sigChan:
		appLog.Info("received signal, starting graceful shutdown", "signal", sig.String())
	}

	if err := srv.Shutdown(); err != nil {
		appLog.Error("shutdown error", "error", err)
		exitCode = 1
	}

	appLog.Info("todo service stopped")
	os.Exit(exitCode)
}
