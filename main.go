package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"xunity-llm-translate-server/internal/config"
	"xunity-llm-translate-server/internal/logger"
	"xunity-llm-translate-server/internal/proxy"
)

var (
	configFile = flag.String("config", "config.ini", "Configuration file path")
	port       = flag.Int("port", 0, "Override listen port")
	version    = flag.Bool("version", false, "Show version information")

	// This will be set by build process
	Version = "dev"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("XUnity LLM Translate Server %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *port > 0 {
		cfg.Port = *port
	}

	appLogger, err := logger.NewLogger(logger.LogConfig{
		Level:        cfg.LogLevel,
		LogDirectory: cfg.LogDirectory,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	sink := logger.NewLogSink(appLogger)

	server, err := proxy.NewServer(cfg, *configFile, appLogger, sink)
	if err != nil {
		log.Fatalf("Failed to create translation server: %v", err)
	}

	// 配置文件变更时自动热重载
	watcher, err := config.WatchFile(*configFile, server.ApplyConfig, func(err error) {
		appLogger.Error("config reload failed", err)
	})
	if err != nil {
		appLogger.Error("config watcher unavailable", err)
	} else {
		defer watcher.Close()
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	fmt.Printf("\n=== XUnity LLM Translate Server %s ===\n", Version)
	fmt.Printf("Translation Endpoint: http://127.0.0.1:%d/?text=...\n", cfg.Port)
	fmt.Printf("Admin Interface: http://127.0.0.1:%d/admin/logs\n", cfg.Port)
	fmt.Printf("Configuration File: %s\n", *configFile)
	fmt.Printf("\nPress Ctrl+C to stop the server...\n\n")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	if err := server.Stop(); err != nil {
		log.Printf("Error stopping server: %v", err)
	}
	if err := appLogger.Close(); err != nil {
		log.Printf("Error closing logger: %v", err)
	}
}
