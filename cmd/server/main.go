package main

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/oacc1974/Golmarcadmion/internal/database"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
)

func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// resolvePath makes a relative path relative to the directory holding config/env.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	dir, err := os.Getwd()
	if err != nil {
		return path
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "config", "env")); err == nil {
			return filepath.Join(dir, path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return path
		}
		dir = parent
	}
}

// listen serves app over TLS when configured, plain HTTP otherwise. It blocks.
func listen(app *fiber.App) error {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	if !cfg.EnableTLS || cfg.TLSCertFile == "" || cfg.TLSKeyFile == "" {
		log.WithFields(map[string]interface{}{"address": cfg.Address, "protocol": "HTTP"}).Info("Starting server with HTTP")
		return app.Listen(cfg.Address, fiber.ListenConfig{DisableStartupMessage: true})
	}

	certPath, keyPath := resolvePath(cfg.TLSCertFile), resolvePath(cfg.TLSKeyFile)
	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return fmt.Errorf("load TLS certificate: %w", err)
	}
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Address, err)
	}
	tlsListener := tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	log.WithFields(map[string]interface{}{"address": cfg.Address, "cert": certPath}).Info("Starting server with HTTPS/TLS")
	return app.Listener(tlsListener, fiber.ListenConfig{DisableStartupMessage: true})
}

func main() {
	initLogger()
	InitGlobal()
	InitRegistry()

	services := InitServices()
	InitDefaultData(services.users)
	app := InitFiberApp(services)

	log := logger.GetAppLogger()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down...")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	if err := listen(app); err != nil {
		log.WithError(err).Error("Server stopped with error")
	}

	services.Close()
	if err := database.CloseInstance(global.MongoDB_Session); err != nil {
		log.WithError(err).Warn("MongoDB disconnect failed")
	}
	log.Info("Server stopped")
}
