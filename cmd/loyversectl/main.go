// Command loyversectl runs Loyverse syncs and manages webhooks from the shell, using the
// same configuration and database as the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/oacc1974/Golmarcadmion/config"
	loyverserouter "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/router"
	posrouter "github.com/oacc1974/Golmarcadmion/internal/api/pos/router"
	"github.com/oacc1974/Golmarcadmion/internal/database"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/oacc1974/Golmarcadmion/internal/redisx"
	"github.com/spf13/cobra"
)

var Version = "dev"

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "loyversectl",
		Short:         "Loyverse sync and webhook administration",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "extra env file loaded after config/env/<GO_ENV>.env")

	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(webhooksCmd())
	rootCmd.AddCommand(eventsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, connects MongoDB and builds the integration services.
// The returned func releases the connections.
func bootstrap(ctx context.Context) (*loyverserouter.Services, func(), error) {
	if err := logger.Init(nil); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	global.InitValidator()

	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg := config.NewConfig(files...)
	if cfg == nil {
		return nil, nil, fmt.Errorf("invalid configuration")
	}
	global.MongoDB_ServerConfig = cfg

	client, err := database.GetInstance(cfg)
	if err != nil {
		return nil, nil, err
	}
	global.MongoDB_Session = client
	closers := []func() error{func() error { return database.CloseInstance(client) }}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	if err := database.RegisterCollections(client, cfg.MongoDB_DBName); err != nil {
		cleanup()
		return nil, nil, err
	}
	pos, err := posrouter.NewServices()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	var locker redisx.Locker
	if cfg.RedisAddress != "" {
		rl, err := redisx.Connect(ctx, cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			logger.GetAppLogger().WithError(err).Warn("🔒 [REDIS] Unavailable, running without a distributed lock")
		} else {
			locker = rl
			closers = append(closers, rl.Close)
		}
	}

	services, err := loyverserouter.NewServices(cfg, pos, locker)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return services, cleanup, nil
}

// withServices runs fn with bootstrapped services.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, s *loyverserouter.Services) error) error {
	ctx := cmd.Context()
	s, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(ctx, s)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
