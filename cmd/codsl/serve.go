package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"github.com/c360studio/codsl/config"
	"github.com/c360studio/codsl/llm"
	"github.com/c360studio/codsl/server"
	"github.com/c360studio/codsl/store"
	"github.com/c360studio/codsl/validator"
)

func serveCmd() *cobra.Command {
	var (
		configPath  string
		addr        string
		examplesDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the workbench HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if examplesDir != "" {
				cfg.Store.ExamplesDir = examplesDir
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&examplesDir, "examples-dir", "", "Examples directory (overrides config)")

	return cmd
}

func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	return config.NewLoader(slog.Default()).Load()
}

func serve(cfg *config.Config) error {
	logger := slog.Default()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	v := validator.New(buildLLMClient(cfg, logger), validator.WithLogger(logger))

	srv := server.New(st,
		server.WithLogger(logger),
		server.WithValidator(v),
		server.WithDefaultLevel(validator.Level(cfg.Validation.Level)),
	)

	logger.Info("Workbench ready",
		"version", Version,
		"addr", cfg.Server.Addr,
		"model", cfg.Model.Default)

	return srv.ListenAndServe(ctx, cfg.Server)
}

// openStore picks the example store backend: JetStream KV when a NATS
// URL is configured, the local file store otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.NATS.URL == "" {
		st, err := store.NewFileStore(cfg.Store.ExamplesDir, cfg.Store.WatchEnabled(),
			store.WithFileStoreLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("open example store: %w", err)
		}
		logger.Info("Using file example store", "dir", cfg.Store.ExamplesDir, "watch", cfg.Store.WatchEnabled())
		return st, func() { _ = st.Close() }, nil
	}

	nc, err := nats.Connect(cfg.NATS.URL, nats.Name(appName))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}

	st, err := store.NewKVStore(ctx, js, cfg.NATS.Bucket)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("open KV example store: %w", err)
	}
	logger.Info("Using JetStream example store", "url", cfg.NATS.URL, "bucket", cfg.NATS.Bucket)
	return st, func() { nc.Close() }, nil
}

func buildLLMClient(cfg *config.Config, logger *slog.Logger) *llm.Client {
	if llm.GetProvider(cfg.Model.Provider) == nil {
		logger.Warn("LLM provider not registered, semantic validation degrades to advisory output",
			"provider", cfg.Model.Provider)
		return nil
	}

	return llm.NewClient(llm.Endpoint{
		Provider: cfg.Model.Provider,
		URL:      cfg.Model.Endpoint,
		Model:    cfg.Model.Default,
	},
		llm.WithLogger(logger),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}),
	)
}
