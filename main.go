package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tasktracker/internal/config"
	"tasktracker/internal/console"
	"tasktracker/internal/handlers"
	"tasktracker/internal/journal"
	"tasktracker/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "tasktracker",
		Short:         "Personal task tracker with a priority queue and undo/redo",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: user config dir)")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(consoleCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			s := store.NewTaskStore(cfg.StoreOptions())

			var j handlers.Journal
			if cfg.Journal {
				sj, err := journal.Open(journal.MemoryDSN)
				if err != nil {
					return fmt.Errorf("open journal: %w", err)
				}
				defer sj.Close()
				j = sj
			}

			h := handlers.New(s, j)

			r := chi.NewRouter()
			r.Use(middleware.Logger)
			r.Use(middleware.Recoverer)
			r.Use(middleware.Compress(5))
			h.Routes(r)

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Port),
				Handler: r,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.WithFields(log.Fields{
					"port":          cfg.Port,
					"history_limit": cfg.HistoryLimit,
					"journal":       cfg.Journal,
				}).Infof("Starting server on http://localhost:%d", cfg.Port)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && err != http.ErrServerClosed {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
				log.Info("Shutting down server")
				return srv.Shutdown(context.Background())
			}
		},
	}

	cmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides config)")

	return cmd
}

func consoleCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the interactive task menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			s := store.NewTaskStore(cfg.StoreOptions())
			c := console.New(s, cmd.InOrStdin(), cmd.OutOrStdout())
			return c.Run(cmd.Context())
		},
	}
}

// loadConfig reads the config file and sets up logging.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		defaultPath, err := config.DefaultConfigPath()
		if err == nil {
			path = defaultPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	log.SetLevel(cfg.Level())
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return cfg, nil
}
