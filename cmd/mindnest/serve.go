package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindnest/internal/config"
	"mindnest/internal/db"
	httpx "mindnest/internal/http"
	"mindnest/internal/jobs"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the stats worker",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		noWorker, _ := cmd.Flags().GetBool("no-worker")

		cfg, gdb, err := openDB()
		if err != nil {
			return err
		}

		deps := httpx.NewDeps(cfg, gdb)
		r := httpx.NewRouter(cfg, deps)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// worker
		if !noWorker {
			host, _ := os.Hostname()
			worker := &jobs.Worker{
				ID:       fmt.Sprintf("%s-%d", host, os.Getpid()),
				Repo:     deps.Jobs,
				Journals: deps.Journals,
				Interval: cfg.WorkerInterval,
				Location: cfg.Location(),
			}
			go worker.Run(ctx)
		}

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("listening on %s\n", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		// graceful shutdown
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
		case err := <-errCh:
			return err
		}

		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().Bool("no-worker", false, "do not start the stats worker")
}

// openDB loads config, connects and migrates.
func openDB() (config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("connect: %w", err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		return config.Config{}, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, gdb, nil
}
