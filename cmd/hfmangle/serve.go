package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Laplace1814/honggfuzz/internal/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mutations over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := setupLogger(cfg)

			dict, err := loadDictionary(cfg.Input.Dictionary, logger)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Options{
				Mangle:      cfg.Mangle(),
				Dictionary:  dict,
				BodyLimit:   cfg.Server.BodyLimit,
				ReadTimeout: cfg.Server.ReadTimeout,
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				logger.Info("Shutting down")
				if err := srv.Shutdown(); err != nil {
					logger.Error("Shutdown failed", slog.Any("error", err))
				}
			}()

			return srv.Start(cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	return cmd
}
