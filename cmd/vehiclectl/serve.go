package main

import (
	"context"
	"errors"
	"time"

	"vehicle-configurator/internal/api"
	"vehicle-configurator/internal/configurator"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configurator HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, cat, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			if port != "" {
				cfg.Port = port
			}

			ctx := cmd.Context()
			m := configurator.NewManager(cat, log.Logger, configurator.Options{Width: cfg.RenderWidth, Height: cfg.RenderHeight, CacheDir: cfg.CacheDir}, cfg.SessionTTL)
			defer m.Close()
			go m.Run(ctx)

			app := api.New(m, log.Logger, api.Config{
				ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
				AccessLog:    cfg.Development(),
			})

			errc := make(chan error, 1)
			go func() {
				addr := ":" + cfg.Port
				log.Info("starting configurator API", zap.String("addr", addr), zap.String("env", cfg.Environment))
				errc <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down server")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := app.ShutdownWithContext(sctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			log.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Listen port (default: PORT or 3000)")
	return cmd
}
