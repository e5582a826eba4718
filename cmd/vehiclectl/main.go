// vehiclectl - headless vehicle configurator.
//
// Serves the quote and capture API, renders builds to PNG, prices selections and dumps
// the option catalog, all without a display.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vehicle-configurator/internal/catalog"
	"vehicle-configurator/internal/config"
	"vehicle-configurator/internal/customization"
	"vehicle-configurator/internal/env"
	"vehicle-configurator/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	catalogPath string
	logLevel    string
)

func main() {
	cmd := &cobra.Command{
		Use:   "vehiclectl",
		Short: "Headless vehicle configurator",
		Long: `vehiclectl - headless vehicle configurator

Commands:
  serve    HTTP API for sessions, quotes and captures
  render   Render a build to PNG
  quote    Price a build
  catalog  Print the option catalog

Settings come from the environment (and .env): PORT, ENV, LOG_LEVEL, LOG_FORMAT,
CATALOG_PATH, RENDER_WIDTH, RENDER_HEIGHT, SESSION_TTL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.Load(".env")
		},
	}
	cmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog YAML file (default: embedded, or CATALOG_PATH)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (default: LOG_LEVEL or info)")

	cmd.AddCommand(serveCmd(), renderCmd(), quoteCmd(), catalogCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// setup loads config, the logger and the catalog shared by every subcommand. The logger
// writes to stderr so command output on stdout stays clean.
func setup() (*config.Config, *logger.Logger, *catalog.Catalog, error) {
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OutputPath:  "stderr",
		Development: cfg.Development(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	path := catalogPath
	if path == "" {
		path = cfg.CatalogPath
	}
	cat, err := catalog.LoadOrDefault(path, log.Logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Debug("catalog ready", zap.String("path", path))
	return cfg, log, cat, nil
}

// selectionFlags registers one flag per selection field and returns a function that
// builds an Update from the flags the user actually set.
func selectionFlags(fs *pflag.FlagSet) func() customization.Update {
	var u struct {
		color, wheel, headlight, bumper, spoiler, decal, ppf, brand, model string
	}
	fs.StringVar(&u.color, "color", "", "Body color (#rrggbb)")
	fs.StringVar(&u.wheel, "wheel", "", "Wheel variant")
	fs.StringVar(&u.headlight, "headlight", "", "Headlight variant")
	fs.StringVar(&u.bumper, "bumper", "", "Bumper variant")
	fs.StringVar(&u.spoiler, "spoiler", "", "Spoiler variant")
	fs.StringVar(&u.decal, "decal", "", "Decal variant")
	fs.StringVar(&u.ppf, "ppf", "", "Paint protection variant")
	fs.StringVar(&u.brand, "brand", "", "Brand label")
	fs.StringVar(&u.model, "model", "", "Model label")

	return func() customization.Update {
		var out customization.Update
		set := func(name string, v *string, dst **string) {
			if fs.Changed(name) {
				*dst = v
			}
		}
		set("color", &u.color, &out.BodyColor)
		set("wheel", &u.wheel, &out.Wheel)
		set("headlight", &u.headlight, &out.Headlight)
		set("bumper", &u.bumper, &out.Bumper)
		set("spoiler", &u.spoiler, &out.Spoiler)
		set("decal", &u.decal, &out.Decal)
		set("ppf", &u.ppf, &out.PaintProtection)
		set("brand", &u.brand, &out.Brand)
		set("model", &u.model, &out.Model)
		return out
	}
}
