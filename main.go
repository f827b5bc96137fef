package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vetrina-catalogo/config"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	envLoaded := false
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envLoaded = godotenv.Overload(".env") == nil
	}

	root := newRootCommand(envLoaded)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(envLoaded bool) *cobra.Command {
	root := &cobra.Command{
		Use:           "vetrina",
		Short:         "Product catalog with image carousels, facet filters and a fullscreen viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serve := newServeCommand(envLoaded)
	root.AddCommand(
		serve,
		newRenderCommand(),
		newFacetsCommand(),
		newSnapshotCommand(),
	)
	// serving is the default action
	root.RunE = serve.RunE

	return root
}

// setup loads configuration and builds the logger every command shares
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, logger, nil
}
