package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vetrina-catalogo/app"
	"vetrina-catalogo/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(envLoaded bool) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if envLoaded {
				logger.Info("✓ Loaded environment variables from .env")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.Initialize(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if report := a.Load(ctx); report != nil {
				logger.Info("✓ Catalog ready",
					zap.Int("products", report.Accepted),
					zap.Int("quarantined", len(report.Quarantined)))
			}

			// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
			addr := "0.0.0.0:" + cfg.Server.Port
			srv := &http.Server{
				Addr:              addr,
				Handler:           a.Handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("Server starting", zap.String("addr", addr), zap.String("baseURL", cfg.Server.BaseURL))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				logger.Info("Shutting down server")
				return srv.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}
}

func newRenderCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the initial catalog page as HTML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			a, err := app.Initialize(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			a.Load(cmd.Context())

			return writeOutput(output, cmd.OutOrStdout(), func(w io.Writer) error {
				return a.Catalog.WritePage(w, true)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newFacetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List the catalog filters and how many products each one shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			a, err := app.Initialize(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()
			a.Load(cmd.Context())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILTER\tPRODUCTS")
			for _, fc := range service.CountFacets(a.Session.Products()) {
				fmt.Fprintf(tw, "%s\t%d\n", fc.Label, fc.Products)
			}
			return tw.Flush()
		},
	}
}

func newSnapshotCommand() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture the catalog served at the base URL as PNG or PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			a, err := app.Initialize(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.Snapshots.Capture(cmd.Context(), format)
			if err != nil {
				return err
			}
			if output == "" {
				output = "catalogo." + format
			}
			return writeOutput(output, cmd.OutOrStdout(), func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", service.SnapshotPNG, "snapshot format: png or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default catalogo.<format>)")
	return cmd
}

// writeOutput writes to path, or to stdout when path is empty or "-"
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
