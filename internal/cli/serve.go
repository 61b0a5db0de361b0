package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/assetforge/assetforge/internal/server"
	"github.com/assetforge/assetforge/pkg/build"
)

// serveCommand creates the serve command for local development.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		manifest  string
		addr      string
		noCache   bool
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve [manifest]",
		Short: "Build bundles and serve them over HTTP",
		Long: `Build bundles and serve them over HTTP.

The server exposes each bundle under /bundles/{name} and an index page
at / that includes every bundle in dependency order. Bundles are built
once at startup; restart the server to pick up manifest changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				manifest = args[0]
			}
			return c.runServe(cmd, manifestPath(manifest), addr, noCache, redisAddr)
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "manifest file (default "+defaultManifest+")")
	cmd.Flags().StringVarP(&addr, "addr", "a", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote asset cache")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the remote asset cache (host:port)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, manifest, addr string, noCache bool, redisAddr string) error {
	ctx := cmd.Context()

	fetcher := c.newFetcher(ctx, noCache, redisAddr)
	runner := build.NewRunner(fetcher, c.Logger)

	spin := startSpinner(ctx, fmt.Sprintf("Building %s...", manifest))
	res, err := runner.Execute(ctx, build.Options{
		ManifestPath: manifest,
		WarnMissing:  true,
		Logger:       c.Logger,
	})
	if err != nil {
		spin.stopError("Build failed")
		return err
	}
	spin.stopSuccess("Built %d bundles", res.Stats.BundleCount)

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(res, c.Logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	printInfo("Serving on http://%s", addr)
	printLink(fmt.Sprintf("http://%s/", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
