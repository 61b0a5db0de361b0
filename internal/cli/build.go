package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/assetforge/assetforge/pkg/build"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		manifest    string
		outDir      string
		noCache     bool
		redisAddr   string
		warnMissing bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "build [manifest]",
		Short: "Build all bundles from a manifest",
		Long: `Build all bundles from a manifest.

The build command reads a TOML manifest, assembles each bundle from its
assets and modules, orders the bundles against each other by their
dependencies, and writes the results to the output directory.

Remote assets are fetched once and cached locally; use --no-cache to
force a refetch, or --redis to share the cache between machines.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				manifest = args[0]
			}
			return c.runBuild(cmd, buildParams{
				manifest:    manifestPath(manifest),
				outDir:      outDir,
				noCache:     noCache,
				redisAddr:   redisAddr,
				warnMissing: warnMissing,
				interactive: interactive,
			})
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "manifest file (default "+defaultManifest+")")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (overrides manifest)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote asset cache")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address for the remote asset cache (host:port)")
	cmd.Flags().BoolVar(&warnMissing, "warn-missing", true, "warn about dependencies no bundle provides")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "inspect built bundles interactively")

	return cmd
}

type buildParams struct {
	manifest    string
	outDir      string
	noCache     bool
	redisAddr   string
	warnMissing bool
	interactive bool
}

// runBuild executes the build pipeline and writes artifacts.
func (c *CLI) runBuild(cmd *cobra.Command, p buildParams) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	fetcher := c.newFetcher(ctx, p.noCache, p.redisAddr)
	runner := build.NewRunner(fetcher, c.Logger)

	spin := startSpinner(ctx, fmt.Sprintf("Building %s...", p.manifest))
	res, err := runner.Execute(ctx, build.Options{
		ManifestPath: p.manifest,
		OutDir:       p.outDir,
		WarnMissing:  p.warnMissing,
		Logger:       c.Logger,
	})
	if err != nil {
		spin.stopError("Build failed")
		return err
	}
	if err := runner.WriteArtifacts(res); err != nil {
		spin.stopError("Build failed")
		return fmt.Errorf("write artifacts: %w", err)
	}
	spin.stopSuccess("Built %d bundles", res.Stats.BundleCount)

	for _, name := range res.Order {
		printFile(filepath.Join(res.OutDir, name))
	}
	printStats(res.Stats.BundleCount, res.Stats.AssetCount, res.Stats.ModuleCount)
	prog.done(fmt.Sprintf("Build %s complete", res.ID))

	if p.interactive {
		return c.inspectResult(res)
	}
	return nil
}

// inspectResult opens the interactive bundle browser on a build result.
func (c *CLI) inspectResult(res *build.Result) error {
	model := newBundleListModel(res)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("interactive mode: %w", err)
	}
	if m, ok := final.(bundleListModel); ok && m.selected != nil {
		fmt.Println(string(m.selected.Content))
	}
	return nil
}
