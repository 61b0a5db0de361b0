package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assetforge/assetforge/pkg/build"
)

// orderCommand creates the order command, a dry run that resolves bundle
// ordering without writing anything.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		manifest    string
		noCache     bool
		warnMissing bool
	)

	cmd := &cobra.Command{
		Use:   "order [manifest]",
		Short: "Print the resolved bundle order without building",
		Long: `Print the resolved bundle order without building.

Bundles are assembled and sorted exactly as in a build, but no output
files are written. Use this to check how dependency declarations affect
load order before committing to a build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				manifest = args[0]
			}
			return c.runOrder(cmd, manifestPath(manifest), noCache, warnMissing)
		},
	}

	cmd.Flags().StringVarP(&manifest, "manifest", "m", "", "manifest file (default "+defaultManifest+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the remote asset cache")
	cmd.Flags().BoolVar(&warnMissing, "warn-missing", true, "warn about dependencies no bundle provides")

	return cmd
}

func (c *CLI) runOrder(cmd *cobra.Command, manifest string, noCache, warnMissing bool) error {
	ctx := cmd.Context()
	fetcher := c.newFetcher(ctx, noCache, "")
	runner := build.NewRunner(fetcher, c.Logger)

	res, err := runner.Execute(ctx, build.Options{
		ManifestPath: manifest,
		WarnMissing:  warnMissing,
		Logger:       c.Logger,
	})
	if err != nil {
		return err
	}

	printInfo("Load order for %s:", manifest)
	for i, art := range res.Artifacts {
		fmt.Printf("  %s %s\n", StyleDim.Render(fmt.Sprintf("%d.", i+1)), StyleValue.Render(art.Name))
		for _, mod := range art.Modules {
			printDetail("   %s", mod)
		}
	}
	return nil
}
