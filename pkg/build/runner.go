// Package build implements the manifest-to-artifact pipeline for assetforge.
//
// The pipeline has three stages:
//
//  1. Assemble: load the manifest and populate bundles with assets and modules
//  2. Order: sort the bundles against each other through the resolver
//  3. Materialize: render each bundle's concatenated content
//
// By centralizing this logic, the CLI and the server share identical
// behavior. The runner itself holds no per-build state and can be reused.
package build

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/assetforge/assetforge/pkg/asset"
	"github.com/assetforge/assetforge/pkg/errors"
	"github.com/assetforge/assetforge/pkg/fetch"
	"github.com/assetforge/assetforge/pkg/manifest"
	"github.com/assetforge/assetforge/pkg/resolve"
)

// Options configures a build.
type Options struct {
	// ManifestPath locates the TOML manifest.
	ManifestPath string

	// OutDir overrides the manifest's output directory when non-empty.
	OutDir string

	// WarnMissing logs a warning for dependencies that name no known
	// bundle or module.
	WarnMissing bool

	// Logger receives progress output. Defaults to a discarding logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.ManifestPath == "" {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Artifact is one built bundle.
type Artifact struct {
	Name    string   // bundle file name
	Modules []string // contained module names, in resolved order
	Content []byte
}

// Stats contains build statistics.
type Stats struct {
	BundleCount int
	AssetCount  int
	ModuleCount int

	AssembleTime    time.Duration
	OrderTime       time.Duration
	MaterializeTime time.Duration
}

// Result contains the outputs of a build run.
type Result struct {
	// ID uniquely identifies this build.
	ID string

	// Order lists bundle names in resolved dependency order.
	Order []string

	// Artifacts holds the rendered bundles, in Order.
	Artifacts []Artifact

	// OutDir is the directory artifacts are written to.
	OutDir string

	Stats Stats
}

// Artifact returns the artifact with the given name, or nil.
func (r *Result) Artifact(name string) *Artifact {
	for i := range r.Artifacts {
		if r.Artifacts[i].Name == name {
			return &r.Artifacts[i]
		}
	}
	return nil
}

// Runner executes builds. The fetcher is used for remote assets; pass a
// caching fetcher to share fetched content across builds.
type Runner struct {
	fetcher fetch.TextFetcher
	logger  *log.Logger
}

// NewRunner creates a build runner. A nil fetcher falls back to a plain
// client; a nil logger discards output.
func NewRunner(fetcher fetch.TextFetcher, logger *log.Logger) *Runner {
	if fetcher == nil {
		fetcher = fetch.NewClient()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{fetcher: fetcher, logger: logger}
}

// Execute runs the full pipeline: assemble, order, materialize.
// It does not touch the output directory; see [Runner.WriteArtifacts].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	res := &Result{ID: uuid.NewString()}

	start := time.Now()
	m, err := manifest.Load(opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	bundles, err := r.assemble(m)
	if err != nil {
		return nil, err
	}
	res.Stats.AssembleTime = time.Since(start)
	res.OutDir = m.OutDir()
	if opts.OutDir != "" {
		res.OutDir = opts.OutDir
	}
	logger.Debug("assembled bundles", "count", len(bundles), "build", res.ID)

	start = time.Now()
	var solveOpts []resolve.Option
	if opts.WarnMissing {
		solveOpts = append(solveOpts, resolve.WithMissingWarnings(logger))
	}
	ordered, err := resolve.Solve(bundles, solveOpts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCircularDependency, err, "ordering bundles")
	}
	res.Stats.OrderTime = time.Since(start)

	start = time.Now()
	for _, b := range ordered {
		content, err := b.Content(ctx)
		if err != nil {
			return nil, err
		}
		mods, _ := b.Modules()
		modNames := make([]string, len(mods))
		for i, m := range mods {
			modNames[i] = m.Name()
		}

		res.Order = append(res.Order, b.Name())
		res.Artifacts = append(res.Artifacts, Artifact{
			Name:    b.Name(),
			Modules: modNames,
			Content: []byte(content),
		})
		res.Stats.AssetCount += len(b.Assets())
		res.Stats.ModuleCount += len(mods)
	}
	res.Stats.BundleCount = len(ordered)
	res.Stats.MaterializeTime = time.Since(start)

	logger.Debug("materialized bundles",
		"bundles", res.Stats.BundleCount,
		"assets", res.Stats.AssetCount,
		"modules", res.Stats.ModuleCount)
	return res, nil
}

// WriteArtifacts writes every artifact to the result's output directory,
// creating it if needed.
func (r *Runner) WriteArtifacts(res *Result) error {
	if err := os.MkdirAll(res.OutDir, 0755); err != nil {
		return err
	}
	for _, a := range res.Artifacts {
		path := filepath.Join(res.OutDir, a.Name)
		if err := os.WriteFile(path, a.Content, 0644); err != nil {
			return err
		}
		r.logger.Debug("wrote artifact", "path", path, "bytes", len(a.Content))
	}
	return nil
}

// assemble turns manifest specs into populated bundles.
func (r *Runner) assemble(m *manifest.Manifest) ([]*asset.Bundle, error) {
	bundles := make([]*asset.Bundle, 0, len(m.Bundles))
	for _, spec := range m.Bundles {
		b, err := asset.NewBundle(spec.Name)
		if err != nil {
			return nil, err
		}
		for _, as := range spec.Assets {
			a, err := r.buildAsset(m, as)
			if err != nil {
				return nil, err
			}
			if err := b.AddAsset(a); err != nil {
				return nil, err
			}
		}
		for _, ms := range spec.Modules {
			if err := b.AddModule(manifest.NewFileModule(ms, m.Dir)); err != nil {
				return nil, err
			}
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

func (r *Runner) buildAsset(m *manifest.Manifest, spec manifest.AssetSpec) (*asset.Asset, error) {
	switch {
	case spec.URL != "":
		return asset.New(spec.URL, asset.WithFetcher(r.fetcher))
	case spec.Inline != "":
		return asset.New(spec.Name, asset.WithLiteral(spec.Inline))
	default:
		path := m.Resolve(spec.File)
		return asset.New(spec.Name, asset.WithFunc(func() (string, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			return string(data), nil
		}))
	}
}
