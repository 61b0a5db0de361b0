// Package asset models JS and CSS assets and bundles of them.
//
// An [Asset] is a named piece of textual content: an inline literal, a
// remote URL fetched on first use, or a function invoked on first use.
// A [Bundle] is itself an asset that aggregates plain assets and
// dependency-bearing modules; it keeps its module list ordered through
// [resolve.Solve] and exposes an aggregate dependency set so that bundles
// can be ordered relative to one another by the same resolver.
//
// Assets are immutable after construction except for the one-shot content
// cache. Bundles are mutable aggregates and are not safe for concurrent
// mutation; serialize AddAsset/AddModule calls externally.
package asset

import (
	"context"
	"strings"
	"sync"

	"github.com/assetforge/assetforge/pkg/errors"
	"github.com/assetforge/assetforge/pkg/fetch"
)

// Recognized content-type suffixes. Anything else is rejected at
// construction.
const (
	SuffixJS  = ".js"
	SuffixCSS = ".css"
)

// Provider is the capability shared by plain assets and bundles: a name
// plus lazily produced text content.
type Provider interface {
	// Name returns the file-like name, ending in .js or .css.
	Name() string
	// Content returns the materialized text. The first call may invoke a
	// source function or perform a network fetch; the result is cached.
	Content(ctx context.Context) (string, error)
}

// SourceFunc produces asset content on demand. It is invoked at most once;
// the result (or a first successful result, if it errors) is cached.
type SourceFunc func() (string, error)

// Option configures asset construction.
type Option func(*assetConfig)

type assetConfig struct {
	literal *string
	fn      SourceFunc
	fetcher fetch.TextFetcher
}

// WithLiteral sets inline literal content as the asset's source.
func WithLiteral(s string) Option {
	return func(c *assetConfig) { c.literal = &s }
}

// WithFunc sets a content-producing function as the asset's source.
func WithFunc(fn SourceFunc) Option {
	return func(c *assetConfig) { c.fn = fn }
}

// WithFetcher sets the fetcher used to materialize remote assets.
// Without it, remote assets use a plain [fetch.Client].
func WithFetcher(f fetch.TextFetcher) Option {
	return func(c *assetConfig) { c.fetcher = f }
}

// Asset is a single JS or CSS asset. Construct with [New]; the zero value
// is not usable. Name and source are immutable; the content cache
// transitions from pending to materialized exactly once.
type Asset struct {
	name    string
	url     string // set iff remote
	fn      SourceFunc
	fetcher fetch.TextFetcher

	mu           sync.Mutex
	materialized bool
	content      string
}

// New creates an asset. The name must end in .js or .css
// (case-insensitive).
//
// If name is itself an http:// or https:// URL, the asset is remote: its
// name becomes the last path segment of the URL and its content is fetched
// on first use. A remote name combined with an explicit literal or
// function source is an AMBIGUOUS_SOURCE construction error.
//
// Otherwise exactly one of [WithLiteral] or [WithFunc] must be given.
func New(name string, opts ...Option) (*Asset, error) {
	var cfg assetConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Asset{fetcher: cfg.fetcher}

	if fetch.IsURL(name) {
		if cfg.literal != nil || cfg.fn != nil {
			return nil, errors.New(errors.ErrCodeAmbiguousSource,
				"remote asset cannot have an explicit source: %s", name)
		}
		a.url = name
		segs := strings.Split(strings.ReplaceAll(name, `\`, "/"), "/")
		name = segs[len(segs)-1]
	} else {
		switch {
		case cfg.literal != nil && cfg.fn != nil:
			return nil, errors.New(errors.ErrCodeAmbiguousSource,
				"asset %s has both a literal and a function source", name)
		case cfg.literal != nil:
			a.materialized = true
			a.content = *cfg.literal
		case cfg.fn != nil:
			a.fn = cfg.fn
		default:
			return nil, errors.New(errors.ErrCodeMissingSource, "asset %s needs a source", name)
		}
	}

	if err := checkName(name); err != nil {
		return nil, err
	}
	a.name = name

	if a.url != "" && a.fetcher == nil {
		a.fetcher = fetch.NewClient()
	}
	return a, nil
}

func checkName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidName, "asset name must not be empty")
	}
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, SuffixJS) && !strings.HasSuffix(lower, SuffixCSS) {
		return errors.New(errors.ErrCodeInvalidSuffix, "asset name must end in .js or .css: %s", name)
	}
	return nil
}

// Name returns the (file) name of this asset.
func (a *Asset) Name() string { return a.name }

// Remote reports whether the asset is loaded from a URL.
// If true, [Asset.URL] holds the location.
func (a *Asset) Remote() bool { return a.url != "" }

// URL returns the remote location, or "" for local assets.
func (a *Asset) URL() string { return a.url }

// Content returns the text content of this asset, even for remote ones.
// The first call materializes: a source function is invoked, or a remote
// fetch is performed (5 second bound, no retry here). The result is cached
// for the lifetime of the asset; a failed materialization is not cached.
func (a *Asset) Content(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.materialized {
		return a.content, nil
	}

	var (
		text string
		err  error
	)
	switch {
	case a.fn != nil:
		text, err = a.fn()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeSourceFunc, err,
				"source function of asset %q failed", a.name)
		}
	case a.url != "":
		text, err = a.fetcher.FetchText(ctx, a.url)
		if err != nil {
			return "", err
		}
	default:
		return "", errors.New(errors.ErrCodeInternal, "asset %q has no source", a.name)
	}

	a.content = text
	a.materialized = true
	return a.content, nil
}

// isJS reports whether a name carries the script suffix.
func isJS(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), SuffixJS)
}

// Ensure Asset implements Provider.
var _ Provider = (*Asset)(nil)
