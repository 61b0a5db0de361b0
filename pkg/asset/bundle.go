package asset

import (
	"context"
	"sort"
	"strings"

	"github.com/assetforge/assetforge/pkg/errors"
	"github.com/assetforge/assetforge/pkg/resolve"
)

// header is prepended to every module section in a bundle's output.
const header = "/* Autogenerated code from assetforge. */\n\n"

// Bundle is an asset that aggregates plain assets and modules. In the
// output, asset sources occur before module sources. Module order honours
// declared dependencies, and the bundle exposes an aggregate of the module
// dependencies so that bundles can themselves be sorted by the resolver.
//
// A bundle's own inline source is empty; its content is derived from its
// members. Bundles must not be mutated concurrently.
type Bundle struct {
	name      string
	namespace string // dotted-path prefix all contained modules share
	ext       string // ".js" or ".css"

	assets  []Provider
	modules []Module
	deps    map[string]struct{}

	sorted    []Module
	needsSort bool
}

// NewBundle creates an empty bundle. The name must end in .js or .css; its
// file stem, truncated at the first "-", becomes the bundle's namespace
// (so "mylib-core.js" collects modules under "mylib").
func NewBundle(name string) (*Bundle, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	stem := name[:strings.LastIndex(name, ".")]
	namespace, _, _ := strings.Cut(stem, "-")

	ext := SuffixCSS
	if isJS(name) {
		ext = SuffixJS
	}

	return &Bundle{
		name:      name,
		namespace: namespace,
		ext:       ext,
		deps:      make(map[string]struct{}),
	}, nil
}

// Name returns the bundle's file name.
func (b *Bundle) Name() string { return b.name }

// Namespace returns the dotted-path prefix contained modules must share.
func (b *Bundle) Namespace() string { return b.namespace }

// Remote always reports false: bundles are assembled locally.
func (b *Bundle) Remote() bool { return false }

// AddAsset adds a plain asset to the bundle. Assets added this way occur
// before the module code in the output. Bundles cannot nest.
func (b *Bundle) AddAsset(p Provider) error {
	if p == nil {
		return errors.New(errors.ErrCodeNotAnAsset, "bundle %s: nil asset", b.name)
	}
	if _, ok := p.(*Bundle); ok {
		return errors.New(errors.ErrCodeNestedBundle,
			"bundles can contain assets and modules, but not bundles")
	}
	b.assets = append(b.assets, p)
	return nil
}

// AddModule adds a module to the bundle. This lazily invalidates the
// sorted module order and folds the module's dependencies into the
// bundle-level aggregate so bundles themselves can be sorted.
//
// The module's name must start with the bundle's namespace; anything else
// is a NAMESPACE_MISMATCH error. The module's Deps must be stable from
// here on - later mutation is not observed.
func (b *Bundle) AddModule(m Module) error {
	if !strings.HasPrefix(m.Name(), b.namespace) {
		return errors.New(errors.ErrCodeNamespaceMismatch,
			"module %s does not belong in bundle %s", m.Name(), b.name)
	}

	b.modules = append(b.modules, m)
	b.needsSort = true

	// Expand every dependency into its full dotted-path prefix closure,
	// then keep only names outside this bundle's namespace, expressed in
	// the bundle's own suffix form.
	expanded := make(map[string]struct{})
	for _, dep := range m.Deps() {
		for {
			expanded[dep] = struct{}{}
			i := strings.LastIndex(dep, ".")
			if i < 0 {
				break
			}
			dep = dep[:i]
		}
	}
	for dep := range expanded {
		if strings.HasPrefix(dep, b.namespace) || strings.HasPrefix(b.namespace, dep+".") {
			continue // represented by this bundle itself
		}
		b.deps[dep+b.ext] = struct{}{}
	}
	return nil
}

// Assets returns the plain assets in this bundle, in insertion order.
func (b *Bundle) Assets() []Provider {
	out := make([]Provider, len(b.assets))
	copy(out, b.assets)
	return out
}

// Modules returns the bundle's modules, sorted by name and dependencies.
// The sort runs lazily on the first read after a module was added; the
// name sort seeds the resolver so the result is independent of insertion
// order. A dependency cycle among the modules surfaces here.
func (b *Bundle) Modules() ([]Module, error) {
	if b.needsSort {
		seed := make([]Module, len(b.modules))
		copy(seed, b.modules)
		sort.Slice(seed, func(i, j int) bool { return seed[i].Name() < seed[j].Name() })

		ordered, err := resolve.Solve(seed)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCircularDependency, err,
				"sorting modules of bundle %s", b.name)
		}
		b.sorted = ordered
		b.needsSort = false
	}
	out := make([]Module, len(b.sorted))
	copy(out, b.sorted)
	return out, nil
}

// Deps returns the aggregate dependency set for this bundle, expressed as
// bundle names (module namespaces carrying this bundle's suffix). The
// result is sorted for determinism.
func (b *Bundle) Deps() []string {
	out := make([]string, 0, len(b.deps))
	for dep := range b.deps {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// Content renders the bundle: a table-of-contents comment (when the bundle
// holds more than one item), each asset's framed content, then each
// module's framed generated code behind the attribution header. Sections
// are joined with blank lines.
func (b *Bundle) Content(ctx context.Context) (string, error) {
	modules, err := b.Modules()
	if err != nil {
		return "", err
	}
	js := b.ext == SuffixJS

	var toc, sections []string
	for _, a := range b.assets {
		code, err := a.Content(ctx)
		if err != nil {
			return "", err
		}
		toc = append(toc, "- asset "+a.Name())
		sections = append(sections, banner(a.Name()), code)
	}
	for _, m := range modules {
		var code string
		if js {
			code, err = m.JS()
		} else {
			code, err = m.CSS()
		}
		if err != nil {
			return "", err
		}
		toc = append(toc, "- module "+m.Name())
		sections = append(sections, banner(m.Name()), header, code)
	}

	if len(b.assets)+len(modules) > 1 {
		sections = append([]string{"/* Bundle contents:\n" + strings.Join(toc, "\n") + "\n*/\n"}, sections...)
	}
	return strings.Join(sections, "\n\n"), nil
}

// HTML returns an inclusion tag for the bundle, embedding or referencing
// its concatenated content per mode.
func (b *Bundle) HTML(ctx context.Context, path string, mode LinkMode) (string, error) {
	return renderTag(ctx, b, "", path, mode)
}

// banner frames a section with the item's name centered in a comment line.
func banner(name string) string {
	padded := " " + name + " "
	total := 70 - len(padded)
	if total < 0 {
		total = 0
	}
	left := total / 2
	right := total - left
	return "/* " + strings.Repeat("=", left) + padded + strings.Repeat("=", right) + "*/"
}

// Bundles satisfy the same capability their contents do.
var (
	_ Provider     = (*Bundle)(nil)
	_ resolve.Item = (*Bundle)(nil)
)
