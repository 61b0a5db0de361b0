// Package manifest defines the TOML build manifest for assetforge.
//
// A manifest names the bundles to produce and, per bundle, the plain
// assets and modules it contains. Asset sources are exactly one of an
// inline literal, a local file, or a remote URL. Module script and
// stylesheet text comes from local files, read lazily on first use.
//
// Example:
//
//	out = "dist"
//
//	[[bundle]]
//	name = "mylib.js"
//
//	  [[bundle.asset]]
//	  name = "reset.js"
//	  file = "src/reset.js"
//
//	  [[bundle.module]]
//	  name = "mylib.core"
//	  deps = ["otherlib.base"]
//	  js = "src/core.js"
package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/assetforge/assetforge/pkg/errors"
)

// Manifest is the top-level build description.
type Manifest struct {
	// Out is the output directory for built artifacts, relative to the
	// manifest file unless absolute.
	Out string `toml:"out"`

	// Bundles lists the bundles to produce.
	Bundles []BundleSpec `toml:"bundle"`

	// Dir is the directory containing the manifest file; relative asset
	// and module paths are resolved against it. Set by Load.
	Dir string `toml:"-"`
}

// BundleSpec describes one output bundle.
type BundleSpec struct {
	Name    string       `toml:"name"`
	Assets  []AssetSpec  `toml:"asset"`
	Modules []ModuleSpec `toml:"module"`
}

// AssetSpec describes a plain asset. Exactly one of Inline, File, or URL
// must be set. When URL is set, Name may be empty (it is derived from the
// URL's last path segment).
type AssetSpec struct {
	Name   string `toml:"name"`
	Inline string `toml:"inline"`
	File   string `toml:"file"`
	URL    string `toml:"url"`
}

// ModuleSpec describes a dependency-bearing module. JS and CSS name local
// files holding the module's generated text; either may be empty if the
// module contributes nothing for that suffix.
type ModuleSpec struct {
	Name string   `toml:"name"`
	Deps []string `toml:"deps"`
	JS   string   `toml:"js"`
	CSS  string   `toml:"css"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	m.Dir = filepath.Dir(path)
	if m.Out == "" {
		m.Out = "dist"
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Bundles) == 0 {
		return errors.New(errors.ErrCodeInvalidManifest, "manifest defines no bundles")
	}
	seen := make(map[string]bool)
	for _, b := range m.Bundles {
		if b.Name == "" {
			return errors.New(errors.ErrCodeInvalidManifest, "bundle without a name")
		}
		if seen[b.Name] {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate bundle %s", b.Name)
		}
		seen[b.Name] = true

		for _, a := range b.Assets {
			if err := a.validate(b.Name); err != nil {
				return err
			}
		}
		for _, mod := range b.Modules {
			if mod.Name == "" {
				return errors.New(errors.ErrCodeInvalidManifest, "bundle %s: module without a name", b.Name)
			}
			if mod.JS == "" && mod.CSS == "" {
				return errors.New(errors.ErrCodeInvalidManifest,
					"bundle %s: module %s has neither js nor css", b.Name, mod.Name)
			}
		}
	}
	return nil
}

func (a AssetSpec) validate(bundle string) error {
	n := 0
	for _, set := range []bool{a.Inline != "", a.File != "", a.URL != ""} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New(errors.ErrCodeInvalidManifest,
			"bundle %s: asset %s has no source", bundle, a.Name)
	case n > 1:
		return errors.New(errors.ErrCodeAmbiguousSource,
			"bundle %s: asset %s has multiple sources", bundle, a.Name)
	case a.URL != "" && a.Name != "":
		return errors.New(errors.ErrCodeAmbiguousSource,
			"bundle %s: remote asset %s cannot also carry a name (it is derived from the URL)", bundle, a.Name)
	case a.URL == "" && a.Name == "":
		return errors.New(errors.ErrCodeInvalidManifest,
			"bundle %s: asset without a name", bundle)
	}
	return nil
}

// Resolve turns a manifest-relative path into an absolute one.
func (m *Manifest) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}

// OutDir returns the absolute output directory.
func (m *Manifest) OutDir() string { return m.Resolve(m.Out) }

// FileModule adapts a ModuleSpec to the asset.Module contract. Script and
// stylesheet files are read once and cached.
type FileModule struct {
	spec ModuleSpec
	dir  string

	once struct {
		js, css sync.Once
	}
	js, css string
	jsErr   error
	cssErr  error
}

// NewFileModule creates a module whose JS/CSS files resolve against dir.
func NewFileModule(spec ModuleSpec, dir string) *FileModule {
	return &FileModule{spec: spec, dir: dir}
}

// Name returns the module's dotted-path name.
func (f *FileModule) Name() string { return f.spec.Name }

// Deps returns the declared dependency names.
func (f *FileModule) Deps() []string { return f.spec.Deps }

// JS returns the module's script text, reading the file on first call.
// A module without a js file contributes empty script text.
func (f *FileModule) JS() (string, error) {
	f.once.js.Do(func() {
		f.js, f.jsErr = f.read(f.spec.JS)
	})
	return f.js, f.jsErr
}

// CSS returns the module's stylesheet text, reading the file on first call.
// A module without a css file contributes empty stylesheet text.
func (f *FileModule) CSS() (string, error) {
	f.once.css.Do(func() {
		f.css, f.cssErr = f.read(f.spec.CSS)
	})
	return f.css, f.cssErr
}

func (f *FileModule) read(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNotFound, err, "module %s", f.spec.Name)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
