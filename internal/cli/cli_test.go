package cli

import (
	"io"
	"testing"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"build":      false,
		"order":      false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestManifestPath(t *testing.T) {
	if got := manifestPath(""); got != defaultManifest {
		t.Errorf("empty arg = %q, want %q", got, defaultManifest)
	}
	if got := manifestPath("custom.toml"); got != "custom.toml" {
		t.Errorf("explicit arg = %q", got)
	}
}

func TestCacheDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-test")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/tmp/xdg-test/assetforge" {
		t.Errorf("cache dir = %q", dir)
	}
}
