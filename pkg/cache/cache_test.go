package cache

import (
	"context"
	"testing"
	"time"
)

func TestFileCache_GetSet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() failed: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		data []byte
	}{
		{"simple", "key1", []byte("body{margin:0}")},
		{"url key", "https://example.com/lib.js", []byte("var x = 1;")},
		{"empty value", "key3", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Set(ctx, tt.key, tt.data, time.Hour); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, ok, err := c.Get(ctx, tt.key)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if !ok {
				t.Fatal("Get() returned false for existing key")
			}
			if string(got) != string(tt.data) {
				t.Errorf("Get() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestFileCache_Miss(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	_, ok, err := c.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestFileCache_Expiration(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	_, ok, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestFileCache_NoTTLNeverExpires(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("v"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	_, ok, err := c.Get(ctx, "key")
	if err != nil || !ok {
		t.Errorf("Get() = %v, %v; want true, nil", ok, err)
	}
}

func TestFileCache_Delete(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()

	_ = c.Set(ctx, "key", []byte("v"), 0)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get() returned true after Delete()")
	}

	// Deleting again is not an error.
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() of missing key failed: %v", err)
	}
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, ok, err := c.Get(ctx, "key")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}
	if string(got) != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "key", []byte("v"), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_ = c.Set(ctx, "key", []byte("v"), 0)
	_ = c.Delete(ctx, "key")
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("Get() returned true after Delete()")
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "key"); ok {
		t.Error("NullCache Get() returned a hit")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

func TestHash_Deterministic(t *testing.T) {
	a := Hash([]byte("https://example.com/x.js"))
	b := Hash([]byte("https://example.com/x.js"))
	if a != b {
		t.Error("Hash() not deterministic")
	}
	if len(a) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(a))
	}
	if a == Hash([]byte("other")) {
		t.Error("Hash() collision on different inputs")
	}
}
