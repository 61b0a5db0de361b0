package asset

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/assetforge/assetforge/pkg/errors"
	"github.com/assetforge/assetforge/pkg/fetch"
)

func TestNew_Literal(t *testing.T) {
	a, err := New("app.js", WithLiteral("var x = 1;"))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if a.Name() != "app.js" {
		t.Errorf("Name() = %q", a.Name())
	}
	if a.Remote() {
		t.Error("Remote() = true for literal asset")
	}
	got, err := a.Content(context.Background())
	if err != nil {
		t.Fatalf("Content() failed: %v", err)
	}
	if got != "var x = 1;" {
		t.Errorf("Content() = %q", got)
	}
}

func TestNew_RemoteFromName(t *testing.T) {
	a, err := New("https://example.com/lib/x.js")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !a.Remote() {
		t.Error("Remote() = false for URL-named asset")
	}
	if a.Name() != "x.js" {
		t.Errorf("Name() = %q, want x.js", a.Name())
	}
	if a.URL() != "https://example.com/lib/x.js" {
		t.Errorf("URL() = %q", a.URL())
	}
}

func TestNew_RemoteWithExplicitSource(t *testing.T) {
	_, err := New("https://example.com/x.js", WithLiteral("nope"))
	if !errors.Is(err, errors.ErrCodeAmbiguousSource) {
		t.Errorf("New() error = %v, want AMBIGUOUS_SOURCE", err)
	}

	_, err = New("https://example.com/x.js", WithFunc(func() (string, error) { return "", nil }))
	if !errors.Is(err, errors.ErrCodeAmbiguousSource) {
		t.Errorf("New() error = %v, want AMBIGUOUS_SOURCE", err)
	}
}

func TestNew_ConstructionErrors(t *testing.T) {
	tests := []struct {
		name      string
		assetName string
		opts      []Option
		wantCode  errors.Code
	}{
		{"no source", "x.js", nil, errors.ErrCodeMissingSource},
		{"both sources", "x.js", []Option{WithLiteral("a"), WithFunc(func() (string, error) { return "b", nil })}, errors.ErrCodeAmbiguousSource},
		{"bad suffix", "x.txt", []Option{WithLiteral("a")}, errors.ErrCodeInvalidSuffix},
		{"no suffix", "x", []Option{WithLiteral("a")}, errors.ErrCodeInvalidSuffix},
		{"empty name", "", []Option{WithLiteral("a")}, errors.ErrCodeInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.assetName, tt.opts...)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("New(%q) error = %v, want %s", tt.assetName, err, tt.wantCode)
			}
		})
	}
}

func TestNew_SuffixCaseInsensitive(t *testing.T) {
	for _, name := range []string{"x.JS", "x.Css", "x.CSS"} {
		if _, err := New(name, WithLiteral("a")); err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
		}
	}
}

func TestContent_FuncInvokedOnce(t *testing.T) {
	calls := 0
	a, err := New("gen.js", WithFunc(func() (string, error) {
		calls++
		return "generated", nil
	}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := a.Content(ctx)
		if err != nil {
			t.Fatalf("Content() failed: %v", err)
		}
		if got != "generated" {
			t.Errorf("Content() = %q", got)
		}
	}
	if calls != 1 {
		t.Errorf("source function called %d times, want 1", calls)
	}
}

func TestContent_FuncError(t *testing.T) {
	boom := stderrors.New("boom")
	a, err := New("gen.js", WithFunc(func() (string, error) {
		return "", boom
	}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	_, err = a.Content(context.Background())
	if !errors.Is(err, errors.ErrCodeSourceFunc) {
		t.Errorf("Content() error = %v, want SOURCE_FUNCTION_FAILED", err)
	}
	if !stderrors.Is(err, boom) {
		t.Error("Content() error should wrap the function's error")
	}
}

func TestContent_RemoteFetchedOnce(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("remote body"))
	}))
	defer srv.Close()

	a, err := New(srv.URL + "/x.js")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		got, err := a.Content(ctx)
		if err != nil {
			t.Fatalf("Content() failed: %v", err)
		}
		if got != "remote body" {
			t.Errorf("Content() = %q", got)
		}
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
}

func TestContent_RemoteFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	a, err := New(srv.URL + "/x.js")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := a.Content(context.Background()); !errors.Is(err, errors.ErrCodeFetchFailed) {
		t.Errorf("Content() error = %v, want FETCH_FAILED", err)
	}
}

func TestWithFetcher(t *testing.T) {
	a, err := New("https://example.com/x.css", WithFetcher(staticFetcher("p{}")))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	got, err := a.Content(context.Background())
	if err != nil {
		t.Fatalf("Content() failed: %v", err)
	}
	if got != "p{}" {
		t.Errorf("Content() = %q", got)
	}
}

// staticFetcher returns fixed content for any URL.
type staticFetcher string

func (f staticFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return string(f), nil
}

var _ fetch.TextFetcher = (staticFetcher)("")
