package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/assetforge/assetforge/pkg/cache"
	"github.com/assetforge/assetforge/pkg/errors"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"https://example.com/x.js", true},
		{"http://example.com/x.css", true},
		{"file:///tmp/x.js", false},
		{"ftp://example.com/x.js", false},
		{"x.js", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.s); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestClient_FetchText(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("var x = 1;"))
	}))
	defer srv.Close()

	text, err := NewClient().FetchText(context.Background(), srv.URL+"/x.js")
	if err != nil {
		t.Fatalf("FetchText() failed: %v", err)
	}
	if text != "var x = 1;" {
		t.Errorf("FetchText() = %q", text)
	}
	if !strings.HasPrefix(gotUA, "assetforge/") {
		t.Errorf("User-Agent = %q, want assetforge/<version>", gotUA)
	}
}

func TestClient_FetchText_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient().FetchText(context.Background(), srv.URL+"/x.js")
	if !errors.Is(err, errors.ErrCodeFetchFailed) {
		t.Errorf("FetchText() error = %v, want FETCH_FAILED", err)
	}
	if isRetryable(err) {
		t.Error("404 should not be retryable")
	}
}

func TestClient_FetchText_ServerErrorRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient().FetchText(context.Background(), srv.URL+"/x.js")
	if err == nil {
		t.Fatal("FetchText() succeeded on 500")
	}
	if !isRetryable(err) {
		t.Error("500 should be retryable")
	}
	if !errors.Is(err, errors.ErrCodeFetchFailed) {
		t.Errorf("FetchText() error = %v, want FETCH_FAILED", err)
	}
}

func TestClient_FetchText_RejectsNonURL(t *testing.T) {
	_, err := NewClient().FetchText(context.Background(), "file:///etc/passwd")
	if !errors.Is(err, errors.ErrCodeUnsupportedSource) {
		t.Errorf("FetchText() error = %v, want UNSUPPORTED_SOURCE", err)
	}
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errors.New(errors.ErrCodeFetchFailed, "permanent")
	})
	if err == nil {
		t.Fatal("Retry() succeeded unexpectedly")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetry_RetriesRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New(errors.ErrCodeFetchFailed, "transient")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetry_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Minute, func() error {
		return &RetryableError{Err: errors.New(errors.ErrCodeFetchFailed, "transient")}
	})
	if err != context.Canceled {
		t.Errorf("Retry() error = %v, want context.Canceled", err)
	}
}

func TestCachingFetcher_HitSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("cached content"))
	}))
	defer srv.Close()

	f := NewCachingFetcher(NewClient(), cache.NewMemoryCache(), time.Hour)
	ctx := context.Background()
	url := srv.URL + "/x.js"

	for i := 0; i < 3; i++ {
		text, err := f.FetchText(ctx, url)
		if err != nil {
			t.Fatalf("FetchText() failed: %v", err)
		}
		if text != "cached content" {
			t.Errorf("FetchText() = %q", text)
		}
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestCachingFetcher_NullCacheAlwaysFetches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	f := NewCachingFetcher(NewClient(), cache.NewNullCache(), time.Hour)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.FetchText(ctx, srv.URL+"/x.js"); err != nil {
			t.Fatalf("FetchText() failed: %v", err)
		}
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times, want 2", n)
	}
}
