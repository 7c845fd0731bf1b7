package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/verte-zerg/spellbee/internal/assets"
)

func TestResolverReadsFS(t *testing.T) {
	r := NewResolver(fstest.MapFS{
		"lists/a.txt": {Data: []byte("cat\ndog\n")},
	})
	data, err := r.Fetch(context.Background(), "/lists/a.txt")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(data) != "cat\ndog\n" {
		t.Fatalf("unexpected data %q", data)
	}
	if _, err := r.Fetch(context.Background(), "lists/missing.txt"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestResolverReadsBundledAssets(t *testing.T) {
	r := NewResolver(assets.FS)
	data, err := r.Fetch(context.Background(), assets.ManifestName)
	if err != nil {
		t.Fatalf("fetch manifest: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("bundled manifest is empty")
	}
}

func TestResolverFetchesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/list.txt":
			_, _ = fmt.Fprint(w, "apple\n")
		case "/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	r := NewResolver(nil)
	r.Client = srv.Client()
	ctx := context.Background()

	data, err := r.Fetch(ctx, srv.URL+"/list.txt")
	if err != nil || string(data) != "apple\n" {
		t.Fatalf("fetch = %q, %v", data, err)
	}
	if _, err := r.Fetch(ctx, srv.URL+"/missing"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if _, err := r.Fetch(ctx, srv.URL+"/broken"); err == nil || errors.Is(err, ErrNotExist) {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestResolverRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, strings.Repeat("a", 16))
	}))
	defer srv.Close()

	r := NewResolver(nil)
	r.Client = srv.Client()
	ctx := context.Background()

	r.MaxBytes = 16
	data, err := r.Fetch(ctx, srv.URL)
	if err != nil || len(data) != 16 {
		t.Fatalf("body at the limit: %d bytes, %v", len(data), err)
	}

	r.MaxBytes = 15
	if _, err := r.Fetch(ctx, srv.URL); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}
