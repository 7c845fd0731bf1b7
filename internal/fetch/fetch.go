// Package fetch loads static resources such as the word list manifest and
// word list text files.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

const maxBodyBytes = 8 << 20

var (
	// ErrNotExist is returned when a resource does not exist.
	ErrNotExist = errors.New("resource does not exist")
	// ErrTooLarge is returned when a response body exceeds the size limit.
	ErrTooLarge = errors.New("resource too large")
)

// Source fetches the raw bytes of a resource by path or URL.
type Source interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Resolver serves http(s) URLs over the network and every other path from FS.
type Resolver struct {
	FS     fs.FS
	Client *http.Client
	// MaxBytes caps a response body. Zero means 8 MiB.
	MaxBytes int64
}

// NewResolver returns a Resolver reading local paths from fsys.
func NewResolver(fsys fs.FS) *Resolver {
	return &Resolver{
		FS:     fsys,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch implements Source.
func (r *Resolver) Fetch(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return r.fetchURL(ctx, path)
	}
	if r.FS == nil {
		return nil, fmt.Errorf("no filesystem configured for %q", path)
	}
	name := strings.TrimPrefix(path, "/")
	data, err := fs.ReadFile(r.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (r *Resolver) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "spellbee")
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrNotExist)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status for %s: %s", url, resp.Status)
	}
	limit := r.MaxBytes
	if limit <= 0 {
		limit = maxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s exceeds %d bytes: %w", url, limit, ErrTooLarge)
	}
	return data, nil
}
