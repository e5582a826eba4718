// Package download fetches remote environment maps into a local cache so the scene
// loader can treat them like files.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vehicle-configurator/internal/scene"
)

// DefaultDir is where fetched maps are kept when no directory is configured.
const DefaultDir = "cache/environments"

const userAgent = "vehicle-configurator/1.0"

// MaxBytes caps a single download.
const MaxBytes = 64 << 20

// IsRemote reports whether path is an http(s) URL.
func IsRemote(path string) bool {
	p := strings.ToLower(path)
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// Cache stores downloads under Dir, one file per URL.
type Cache struct {
	Dir    string
	Client *http.Client
}

// NewCache returns a cache in dir (DefaultDir when empty).
func NewCache(dir string) *Cache {
	if dir == "" {
		dir = DefaultDir
	}
	return &Cache{Dir: dir, Client: &http.Client{Timeout: 60 * time.Second}}
}

// Path is where url is cached. The name hashes the URL and keeps an image extension
// taken from the URL, so repeated loads hit the disk.
func (c *Cache) Path(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.Dir, hex.EncodeToString(sum[:8])+extensionFromURL(url))
}

// Fetch returns the local path for url, downloading it first if it is not cached.
// Partial downloads never appear under the final name.
func (c *Cache) Fetch(ctx context.Context, url string) (string, error) {
	path := c.Path(url)
	if st, err := os.Stat(path); err == nil && st.Size() > 0 {
		return path, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isImageType(ct) {
		return "", fmt.Errorf("download: unexpected content type %q", ct)
	}

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	tmp, err := os.CreateTemp(c.Dir, ".part-*")
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(resp.Body, MaxBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if n > MaxBytes {
		return "", fmt.Errorf("download: larger than %d bytes", MaxBytes)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return path, nil
}

// Loader wraps decode so URLs are fetched into the cache first. Local paths go straight
// to decode.
func (c *Cache) Loader(decode scene.Loader) scene.Loader {
	return func(ctx context.Context, path string) (image.Image, error) {
		if !IsRemote(path) {
			return decode(ctx, path)
		}
		local, err := c.Fetch(ctx, path)
		if err != nil {
			return nil, err
		}
		return decode(ctx, local)
	}
}

func isImageType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.HasPrefix(ct, "image/") || ct == "application/octet-stream"
}

func extensionFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".jpg", ".jpeg", ".webp", ".bmp":
		return ext
	}
	return ""
}
