package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testDownloader(t *testing.T, handler http.HandlerFunc) (*Downloader, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	throttle := NewThrottle(1000, time.Second, 2)
	t.Cleanup(throttle.Stop)

	cfg := defaultConfig()
	cfg.DownloadDir = t.TempDir()

	d := NewDownloader(cfg, throttle)
	d.baseURL = srv.URL + "/osu/%d"

	return d, &hits
}

func TestDownload(t *testing.T) {
	d, hits := testDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/osu/42" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(testMap))
	})

	ctx := context.Background()

	path, err := d.Download(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != testMap {
		t.Fatalf("downloaded file = %q, %v", data, err)
	}

	if filepath.Base(path) != "42.osu" {
		t.Errorf("path = %s", path)
	}

	// The second call is served from disk.
	if _, err := d.Download(ctx, 42); err != nil {
		t.Fatal(err)
	}

	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestDownloadErrors(t *testing.T) {
	d, _ := testDownloader(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/osu/1" {
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	ctx := context.Background()

	if _, err := d.Download(ctx, 1); !errors.Is(err, ErrMapNotFound) {
		t.Errorf("empty body: err = %v, want ErrMapNotFound", err)
	}

	if _, err := d.Download(ctx, 2); err == nil {
		t.Error("server error accepted")
	}

	if _, err := os.Stat(d.path(2)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("failed download left a file: %v", err)
	}
}
