package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/levigross/grequests"
)

const mapURL = "https://osu.ppy.sh/osu/%d"

var ErrMapNotFound = errors.New("map not found")

// Downloader fetches .osu files by beatmap id into a directory, reusing
// files that are already there.
type Downloader struct {
	dir      string
	baseURL  string
	timeout  time.Duration
	throttle *Throttle

	rateLimitedFrom atomic.Pointer[time.Time]
}

func NewDownloader(cfg Config, throttle *Throttle) *Downloader {
	return &Downloader{
		dir:      cfg.DownloadDir,
		baseURL:  mapURL,
		timeout:  cfg.RequestTimeout,
		throttle: throttle,
	}
}

func (d *Downloader) path(id int) string {
	return filepath.Join(d.dir, fmt.Sprintf("%d.osu", id))
}

// rateLimited returns how long to back off, growing while the limit persists.
func (d *Downloader) rateLimited() time.Duration {
	lastLimit := d.rateLimitedFrom.Load()
	now := time.Now()
	d.rateLimitedFrom.CompareAndSwap(nil, &now)
	if lastLimit != nil {
		return max(time.Minute, time.Since(*lastLimit))
	}
	return time.Minute
}

// Download returns the local path of the map, fetching it if needed.
func (d *Downloader) Download(ctx context.Context, id int) (string, error) {
	path := d.path(id)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	done, err := d.throttle.GetToken(ctx)
	if err != nil {
		return "", err
	}
	defer done()

	var data []byte
	for {
		data, err = d.fetch(ctx, id)
		if err != nil && strings.Contains(err.Error(), "connection refused") {
			if err := d.backOff(ctx, "connection refused"); err != nil {
				return "", err
			}
			continue
		}
		if strings.Contains(string(data), "Slow down, play more.") {
			if err := d.backOff(ctx, "slow down"); err != nil {
				return "", err
			}
			continue
		}
		d.rateLimitedFrom.Store(nil)
		if err != nil {
			return "", err
		}
		break
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write map %d: %w", id, err)
	}

	log.Printf("downloaded %d (%s)", id, humanize.Bytes(uint64(len(data))))

	return path, nil
}

func (d *Downloader) backOff(ctx context.Context, reason string) error {
	cooldown := d.rateLimited()
	log.Printf("%s, retrying in %s", reason, cooldown)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cooldown):
		return nil
	}
}

func (d *Downloader) fetch(ctx context.Context, id int) ([]byte, error) {
	if err := d.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := grequests.Get(fmt.Sprintf(d.baseURL, id),
		grequests.Context(ctx),
		grequests.UserAgent("osustars"),
		grequests.RequestTimeout(d.timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("download map %d: %w", id, err)
	}
	defer resp.Close()

	if !resp.Ok {
		return nil, fmt.Errorf("download map %d: status %d", id, resp.StatusCode)
	}

	data := resp.Bytes()

	// The endpoint answers unknown ids with an empty body.
	if len(data) == 0 {
		return nil, fmt.Errorf("download map %d: %w", id, ErrMapNotFound)
	}

	return data, nil
}
