package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// input is either a local .osu file or a beatmap id still to be downloaded.
type input struct {
	path string
	id   int
}

func (in input) String() string {
	if in.path != "" {
		return in.path
	}
	return strconv.Itoa(in.id)
}

// resolve returns the local path, downloading by id when needed.
func (in input) resolve(ctx context.Context, d *Downloader) (string, error) {
	if in.path != "" {
		return in.path, nil
	}
	return d.Download(ctx, in.id)
}

// collectInputs expands the command-line arguments. Numbers are beatmap ids,
// directories are walked for .osu files, anything else is a file path.
func collectInputs(args []string) ([]input, error) {
	var inputs []input

	for _, arg := range args {
		if id, err := strconv.Atoi(arg); err == nil && id > 0 {
			if _, err := os.Stat(arg); err != nil {
				inputs = append(inputs, input{id: id})
				continue
			}
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			inputs = append(inputs, input{path: arg})
			continue
		}

		paths, err := osuFiles(arg)
		if err != nil {
			return nil, err
		}

		if len(paths) == 0 {
			return nil, fmt.Errorf("no .osu files in %s", arg)
		}

		for _, p := range paths {
			inputs = append(inputs, input{path: p})
		}
	}

	return inputs, nil
}

func osuFiles(dir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".osu") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(paths)

	return paths, nil
}
