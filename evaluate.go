package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"osustars/beatmap"
	"osustars/cache"
	"osustars/mods"
	"osustars/stars"
)

var ErrNotOsuMode = errors.New("not an osu!standard map")

// Result is the outcome of evaluating one input.
type Result struct {
	Input    string
	Metadata beatmap.Metadata

	Attrs   stars.DifficultyAttributes
	Strains *stars.StrainSeries

	Cached  bool
	Elapsed time.Duration

	Err error
}

// Evaluator computes the attributes of map files, consulting the cache when set.
type Evaluator struct {
	Mods    mods.Mods
	Passed  int
	Strains bool

	Cache *cache.Cache
}

func (e *Evaluator) EvaluateFile(ctx context.Context, path string) Result {
	r := Result{Input: path}

	data, err := os.ReadFile(path)
	if err != nil {
		r.Err = fmt.Errorf("read map: %w", err)
		return r
	}

	return e.Evaluate(ctx, path, data)
}

// Evaluate decodes data and computes its attributes.
func (e *Evaluator) Evaluate(ctx context.Context, input string, data []byte) Result {
	start := time.Now()
	r := Result{Input: input}

	b, err := beatmap.Decode(bytes.NewReader(data))
	if err != nil {
		r.Err = fmt.Errorf("decode %s: %w", input, err)
		return r
	}

	if b.Mode != 0 {
		r.Err = fmt.Errorf("%s: mode %d: %w", input, b.Mode, ErrNotOsuMode)
		return r
	}

	r.Metadata = b.Metadata

	key := cache.Key{Checksum: cache.Checksum(data), Mods: e.Mods, Passed: e.Passed}

	if e.Cache != nil {
		attrs, ok, err := e.Cache.Get(ctx, key)
		if err != nil {
			log.Printf("%s: %v", input, err)
		}

		if ok {
			r.Attrs = attrs
			r.Cached = true
		}
	}

	if !r.Cached {
		r.Attrs = stars.Stars(b, e.Mods, e.Passed)

		if e.Cache != nil {
			if err := e.Cache.Put(ctx, key, r.Attrs); err != nil {
				log.Printf("%s: %v", input, err)
			}
		}
	}

	if e.Strains {
		series := stars.Strains(b, e.Mods)
		r.Strains = &series
	}

	r.Elapsed = time.Since(start)

	return r
}
