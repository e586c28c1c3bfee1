package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"osustars/cache"
)

func main() {
	cfg, args, err := parseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	if len(args) == 0 {
		log.Fatal("no input; pass .osu files, directories or beatmap ids")
	}

	inputs, err := collectInputs(args)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	evaluator := &Evaluator{Mods: cfg.Modifiers, Passed: cfg.Passed, Strains: cfg.Strains}

	if cfg.Cache != "" {
		c, err := cache.Open(cfg.Cache)
		if err != nil {
			log.Fatal(err)
		}
		defer c.Close()

		evaluator.Cache = c
	}

	throttle := NewThrottle(cfg.RateLimit, cfg.RateLimitWindow, cfg.ConcurrentRequests)
	defer throttle.Stop()

	downloader := NewDownloader(cfg, throttle)

	start := time.Now()
	results := evaluateAll(ctx, cfg, inputs, evaluator, downloader)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			Fail(cfg.FailDir, r.Input, r.Err)
		}
	}

	printResults(os.Stdout, cfg.Modifiers, results)

	if cfg.Strains {
		for _, r := range results {
			if r.Err == nil {
				printStrains(os.Stdout, r)
			}
		}
	}

	log.Printf("evaluated %s maps in %s, %d failed", humanize.Comma(int64(len(results)-failed)), time.Since(start).Round(time.Millisecond), failed)

	if failed > 0 {
		stop()
		os.Exit(1)
	}
}

// evaluateAll spreads the inputs over cfg.Workers goroutines. Results keep
// the order of inputs.
func evaluateAll(ctx context.Context, cfg Config, inputs []input, e *Evaluator, d *Downloader) []Result {
	results := make([]Result, len(inputs))
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		done atomic.Uint32
	)

	for n := min(cfg.Workers, len(inputs)); n > 0; n-- {
		Run(&wg, func() {
			for i := range jobs {
				in := inputs[i]

				path, err := in.resolve(ctx, d)
				if err != nil {
					results[i] = Result{Input: in.String(), Err: err}
				} else {
					results[i] = e.EvaluateFile(ctx, path)
				}

				if n := done.Add(1); len(inputs) > 1 {
					log.Printf("%d/%d %s", n, len(inputs), in)
				}
			}
		})
	}

	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(inputs); j++ {
				results[j] = Result{Input: inputs[j].String(), Err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return results
		}
	}

	close(jobs)
	wg.Wait()

	return results
}
