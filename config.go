package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"osustars/mods"
	"osustars/stars"
)

// Config holds the settings of a run. A YAML file provides defaults and
// command-line flags override them.
type Config struct {
	Mods    string `yaml:"mods"`
	Passed  int    `yaml:"passed"`
	Strains bool   `yaml:"strains"`

	// Cache is the sqlite file path; empty disables caching.
	Cache       string `yaml:"cache"`
	DownloadDir string `yaml:"download_dir"`
	FailDir     string `yaml:"fail_dir"`

	Workers int `yaml:"workers"`

	RateLimit          int           `yaml:"rate_limit"`
	RateLimitWindow    time.Duration `yaml:"rate_limit_window"`
	ConcurrentRequests int           `yaml:"concurrent_requests"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`

	// Modifiers is Mods parsed by validate.
	Modifiers mods.Mods `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		Mods:               "NM",
		Passed:             stars.AllObjects,
		DownloadDir:        "maps",
		Workers:            runtime.NumCPU(),
		RateLimit:          30,
		RateLimitWindow:    time.Minute,
		ConcurrentRequests: 2,
		RequestTimeout:     time.Minute,
	}
}

func (c *Config) validate() error {
	m, err := mods.Parse(c.Mods)
	if err != nil {
		return err
	}
	c.Modifiers = m

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if c.RateLimit < 1 || c.RateLimitWindow <= 0 || c.ConcurrentRequests < 1 {
		return errors.New("rate_limit, rate_limit_window and concurrent_requests must be positive")
	}

	return nil
}

func readConfigFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	return nil
}

// parseConfig parses args, layering explicitly set flags over the config
// file, which in turn overrides the defaults. It returns the positional arguments.
func parseConfig(args []string, output io.Writer) (Config, []string, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("osustars", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(output, "usage: osustars [flags] <file.osu | directory | beatmap id>...\n\n")
		fs.PrintDefaults()
	}

	var flags Config

	configPath := fs.String("config", "", "YAML config file")
	fs.StringVar(&flags.Mods, "mods", cfg.Mods, "mod acronyms, e.g. HDHR or DT,FL")
	fs.IntVar(&flags.Passed, "passed", cfg.Passed, "evaluate only the first N objects (negative for all)")
	fs.BoolVar(&flags.Strains, "strains", cfg.Strains, "print the strain series of every map")
	fs.StringVar(&flags.Cache, "cache", cfg.Cache, "sqlite cache file")
	fs.StringVar(&flags.DownloadDir, "download-dir", cfg.DownloadDir, "directory for maps downloaded by id")
	fs.StringVar(&flags.FailDir, "fail-dir", cfg.FailDir, "directory receiving a report per failed input")
	fs.IntVar(&flags.Workers, "workers", cfg.Workers, "maps evaluated concurrently")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	if *configPath != "" {
		if err := readConfigFile(*configPath, &cfg); err != nil {
			return Config{}, nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mods":
			cfg.Mods = flags.Mods
		case "passed":
			cfg.Passed = flags.Passed
		case "strains":
			cfg.Strains = flags.Strains
		case "cache":
			cfg.Cache = flags.Cache
		case "download-dir":
			cfg.DownloadDir = flags.DownloadDir
		case "fail-dir":
			cfg.FailDir = flags.FailDir
		case "workers":
			cfg.Workers = flags.Workers
		}
	})

	if err := cfg.validate(); err != nil {
		return Config{}, nil, err
	}

	return cfg, fs.Args(), nil
}
