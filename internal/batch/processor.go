package batch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"soft-render/internal/prof"
)

// Config holds the shared resources for a load run.
type Config struct {
	Registry *prof.Registry
	Workers  int
	Log      zerolog.Logger
}

// Result holds the outcome of loading one profile record.
type Result struct {
	Path  string
	Table prof.Table
	Err   error
}

// Load reads every path using a worker pool. Results keep the order of paths.
func Load(cfg Config, paths []string) []Result {
	total := len(paths)
	results := make([]Result, total)
	if total == 0 {
		return results
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	var processed atomic.Int64
	start := time.Now()

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = loadOne(cfg, paths[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	cfg.Log.Debug().
		Int64("files", processed.Load()).
		Int("workers", workers).
		Dur("elapsed", time.Since(start)).
		Msg("profile records loaded")
	return results
}

func loadOne(cfg Config, path string) Result {
	t, err := prof.LoadFile(path, cfg.Registry)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	cfg.Log.Debug().Str("file", path).Int("blocks", len(t.Blocks)).Msg("loaded")
	return Result{Path: path, Table: t}
}

// FirstError returns the first failed result in path order.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// Tables returns the loaded tables in path order.
func Tables(results []Result) []prof.Table {
	tables := make([]prof.Table, len(results))
	for i, r := range results {
		tables[i] = r.Table
	}
	return tables
}
