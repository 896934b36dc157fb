// Command profdiff reports and compares profile records written by softrender.
//
//	profdiff FILE1 FILE2 [FILE3 ...]
//
// Every file is reported, then each consecutive pair is diffed by average
// block rate.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"soft-render/internal/batch"
	"soft-render/internal/logging"
	"soft-render/internal/prof"
)

const usage = "usage: profdiff FILE1 FILE2 [FILE3 ...]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("profdiff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	includeAll := fs.Bool("all", false, "Include blocks normally excluded from diffs (pixel)")
	logLevel := fs.String("log-level", "info", "Log level: trace, debug, info, warn, error")
	workers := fs.Int("workers", runtime.NumCPU(), "Number of parallel record loaders")
	manifest := fs.String("manifest", "", "Also write a JSON summary of every record to this path")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	files := fs.Args()
	if len(files) < 2 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	log, closer, err := logging.New(logging.Options{App: "profdiff", Level: *logLevel, Console: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	// Every file is read before anything is printed.
	results := batch.Load(batch.Config{Registry: prof.DefaultRegistry(), Workers: *workers, Log: log}, files)
	if err := batch.FirstError(results); err != nil {
		log.Error().Err(err).Msg("cannot load profile record")
		return 1
	}
	tables := batch.Tables(results)

	exclude := prof.DiffExcluded()
	if *includeAll {
		exclude = nil
	}
	if err := report(stdout, tables, exclude); err != nil {
		log.Error().Err(err).Msg("report failed")
		return 1
	}
	if *manifest != "" {
		if err := batch.WriteManifest(*manifest, tables); err != nil {
			log.Error().Err(err).Str("path", *manifest).Msg("cannot write manifest")
			return 1
		}
	}
	return 0
}

func report(w io.Writer, tables []prof.Table, exclude []string) error {
	for _, t := range tables {
		if err := prof.WriteReport(w, t); err != nil {
			return err
		}
	}
	for i := 0; i+1 < len(tables); i++ {
		if err := prof.WriteDiff(w, tables[i], tables[i+1], exclude...); err != nil {
			return err
		}
	}
	return nil
}
