package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hartog/cubesat/internal/metrics"
	"github.com/hartog/cubesat/internal/parsers"
	"github.com/hartog/cubesat/internal/pool"
	"github.com/hartog/cubesat/internal/sat"
)

type solveConfig struct {
	limit         int
	validate      bool
	workerThreads string
	noBar         bool
	steal         bool
	metricsLog    string
}

func newSolveCmd() *cobra.Command {
	cfg := &solveConfig{}

	cmd := &cobra.Command{
		Use:   "solve <path>",
		Short: "Solve a single DIMACS CNF file or every .cnf/.cnf.gz file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cfg, args[0])
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.limit, "limit", 0, "solve at most this many files (0 means no limit)")
	flags.BoolVar(&cfg.validate, "validate", false, "re-check every SAT result against the original clauses")
	flags.StringVar(&cfg.workerThreads, "worker-threads", "auto", `number of worker goroutines, or "auto" for runtime.NumCPU()`)
	flags.BoolVar(&cfg.noBar, "no-bar", false, "suppress the periodic progress line")
	flags.BoolVar(&cfg.steal, "steal", false, "use the work-stealing worker strategy instead of the basic one")
	flags.StringVar(&cfg.metricsLog, "metrics-log", "", "write a binary metrics log to this file")

	return cmd
}

func runSolve(cfg *solveConfig, path string) error {
	files, err := resolveInputFiles(path, cfg.limit)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .cnf or .cnf.gz files found at %q", path)
	}

	numWorkers, err := parseWorkerThreads(cfg.workerThreads)
	if err != nil {
		return err
	}
	strategy := pool.StrategyBasic
	if cfg.steal {
		strategy = pool.StrategyStealing
	}

	p := pool.New(numWorkers, strategy, log)
	if cfg.metricsLog != "" {
		l, err := metrics.NewLogger(cfg.metricsLog, 500*time.Millisecond)
		if err != nil {
			return fmt.Errorf("opening metrics log %q: %w", cfg.metricsLog, err)
		}
		defer l.Close()
		p = p.WithMetricsLogger(l)
	}

	start := time.Now()
	var numSAT, numUNSAT, numFailed int
	for i, file := range files {
		if !cfg.noBar {
			log.Infof("[%d/%d] solving %s", i+1, len(files), file)
		}
		isSAT, err := solveFile(p, file, cfg.validate)
		if err != nil {
			log.WithField("file", file).Error(err)
			numFailed++
			continue
		}
		if isSAT {
			numSAT++
		} else {
			numUNSAT++
		}
	}

	log.Infof("solved %d file(s): %d SAT, %d UNSAT, %d failed, in %s", len(files), numSAT, numUNSAT, numFailed, humanDuration(time.Since(start)))
	if numFailed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be solved", numFailed, len(files))
	}
	return nil
}

// solveFile parses, solves, and (if requested) validates a single file,
// returning whether it was satisfiable.
func solveFile(p *pool.Pool, file string, validate bool) (bool, error) {
	problem, err := parsers.LoadProblem(file)
	if err != nil {
		return false, err
	}

	start := time.Now()
	model, isSAT := p.Submit(problem)
	elapsed := time.Since(start)

	if !isSAT {
		log.WithField("file", file).Infof("UNSAT in %s", humanDuration(elapsed))
		return false, nil
	}

	if validate {
		if bad := sat.VerifySolution(problem, model); bad >= 0 {
			log.WithField("file", file).Warnf("validation failed: clause %d violated by reported model", bad)
		}
	}
	log.WithField("file", file).Infof("SAT in %s", humanDuration(elapsed))
	return true, nil
}

func parseWorkerThreads(spec string) (int, error) {
	if spec == "" || spec == "auto" {
		return runtime.NumCPU(), nil
	}
	var n int
	if _, err := fmt.Sscanf(spec, "%d", &n); err != nil || n < 1 {
		return 0, fmt.Errorf(`--worker-threads must be "auto" or a positive integer, got %q`, spec)
	}
	return n, nil
}

// resolveInputFiles expands path into a lexically sorted list of input
// files: path itself if it is "-" or a regular file, or every .cnf/.cnf.gz
// file directly inside it (non-recursive) if it is a directory. limit, if
// positive, caps the number of files returned.
func resolveInputFiles(path string, limit int) ([]string, error) {
	if path == "-" {
		return []string{"-"}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var files []string
	if !info.IsDir() {
		files = []string{path}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if strings.HasSuffix(name, ".cnf") || strings.HasSuffix(name, ".cnf.gz") {
				files = append(files, filepath.Join(path, name))
			}
		}
		sort.Strings(files)
	}

	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}
