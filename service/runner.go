package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dnldd/trend/database"
	"github.com/dnldd/trend/engine"
	"github.com/dnldd/trend/fetch"
	"github.com/dnldd/trend/shared"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"go.uber.org/atomic"
)

const (
	// maxWorkers is the maximum number of concurrent analyses.
	maxWorkers = 8
)

// RunnerConfig represents the configuration struct for the batch runner.
type RunnerConfig struct {
	// DataFilepaths are the price data files to analyze.
	DataFilepaths []string
	// OutputDir is the directory csv results are written to.
	OutputDir string
	// Variants are the pipeline variants each file is analyzed with.
	Variants []shared.Variant
	// Params are the pipeline parameters.
	Params engine.Params
	// Field is the price field intervals are enriched with.
	Field shared.PriceField
	// Store persists analyzed intervals when set.
	Store database.IntervalStorer
	// Workers is the maximum number of concurrent analyses, maxWorkers when zero.
	Workers int
}

// Validate asserts the config sane inputs.
func (cfg *RunnerConfig) Validate() error {
	var errs error

	if len(cfg.DataFilepaths) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no data filepaths provided for runner"))
	}
	if cfg.OutputDir == "" {
		errs = errors.Join(errs, fmt.Errorf("output directory cannot be an empty string"))
	}
	if len(cfg.Variants) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no variants provided for runner"))
	}
	if cfg.Workers < 0 {
		errs = errors.Join(errs, fmt.Errorf("workers cannot be negative, got %d", cfg.Workers))
	}
	err := cfg.Params.Validate()
	if err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// Result represents the outcome of analyzing a data file with a variant.
type Result struct {
	// Filepath is the analyzed data file.
	Filepath string
	// Market is the market of the data file.
	Market string
	// Variant is the pipeline variant used.
	Variant shared.Variant
	// Intervals is the number of intervals found.
	Intervals int
	// Recoveries are the degraded input conditions recovered from.
	Recoveries []shared.Recovery
	// OutputPath is the path of the written csv file.
	OutputPath string
	// RunID is the id of the persisted run, empty when not persisted.
	RunID string
	// Err is the failure that ended the analysis, if any.
	Err error
}

// job represents a single analysis to run.
type job struct {
	filepath string
	source   string
	variant  shared.Variant
}

// sourceLabels returns a unique output label per data filepath, derived from the file name.
// Repeated names are suffixed with their occurrence count.
func sourceLabels(paths []string) []string {
	labels := make([]string, len(paths))
	used := make(map[string]bool, len(paths))
	for idx, path := range paths {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		label := base
		for n := 2; used[label]; n++ {
			label = fmt.Sprintf("%s-%d", base, n)
		}

		used[label] = true
		labels[idx] = label
	}

	return labels
}

// Runner runs trend analyses over price data files concurrently.
type Runner struct {
	cfg       *RunnerConfig
	engines   map[shared.Variant]*engine.Engine
	workers   chan struct{}
	processed atomic.Uint32
	failed    atomic.Uint32
	logger    *zerolog.Logger
}

// NewRunner initializes a new batch runner.
func NewRunner(cfg *RunnerConfig) (*Runner, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating runner config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "runner").Logger()

	engines := make(map[shared.Variant]*engine.Engine, len(cfg.Variants))
	for _, variant := range cfg.Variants {
		engineLogger := logger.With().Str("component", "engine").Logger()
		eng, err := engine.NewEngine(&engine.EngineConfig{
			Params:  cfg.Params,
			Variant: variant,
			Logger:  engineLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s engine: %w", variant, err)
		}

		engines[variant] = eng
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = maxWorkers
	}

	return &Runner{
		cfg:     cfg,
		engines: engines,
		workers: make(chan struct{}, workers),
		logger:  &logger,
	}, nil
}

// Processed returns the number of analyses completed successfully.
func (r *Runner) Processed() uint32 {
	return r.processed.Load()
}

// Failed returns the number of analyses that failed.
func (r *Runner) Failed() uint32 {
	return r.failed.Load()
}

// process loads, analyzes, enriches, exports and optionally persists a single job.
func (r *Runner) process(ctx context.Context, j job) Result {
	result := Result{Filepath: j.filepath, Variant: j.variant}

	data, err := fetch.Load(j.filepath)
	if err != nil {
		result.Err = fmt.Errorf("loading %s: %w", j.filepath, err)
		return result
	}

	result.Market = data.Market
	if data.Dropped > 0 {
		r.logger.Warn().Msgf("dropped %d invalid rows from %s", data.Dropped, j.filepath)
	}

	eng := r.engines[j.variant]
	analysis, err := eng.Analyze(data.Series)
	if err != nil {
		result.Err = fmt.Errorf("analyzing %s: %w", data.Market, err)
		return result
	}

	result.Intervals = len(analysis.Intervals)
	result.Recoveries = analysis.Recoveries

	enriched := eng.Enrich(analysis.Intervals, analysis.Series, r.cfg.Field)

	result.OutputPath, err = ExportCSV(r.cfg.OutputDir, j.source, data.Market, j.variant, enriched)
	if err != nil {
		result.Err = fmt.Errorf("exporting %s: %w", data.Market, err)
		return result
	}

	if r.cfg.Store != nil {
		result.RunID, err = r.cfg.Store.PersistIntervals(ctx, data.Market, j.variant, enriched)
		if err != nil {
			result.Err = fmt.Errorf("persisting %s: %w", data.Market, err)
			return result
		}
	}

	r.logger.Info().Msgf("%s analysis of %s found %d intervals, written to %s", j.variant,
		data.Market, result.Intervals, result.OutputPath)

	return result
}

// Run analyzes every configured data file with every configured variant. Analyses run
// concurrently, bounded by the worker limit. Cancelling the context stops scheduling new
// analyses. The returned error joins every analysis failure.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	sources := sourceLabels(r.cfg.DataFilepaths)
	jobs := make([]job, 0, len(r.cfg.DataFilepaths)*len(r.cfg.Variants))
	for idx, path := range r.cfg.DataFilepaths {
		for _, variant := range r.cfg.Variants {
			jobs = append(jobs, job{filepath: path, source: sources[idx], variant: variant})
		}
	}

	results := make([]Result, len(jobs))

	var wg sync.WaitGroup
	for idx := range jobs {
		cancelled := Result{Filepath: jobs[idx].filepath, Variant: jobs[idx].variant}
		if ctx.Err() != nil {
			cancelled.Err = ctx.Err()
			results[idx] = cancelled
			continue
		}

		select {
		case <-ctx.Done():
			cancelled.Err = ctx.Err()
			results[idx] = cancelled
			continue
		case r.workers <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int) {
			defer func() {
				<-r.workers
				wg.Done()
			}()

			results[idx] = r.process(ctx, jobs[idx])
		}(idx)
	}

	wg.Wait()

	var errs error
	for idx := range results {
		if results[idx].Err != nil {
			r.failed.Inc()
			r.logger.Error().Err(results[idx].Err).Msgf("%s analysis of %s failed",
				results[idx].Variant, results[idx].Filepath)
			errs = errors.Join(errs, results[idx].Err)
			continue
		}

		r.processed.Inc()
	}

	r.logger.Info().Msgf("runner done, %d analyses processed, %d failed", r.Processed(), r.Failed())

	return results, errs
}
