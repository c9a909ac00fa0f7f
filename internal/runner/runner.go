// Package runner drives the scenario sweep: it parameterizes every scenario,
// executes each through the configured engine, and reports per-scenario
// outcomes plus a success count. Scenarios share no mutable state, so they
// run on a small worker pool; results are identical to sequential execution.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"regrow/internal/core"
	"regrow/internal/engine"
	"regrow/internal/model"
	"regrow/internal/params"
	"regrow/internal/scenario"
	"regrow/internal/sim"
)

// Options configures one orchestrated run.
type Options struct {
	Store      *params.Store
	Scenarios  []scenario.Scenario
	Engine     engine.Engine
	ResultsDir string

	// FireDataPath locates the severity raster; only read when at least one
	// scenario enables fire.
	FireDataPath string

	Seed       int64
	Replicates int
	Workers    int

	Log *slog.Logger
}

// Result is one scenario's outcome.
type Result struct {
	Scenario    scenario.Scenario
	OutputPaths []string
	Duration    time.Duration
	Err         error
}

// Failed reports whether the scenario must be excluded from aggregation.
func (r Result) Failed() bool { return r.Err != nil }

// Summary aggregates the outcomes of all scenarios in declaration order.
type Summary struct {
	Results   []Result
	Succeeded int
	Total     int
}

type job struct {
	sc    scenario.Scenario
	rules model.Rules
}

// Run executes every scenario. A configuration error aborts the whole run
// before any simulation step; input-data and engine errors fail only their
// own scenario.
func Run(ctx context.Context, opts Options) (Summary, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	scenarios := opts.Scenarios
	if scenarios == nil {
		scenarios = scenario.All()
	}
	replicates := opts.Replicates
	if replicates <= 0 {
		replicates = 1
	}
	workers := opts.Workers
	if workers <= 0 || workers > len(scenarios) {
		workers = len(scenarios)
	}

	// Parameterize everything up front: a bad parameter set must abort
	// before any scenario starts executing.
	jobs := make([]job, len(scenarios))
	for i, sc := range scenarios {
		rules, err := model.Parameterize(opts.Store, sc)
		if err != nil {
			return Summary{}, err
		}
		jobs[i] = job{sc: sc, rules: rules}
	}

	if err := os.MkdirAll(opts.ResultsDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create results dir: %w", err)
	}

	// The severity raster is loaded once and shared read-only. A load
	// failure fails exactly the fire scenarios; the rest still run.
	var severity *core.FloatGrid
	var severityErr error
	if needsFire(jobs) {
		size := fireGridSize(jobs)
		severity, severityErr = sim.LoadFireSeverity(opts.FireDataPath, size)
		if severityErr != nil {
			log.Warn("fire severity data unavailable", "path", opts.FireDataPath, "err", severityErr)
		}
	}

	queue := make(chan job)
	done := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				done <- runOne(ctx, opts, j, severity, severityErr)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()
	go func() {
		for _, j := range jobs {
			queue <- j
		}
		close(queue)
	}()

	results := make([]Result, len(scenarios))
	for res := range done {
		for i := range scenarios {
			if scenarios[i].Name == res.Scenario.Name {
				results[i] = res
			}
		}
	}

	summary := Summary{Results: results, Total: len(results)}
	for _, res := range results {
		if res.Failed() {
			log.Error("scenario failed", "scenario", res.Scenario.Name, "err", res.Err)
			continue
		}
		summary.Succeeded++
		log.Info("scenario complete",
			"scenario", res.Scenario.Name,
			"fire", res.Scenario.HasFire,
			"seeding", res.Scenario.SeedingBoost,
			"removal", res.Scenario.RemovalEffort,
			"elapsed", res.Duration.Round(time.Millisecond))
	}
	log.Info("scenario sweep finished", "succeeded", summary.Succeeded, "total", summary.Total)
	return summary, nil
}

func runOne(ctx context.Context, opts Options, j job, severity *core.FloatGrid, severityErr error) Result {
	res := Result{Scenario: j.sc}
	if j.sc.HasFire && severityErr != nil {
		res.Err = severityErr
		return res
	}

	replicates := opts.Replicates
	if replicates <= 0 {
		replicates = 1
	}

	start := time.Now()
	for rep := 0; rep < replicates; rep++ {
		spec := engine.RunSpec{
			Scenario:   j.sc,
			Rules:      j.rules,
			Seed:       opts.Seed,
			Replicate:  rep,
			DataPath:   opts.FireDataPath,
			OutputPath: OutputPath(opts.ResultsDir, j.sc.Name, rep),
		}
		if j.sc.HasFire {
			spec.Severity = severity
		}
		if err := opts.Engine.Run(ctx, spec); err != nil {
			res.Err = err
			return res
		}
		res.OutputPaths = append(res.OutputPaths, spec.OutputPath)
	}
	res.Duration = time.Since(start)
	return res
}

// OutputPath names a scenario replicate's CSV inside the results directory.
func OutputPath(dir, scenarioName string, replicate int) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.csv", scenarioName, replicate))
}

func needsFire(jobs []job) bool {
	for _, j := range jobs {
		if j.sc.HasFire {
			return true
		}
	}
	return false
}

// fireGridSize picks the grid dimensions the raster must match. All
// scenarios resolve from the same parameter set, so the first fire scenario
// is authoritative.
func fireGridSize(jobs []job) core.Size {
	for _, j := range jobs {
		if j.sc.HasFire {
			return core.Size{W: j.rules.GridWidth, H: j.rules.GridHeight}
		}
	}
	return core.Size{}
}
