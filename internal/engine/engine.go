// Package engine abstracts the simulation executor. The builtin engine runs
// the model in-process; the exec engine hands a generated model description
// to an external command. Either way the contract is one CSV of per-step,
// per-patch rows at the requested output path.
package engine

import (
	"context"
	"fmt"

	"regrow/internal/core"
	"regrow/internal/model"
	"regrow/internal/scenario"
)

// RunSpec carries everything one scenario execution needs.
type RunSpec struct {
	Scenario  scenario.Scenario
	Rules     model.Rules
	Severity  *core.FloatGrid
	Seed      int64
	Replicate int

	// DataPath is the on-disk fire-severity input handed to external
	// engines; the builtin engine reads the loaded Severity grid instead.
	DataPath string

	// OutputPath is where the engine must leave the per-step CSV.
	OutputPath string
}

// Engine executes one scenario run to completion.
type Engine interface {
	Name() string
	Run(ctx context.Context, spec RunSpec) error
}

// Config holds engine construction options.
type Config struct {
	// Command is the external engine argv template; the placeholders
	// {model}, {data} and {output} are substituted per run.
	Command []string
	// WorkDir is where generated model descriptions are written.
	WorkDir string
}

// ExecutionError reports an engine run failure. The scenario is marked
// failed; orchestration continues with the rest.
type ExecutionError struct {
	Scenario string
	Output   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("engine run for %s failed: %v: %s", e.Scenario, e.Err, e.Output)
	}
	return fmt.Sprintf("engine run for %s failed: %v", e.Scenario, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Factory constructs an Engine from configuration.
type Factory func(cfg Config) (Engine, error)

var engines = map[string]Factory{}

// Register adds an engine factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	engines[name] = f
}

// New constructs the named engine.
func New(name string, cfg Config) (Engine, error) {
	f, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q", name)
	}
	return f(cfg)
}
