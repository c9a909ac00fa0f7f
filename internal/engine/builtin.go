package engine

import (
	"context"
	"fmt"
	"os"

	"regrow/internal/sim"
)

func init() {
	Register("builtin", func(Config) (Engine, error) { return &builtinEngine{}, nil })
}

// builtinEngine executes the model in-process and streams rows to CSV.
type builtinEngine struct{}

func (e *builtinEngine) Name() string { return "builtin" }

// Run simulates the scenario to its step horizon. Output appears at
// spec.OutputPath only on success; a failed or cancelled run leaves nothing
// behind.
func (e *builtinEngine) Run(ctx context.Context, spec RunSpec) error {
	world, err := sim.New(spec.Rules, spec.Severity, spec.Seed+int64(spec.Replicate))
	if err != nil {
		return err
	}

	tmp := spec.OutputPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	discard := func() {
		f.Close()
		os.Remove(tmp)
	}

	rec := sim.NewCSVRecorder(f)
	if err := rec.Record(world.Rows()); err != nil {
		discard()
		return fmt.Errorf("write output: %w", err)
	}
	for step := 1; step <= spec.Rules.TotalSteps; step++ {
		select {
		case <-ctx.Done():
			discard()
			return ctx.Err()
		default:
		}
		world.Step()
		if err := rec.Record(world.Rows()); err != nil {
			discard()
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := rec.Flush(); err != nil {
		discard()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close output: %w", err)
	}
	return os.Rename(tmp, spec.OutputPath)
}
