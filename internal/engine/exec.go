package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

func init() {
	Register("exec", func(cfg Config) (Engine, error) {
		if len(cfg.Command) == 0 {
			return nil, fmt.Errorf("exec engine requires a command template")
		}
		return &execEngine{command: cfg.Command, workDir: cfg.WorkDir}, nil
	})
}

// execEngine drives a pre-existing external simulation engine: it writes the
// resolved rule set as a model description file, substitutes the model, data
// and output paths into the command template, and waits for the process.
type execEngine struct {
	command []string
	workDir string
}

func (e *execEngine) Name() string { return "exec" }

func (e *execEngine) Run(ctx context.Context, spec RunSpec) error {
	dir := e.workDir
	if dir == "" {
		dir = os.TempDir()
	}
	modelPath := filepath.Join(dir, fmt.Sprintf("scenario_%s.model", spec.Scenario.Name))
	if err := os.WriteFile(modelPath, []byte(renderModel(spec)), 0o644); err != nil {
		return fmt.Errorf("write model description: %w", err)
	}

	argv := make([]string, len(e.command))
	for i, arg := range e.command {
		arg = strings.ReplaceAll(arg, "{model}", modelPath)
		arg = strings.ReplaceAll(arg, "{data}", spec.DataPath)
		arg = strings.ReplaceAll(arg, "{output}", spec.OutputPath)
		argv[i] = arg
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(spec.OutputPath)
		return &ExecutionError{Scenario: spec.Scenario.Name, Output: strings.TrimSpace(string(out)), Err: err}
	}
	return nil
}

// renderModel serializes the resolved rule set in the flat name = value unit
// form the parameter files use, scenario knobs included.
func renderModel(spec RunSpec) string {
	r := spec.Rules
	var b strings.Builder
	fmt.Fprintf(&b, "# Post-fire vegetation recovery model - %s\n", spec.Scenario.Name)
	fmt.Fprintf(&b, "# Resolved rule set; all percentages in [0,100]\n\n")

	writeInt := func(name string, v int, unit string) {
		if unit == "" {
			fmt.Fprintf(&b, "%s = %d\n", name, v)
			return
		}
		fmt.Fprintf(&b, "%s = %d %s\n", name, v, unit)
	}
	writeFloat := func(name string, v float64, unit string) {
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if unit == "" {
			fmt.Fprintf(&b, "%s = %s\n", name, s)
			return
		}
		fmt.Fprintf(&b, "%s = %s %s\n", name, s, unit)
	}
	writeBool := func(name string, v bool) {
		n := 0
		if v {
			n = 1
		}
		fmt.Fprintf(&b, "%s = %d\n", name, n)
	}

	writeBool("hasFire", r.HasFire)
	writeInt("seedingBoost", r.SeedingBoost, "count")
	writeFloat("removalEffort", r.RemovalEffort, "percent")
	writeInt("replicate", spec.Replicate, "")
	writeInt("seed", int(spec.Seed), "")

	writeInt("totalSteps", r.TotalSteps, "count")
	writeInt("gridWidth", r.GridWidth, "count")
	writeInt("gridHeight", r.GridHeight, "count")
	writeInt("initialTreesPerPatch", r.InitialTreesPerPatch, "count")
	writeInt("maxTreesPerPatch", r.MaxTreesPerPatch, "count")
	writeInt("initialAgeMin", r.InitialAgeMin, "years")
	writeInt("initialAgeMax", r.InitialAgeMax, "years")
	writeInt("seedlingToJuvenileAge", r.SeedlingToJuvenileAge, "years")
	writeInt("juvenileToAdultAge", r.JuvenileToAdultAge, "years")

	writeFloat("seedlingBaseMortality", r.SeedlingBaseMortality, "percent")
	writeFloat("juvenileBaseMortality", r.JuvenileBaseMortality, "percent")
	writeFloat("adultBaseMortality", r.AdultBaseMortality, "percent")
	writeFloat("seedlingInvasivePressure", r.SeedlingInvasivePressure, "percent")
	writeFloat("invasivePressureThreshold", r.InvasivePressureThreshold, "percent")

	writeFloat("highSeverityThreshold", r.HighSeverityThreshold, "")
	writeFloat("mediumSeverityThreshold", r.MediumSeverityThreshold, "")
	writeFloat("fireHighSeedling", r.FireMortalityHigh.Seedling, "percent")
	writeFloat("fireHighJuvenile", r.FireMortalityHigh.Juvenile, "percent")
	writeFloat("fireHighAdult", r.FireMortalityHigh.Adult, "percent")
	writeFloat("fireMediumSeedling", r.FireMortalityMedium.Seedling, "percent")
	writeFloat("fireMediumJuvenile", r.FireMortalityMedium.Juvenile, "percent")
	writeFloat("fireMediumAdult", r.FireMortalityMedium.Adult, "percent")
	writeFloat("fireLowSeedling", r.FireMortalityLow.Seedling, "percent")
	writeFloat("fireLowJuvenile", r.FireMortalityLow.Juvenile, "percent")
	writeFloat("fireLowAdult", r.FireMortalityLow.Adult, "percent")

	writeFloat("baselineInvasiveCover", r.BaselineInvasiveCover, "percent")
	writeFloat("fireHighInvasiveCover", r.FireHighInvasiveCover, "percent")
	writeFloat("fireMediumInvasiveCover", r.FireMediumInvasiveCover, "percent")
	writeFloat("fireLowInvasiveCover", r.FireLowInvasiveCover, "percent")

	writeFloat("establishmentThreshold", r.EstablishmentThreshold, "percent")
	writeFloat("invasiveBaseGrowthRate", r.InvasiveBaseGrowthRate, "percent")
	writeFloat("postFireGrowthBonus", r.PostFireGrowthBonus, "percent")
	writeInt("postFireBonusDuration", r.PostFireBonusDuration, "count")
	writeFloat("treeSuppression", r.TreeSuppression, "")
	writeInt("removalDuration", r.RemovalDuration, "count")

	return b.String()
}
