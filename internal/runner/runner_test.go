package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"regrow/internal/engine"
	"regrow/internal/params"
	"regrow/internal/scenario"
)

const testParams = `
totalSteps = 4 count
gridWidth = 2 count
gridHeight = 2 count
initialTreesPerPatch = 3 count
maxTreesPerPatch = 10 count
initialAgeMin = 0 years
initialAgeMax = 20 years
seedlingToJuvenileAge = 3 years
juvenileToAdultAge = 10 years
seedlingBaseMortality = 15 percent
juvenileBaseMortality = 5 percent
adultBaseMortality = 2 percent
seedlingInvasivePressure = 10 percent
invasivePressureThreshold = 40 percent
highSeverityThreshold = 0.8
mediumSeverityThreshold = 0.4
fireHighSeedling = 95 percent
fireHighJuvenile = 80 percent
fireHighAdult = 40 percent
fireMediumSeedling = 70 percent
fireMediumJuvenile = 45 percent
fireMediumAdult = 15 percent
fireLowSeedling = 30 percent
fireLowJuvenile = 12 percent
fireLowAdult = 5 percent
baselineInvasiveCover = 10 percent
fireHighInvasiveCover = 60 percent
fireMediumInvasiveCover = 40 percent
fireLowInvasiveCover = 20 percent
establishmentThreshold = 50 percent
invasiveBaseGrowthRate = 8 percent
postFireGrowthBonus = 6 percent
postFireBonusDuration = 8 count
treeSuppression = 0.5
removalDuration = 10 count
`

func testStore(t *testing.T) *params.Store {
	t.Helper()
	s, err := params.Parse(strings.NewReader(testParams), "test")
	if err != nil {
		t.Fatalf("parse test parameters: %v", err)
	}
	return s
}

func writeSeverity(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fire_severity.csv")
	if err := os.WriteFile(path, []byte("0.95,0.5\n0.2,0.85\n"), 0o644); err != nil {
		t.Fatalf("write severity: %v", err)
	}
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAllScenariosSucceed(t *testing.T) {
	eng, err := engine.New("builtin", engine.Config{})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	summary, err := Run(context.Background(), Options{
		Store:        testStore(t),
		Engine:       eng,
		ResultsDir:   dir,
		FireDataPath: writeSeverity(t),
		Seed:         1337,
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Succeeded != 5 || summary.Total != 5 {
		t.Fatalf("summary = %d/%d, want 5/5", summary.Succeeded, summary.Total)
	}
	for _, sc := range scenario.All() {
		path := OutputPath(dir, sc.Name, 0)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("missing output for %s: %v", sc.Name, err)
		}
	}
	// Declaration order is preserved in the results.
	for i, sc := range scenario.All() {
		if summary.Results[i].Scenario.Name != sc.Name {
			t.Fatalf("result %d is %s, want %s", i, summary.Results[i].Scenario.Name, sc.Name)
		}
	}
}

func TestRunMissingParameterAbortsEverything(t *testing.T) {
	trimmed := strings.Replace(testParams, "maxTreesPerPatch = 10 count\n", "", 1)
	store, err := params.Parse(strings.NewReader(trimmed), "test")
	if err != nil {
		t.Fatal(err)
	}
	eng, err := engine.New("builtin", engine.Config{})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	_, err = Run(context.Background(), Options{
		Store:      store,
		Engine:     eng,
		ResultsDir: dir,
		Log:        quietLogger(),
	})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("configuration error must abort before any output, found %d entries", len(entries))
	}
}

func TestRunMissingFireDataFailsOnlyFireScenarios(t *testing.T) {
	eng, err := engine.New("builtin", engine.Config{})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	summary, err := Run(context.Background(), Options{
		Store:        testStore(t),
		Engine:       eng,
		ResultsDir:   dir,
		FireDataPath: filepath.Join(dir, "nope.csv"),
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1 (baseline only)", summary.Succeeded)
	}
	for _, res := range summary.Results {
		if res.Scenario.HasFire && !res.Failed() {
			t.Fatalf("fire scenario %s should have failed", res.Scenario.Name)
		}
	}
	if _, err := os.Stat(OutputPath(dir, "baseline", 0)); err != nil {
		t.Fatalf("baseline output missing: %v", err)
	}
}

// failingEngine fails a chosen scenario and delegates the rest.
type failingEngine struct {
	inner engine.Engine
	fail  string
}

func (e *failingEngine) Name() string { return "failing" }

func (e *failingEngine) Run(ctx context.Context, spec engine.RunSpec) error {
	if spec.Scenario.Name == e.fail {
		return &engine.ExecutionError{Scenario: spec.Scenario.Name, Err: fmt.Errorf("exit status 1")}
	}
	return e.inner.Run(ctx, spec)
}

func TestRunContinuesPastEngineFailure(t *testing.T) {
	inner, err := engine.New("builtin", engine.Config{})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	summary, err := Run(context.Background(), Options{
		Store:        testStore(t),
		Engine:       &failingEngine{inner: inner, fail: "fire_seeding"},
		ResultsDir:   dir,
		FireDataPath: writeSeverity(t),
		Seed:         1337,
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Succeeded != 4 {
		t.Fatalf("succeeded = %d, want 4 of 5", summary.Succeeded)
	}
	for _, res := range summary.Results {
		failed := res.Scenario.Name == "fire_seeding"
		if res.Failed() != failed {
			t.Fatalf("scenario %s failed=%t, want %t", res.Scenario.Name, res.Failed(), failed)
		}
	}
}

func TestRunReplicatesProduceSeparateOutputs(t *testing.T) {
	eng, err := engine.New("builtin", engine.Config{})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	summary, err := Run(context.Background(), Options{
		Store:        testStore(t),
		Engine:       eng,
		ResultsDir:   dir,
		FireDataPath: writeSeverity(t),
		Seed:         1337,
		Replicates:   2,
		Log:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Succeeded != 5 {
		t.Fatalf("succeeded = %d, want 5", summary.Succeeded)
	}
	for _, rep := range []int{0, 1} {
		if _, err := os.Stat(OutputPath(dir, "fire_only", rep)); err != nil {
			t.Fatalf("missing replicate %d output: %v", rep, err)
		}
	}
}
