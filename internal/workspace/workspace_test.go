package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Engine.Kind != "builtin" || cfg.Replicates != 1 || cfg.Seed != 1337 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regrow.yaml")
	content := `
params: my/params.jshc
fire_data: my/fire.csv
results_dir: out
seed: 99
replicates: 3
engine:
  kind: exec
  command: ["josh", "run", "{model}", "--data", "{data}", "--output", "{output}"]
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Params != "my/params.jshc" || cfg.Seed != 99 || cfg.Replicates != 3 {
		t.Fatalf("config = %+v", cfg)
	}
	if cfg.Engine.Kind != "exec" || len(cfg.Engine.Command) != 7 {
		t.Fatalf("engine = %+v", cfg.Engine)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Params != Default().Params {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REGROW_RESULTS_DIR", "/tmp/elsewhere")
	t.Setenv("REGROW_SEED", "4242")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ResultsDir != "/tmp/elsewhere" {
		t.Fatalf("results dir = %q", cfg.ResultsDir)
	}
	if cfg.Seed != 4242 {
		t.Fatalf("seed = %d", cfg.Seed)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	bad := []*Config{
		{ResultsDir: "out", Replicates: 1, Engine: EngineConfig{Kind: "builtin"}},                           // no params
		{Params: "p", ResultsDir: "out", Replicates: 0, Engine: EngineConfig{Kind: "builtin"}},              // bad replicates
		{Params: "p", ResultsDir: "out", Replicates: 1, Engine: EngineConfig{Kind: "exec"}},                 // exec without command
		{Params: "p", ResultsDir: "out", Replicates: 1, Engine: EngineConfig{Kind: "warp"}},                 // unknown engine
	}
	for i, cfg := range bad {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("config %d should not validate: %+v", i, cfg)
		}
	}
}
