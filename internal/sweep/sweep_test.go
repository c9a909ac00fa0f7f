package sweep

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const definitions = `path,invasiveBaseGrowthRate,invasiveBaseGrowthRate_unit,treeSuppression,removalDuration,removalDuration_unit
growth_low,4,percent,,,
suppression_strong,,,0.8,,
removal_long,,,,20,count
`

func TestParseDefinitions(t *testing.T) {
	variants, err := ParseDefinitions(strings.NewReader(definitions))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(variants) != 3 {
		t.Fatalf("variants = %d, want 3", len(variants))
	}

	first := variants[0]
	if first.Path != "growth_low" {
		t.Fatalf("path = %q", first.Path)
	}
	if len(first.Params) != 1 {
		t.Fatalf("growth_low params = %v, want only the non-empty cell", first.Params)
	}
	if p := first.Params[0]; p.Name != "invasiveBaseGrowthRate" || p.Value != "4" || p.Unit != "percent" {
		t.Fatalf("param = %+v", p)
	}

	second := variants[1]
	if len(second.Params) != 1 || second.Params[0].Name != "treeSuppression" || second.Params[0].Unit != "" {
		t.Fatalf("suppression_strong params = %v", second.Params)
	}
}

func TestParseDefinitionsRequiresPath(t *testing.T) {
	if _, err := ParseDefinitions(strings.NewReader("a,b\n1,2\n")); err == nil {
		t.Fatal("expected error without path column")
	}
	if _, err := ParseDefinitions(strings.NewReader("path,a\n,1\n")); err == nil {
		t.Fatal("expected error for empty path cell")
	}
}

func TestFragmentRendering(t *testing.T) {
	v := Variant{
		Path: "growth_low",
		Params: []Param{
			{Name: "invasiveBaseGrowthRate", Value: "4", Unit: "percent"},
			{Name: "treeSuppression", Value: "0.8"},
		},
	}
	got := v.Fragment(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	for _, want := range []string{
		"# Path: growth_low\n",
		"# Generated: 2025-06-01T12:00:00Z\n",
		"invasiveBaseGrowthRate = 4 percent\n",
		"treeSuppression = 0.8\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("fragment missing %q:\n%s", want, got)
		}
	}
}

func TestGenerateAndClean(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sweep_definitions.csv")
	if err := os.WriteFile(csvPath, []byte(definitions), 0o644); err != nil {
		t.Fatal(err)
	}
	outRoot := filepath.Join(dir, "generated")

	written, err := Generate(csvPath, outRoot)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("wrote %d fragments, want 3", len(written))
	}
	content, err := os.ReadFile(filepath.Join(outRoot, "removal_long", FragmentName))
	if err != nil {
		t.Fatalf("read fragment: %v", err)
	}
	if !strings.Contains(string(content), "removalDuration = 20 count\n") {
		t.Fatalf("fragment content:\n%s", content)
	}

	if err := Clean(csvPath, outRoot); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outRoot, "removal_long", FragmentName)); !os.IsNotExist(err) {
		t.Fatal("clean must remove generated fragments")
	}
}
