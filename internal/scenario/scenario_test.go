package scenario

import "testing"

func TestTableContents(t *testing.T) {
	all := All()
	if len(all) != 5 {
		t.Fatalf("expected 5 scenarios, got %d", len(all))
	}

	want := []Scenario{
		{Name: "baseline", HasFire: false, SeedingBoost: 0, RemovalEffort: 0},
		{Name: "fire_only", HasFire: true, SeedingBoost: 0, RemovalEffort: 0},
		{Name: "fire_seeding", HasFire: true, SeedingBoost: 8, RemovalEffort: 0},
		{Name: "fire_removal", HasFire: true, SeedingBoost: 0, RemovalEffort: 12},
		{Name: "fire_both", HasFire: true, SeedingBoost: 8, RemovalEffort: 12},
	}
	for i, sc := range all {
		if sc != want[i] {
			t.Fatalf("scenario %d = %+v, want %+v", i, sc, want[i])
		}
	}
}

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Name = "mutated"
	if All()[0].Name != "baseline" {
		t.Fatal("All must return a copy, not the backing table")
	}
}

func TestByName(t *testing.T) {
	sc, err := ByName("fire_removal")
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	if !sc.HasFire || sc.RemovalEffort != 12 {
		t.Fatalf("fire_removal = %+v", sc)
	}

	if _, err := ByName("no_such_scenario"); err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}
