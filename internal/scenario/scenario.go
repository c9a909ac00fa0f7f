// Package scenario enumerates the fixed counterfactual scenarios compared by
// a run. Scenarios are static configuration: new ones are additions to the
// table, never edits elsewhere.
package scenario

import "fmt"

// Scenario names one counterfactual and its structural knobs.
type Scenario struct {
	// Name identifies the scenario and labels its rows in combined output.
	Name string
	// HasFire selects fire-severity initialization from spatial data.
	HasFire bool
	// SeedingBoost is the number of planted seedlings added per patch at
	// initialization.
	SeedingBoost int
	// RemovalEffort is the invasive removal intervention in percent per step,
	// active while the removal window lasts.
	RemovalEffort float64
}

var table = []Scenario{
	{Name: "baseline", HasFire: false, SeedingBoost: 0, RemovalEffort: 0},
	{Name: "fire_only", HasFire: true, SeedingBoost: 0, RemovalEffort: 0},
	{Name: "fire_seeding", HasFire: true, SeedingBoost: 8, RemovalEffort: 0},
	{Name: "fire_removal", HasFire: true, SeedingBoost: 0, RemovalEffort: 12},
	{Name: "fire_both", HasFire: true, SeedingBoost: 8, RemovalEffort: 12},
}

// All returns a fresh copy of the scenario table in declaration order.
func All() []Scenario {
	out := make([]Scenario, len(table))
	copy(out, table)
	return out
}

// ByName looks up a scenario by its name.
func ByName(name string) (Scenario, error) {
	for _, sc := range table {
		if sc.Name == name {
			return sc, nil
		}
	}
	return Scenario{}, fmt.Errorf("unknown scenario %q", name)
}
