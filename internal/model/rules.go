// Package model resolves a scenario plus a parameter store into the complete
// closed-form rule set one simulation run executes. Construction is
// deterministic; all randomness lives in the simulation itself.
package model

import (
	"fmt"

	"regrow/internal/params"
	"regrow/internal/scenario"
)

// LifeStage enumerates the organism life-cycle states. Progression is
// monotonic: Seedling -> Juvenile -> Adult.
type LifeStage uint8

const (
	StageSeedling LifeStage = iota
	StageJuvenile
	StageAdult
)

// String returns the stage label used in exported data.
func (s LifeStage) String() string {
	switch s {
	case StageSeedling:
		return "Seedling"
	case StageJuvenile:
		return "Juvenile"
	case StageAdult:
		return "Adult"
	}
	return fmt.Sprintf("LifeStage(%d)", uint8(s))
}

// SeverityTier classifies a patch's fire severity into bands.
type SeverityTier uint8

const (
	TierLow SeverityTier = iota
	TierMedium
	TierHigh
)

// StageRates holds one percentage per life stage.
type StageRates struct {
	Seedling float64
	Juvenile float64
	Adult    float64
}

// For returns the rate for the given stage.
func (r StageRates) For(stage LifeStage) float64 {
	switch stage {
	case StageSeedling:
		return r.Seedling
	case StageJuvenile:
		return r.Juvenile
	default:
		return r.Adult
	}
}

// Rules is the fully resolved rule set for one scenario. Percentages are in
// [0,100], severities and thresholds on severity in [0,1].
type Rules struct {
	ScenarioName string

	TotalSteps int
	GridWidth  int
	GridHeight int

	InitialTreesPerPatch int
	MaxTreesPerPatch     int
	SeedingBoost         int
	InitialAgeMin        int
	InitialAgeMax        int

	SeedlingToJuvenileAge int
	JuvenileToAdultAge    int

	SeedlingBaseMortality     float64
	JuvenileBaseMortality     float64
	AdultBaseMortality        float64
	SeedlingInvasivePressure  float64
	InvasivePressureThreshold float64

	HasFire                 bool
	HighSeverityThreshold   float64
	MediumSeverityThreshold float64
	FireMortalityHigh       StageRates
	FireMortalityMedium     StageRates
	FireMortalityLow        StageRates

	BaselineInvasiveCover   float64
	FireHighInvasiveCover   float64
	FireMediumInvasiveCover float64
	FireLowInvasiveCover    float64

	EstablishmentThreshold float64
	InvasiveBaseGrowthRate float64
	PostFireGrowthBonus    float64
	PostFireBonusDuration  int
	TreeSuppression        float64
	RemovalEffort          float64
	RemovalDuration        int
}

// Parameterize builds the rule set for one scenario. Any missing or
// malformed parameter fails the whole construction; the model is never left
// partially built.
func Parameterize(store *params.Store, sc scenario.Scenario) (Rules, error) {
	r := Rules{
		ScenarioName:  sc.Name,
		HasFire:       sc.HasFire,
		SeedingBoost:  sc.SeedingBoost,
		RemovalEffort: sc.RemovalEffort,
	}

	var err error
	ints := []struct {
		dst  *int
		name string
	}{
		{&r.TotalSteps, "totalSteps"},
		{&r.GridWidth, "gridWidth"},
		{&r.GridHeight, "gridHeight"},
		{&r.InitialTreesPerPatch, "initialTreesPerPatch"},
		{&r.MaxTreesPerPatch, "maxTreesPerPatch"},
		{&r.InitialAgeMin, "initialAgeMin"},
		{&r.InitialAgeMax, "initialAgeMax"},
		{&r.SeedlingToJuvenileAge, "seedlingToJuvenileAge"},
		{&r.JuvenileToAdultAge, "juvenileToAdultAge"},
		{&r.PostFireBonusDuration, "postFireBonusDuration"},
		{&r.RemovalDuration, "removalDuration"},
	}
	for _, p := range ints {
		if *p.dst, err = store.Int(p.name); err != nil {
			return Rules{}, fmt.Errorf("parameterize %s: %w", sc.Name, err)
		}
	}

	// pct marks percentage parameters, range-checked to [0,100] at load.
	floats := []struct {
		dst  *float64
		name string
		pct  bool
	}{
		{&r.SeedlingBaseMortality, "seedlingBaseMortality", true},
		{&r.JuvenileBaseMortality, "juvenileBaseMortality", true},
		{&r.AdultBaseMortality, "adultBaseMortality", true},
		{&r.SeedlingInvasivePressure, "seedlingInvasivePressure", true},
		{&r.InvasivePressureThreshold, "invasivePressureThreshold", true},
		{&r.HighSeverityThreshold, "highSeverityThreshold", false},
		{&r.MediumSeverityThreshold, "mediumSeverityThreshold", false},
		{&r.FireMortalityHigh.Seedling, "fireHighSeedling", true},
		{&r.FireMortalityHigh.Juvenile, "fireHighJuvenile", true},
		{&r.FireMortalityHigh.Adult, "fireHighAdult", true},
		{&r.FireMortalityMedium.Seedling, "fireMediumSeedling", true},
		{&r.FireMortalityMedium.Juvenile, "fireMediumJuvenile", true},
		{&r.FireMortalityMedium.Adult, "fireMediumAdult", true},
		{&r.FireMortalityLow.Seedling, "fireLowSeedling", true},
		{&r.FireMortalityLow.Juvenile, "fireLowJuvenile", true},
		{&r.FireMortalityLow.Adult, "fireLowAdult", true},
		{&r.BaselineInvasiveCover, "baselineInvasiveCover", true},
		{&r.FireHighInvasiveCover, "fireHighInvasiveCover", true},
		{&r.FireMediumInvasiveCover, "fireMediumInvasiveCover", true},
		{&r.FireLowInvasiveCover, "fireLowInvasiveCover", true},
		{&r.EstablishmentThreshold, "establishmentThreshold", true},
		{&r.InvasiveBaseGrowthRate, "invasiveBaseGrowthRate", true},
		{&r.PostFireGrowthBonus, "postFireGrowthBonus", true},
		{&r.TreeSuppression, "treeSuppression", false},
	}
	for _, p := range floats {
		if p.pct {
			*p.dst, err = store.Percent(p.name)
		} else {
			*p.dst, err = store.Float(p.name)
		}
		if err != nil {
			return Rules{}, fmt.Errorf("parameterize %s: %w", sc.Name, err)
		}
	}

	if err := r.validate(); err != nil {
		return Rules{}, fmt.Errorf("parameterize %s: %w", sc.Name, err)
	}
	return r, nil
}

func (r Rules) validate() error {
	switch {
	case r.TotalSteps < 0:
		return fmt.Errorf("totalSteps must be non-negative, got %d", r.TotalSteps)
	case r.GridWidth <= 0 || r.GridHeight <= 0:
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", r.GridWidth, r.GridHeight)
	case r.MaxTreesPerPatch <= 0:
		return fmt.Errorf("maxTreesPerPatch must be positive, got %d", r.MaxTreesPerPatch)
	case r.InitialAgeMax < r.InitialAgeMin:
		return fmt.Errorf("initialAgeMax %d below initialAgeMin %d", r.InitialAgeMax, r.InitialAgeMin)
	case r.InitialAgeMin < 0:
		return fmt.Errorf("initialAgeMin must be non-negative, got %d", r.InitialAgeMin)
	case r.SeedingBoost < 0:
		return fmt.Errorf("seedingBoost must be non-negative, got %d", r.SeedingBoost)
	case r.RemovalEffort < 0 || r.RemovalEffort > 100:
		return fmt.Errorf("removalEffort must be in [0,100], got %g", r.RemovalEffort)
	}
	return nil
}

// Tier classifies a fire severity against the two thresholds. Comparisons
// are strictly greater: a severity exactly at a threshold falls to the
// lower tier.
func (r Rules) Tier(severity float64) SeverityTier {
	switch {
	case severity > r.HighSeverityThreshold:
		return TierHigh
	case severity > r.MediumSeverityThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// FireMortality returns the birth-time fire mortality percentage for an
// organism at the given stage on a patch with the given severity. Zero for
// every stage when fire is disabled.
func (r Rules) FireMortality(severity float64, stage LifeStage) float64 {
	if !r.HasFire {
		return 0
	}
	switch r.Tier(severity) {
	case TierHigh:
		return r.FireMortalityHigh.For(stage)
	case TierMedium:
		return r.FireMortalityMedium.For(stage)
	default:
		return r.FireMortalityLow.For(stage)
	}
}

// InitialInvasiveCover returns the initial invasive cover for a patch with
// the given severity, mirroring the fire-mortality tiers. Without fire it is
// the single baseline constant.
func (r Rules) InitialInvasiveCover(severity float64) float64 {
	if !r.HasFire {
		return r.BaselineInvasiveCover
	}
	switch r.Tier(severity) {
	case TierHigh:
		return r.FireHighInvasiveCover
	case TierMedium:
		return r.FireMediumInvasiveCover
	default:
		return r.FireLowInvasiveCover
	}
}

// StageFromAge derives an organism's initial stage from its age.
func (r Rules) StageFromAge(age int) LifeStage {
	switch {
	case age >= r.JuvenileToAdultAge:
		return StageAdult
	case age >= r.SeedlingToJuvenileAge:
		return StageJuvenile
	default:
		return StageSeedling
	}
}

// PostFireBonus returns the additive invasive growth bonus in percent while
// the post-fire window lasts; zero after it, or always when fire is off.
func (r Rules) PostFireBonus(stepCount int) float64 {
	if !r.HasFire || stepCount >= r.PostFireBonusDuration {
		return 0
	}
	return r.PostFireGrowthBonus
}

// ActiveRemoval returns the removal intervention in percent while the
// removal window lasts; zero after the window expires.
func (r Rules) ActiveRemoval(stepCount int) float64 {
	if stepCount >= r.RemovalDuration {
		return 0
	}
	return r.RemovalEffort
}
