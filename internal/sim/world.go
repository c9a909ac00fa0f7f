// Package sim executes the post-fire recovery model: a grid of patches, each
// owning a cohort of tree organisms competing against invasive cover. One
// Step advances every patch by one year; every update reads the prior step's
// snapshot, so steps form a strict barrier.
package sim

import (
	"fmt"
	"math/rand/v2"

	"regrow/internal/core"
	"regrow/internal/model"
)

// Organism is one simulated tree. Stage only ever advances, and Alive is
// absorbing once false.
type Organism struct {
	Age   int
	Stage model.LifeStage
	Alive bool
}

// Patch is one spatial grid cell. Trees holds the step's population record,
// including organisms that died during the step; only living organisms are
// carried into the next step.
type Patch struct {
	X, Y int

	FireSeverity  float64
	InvasiveCover float64
	StepCount     int

	Trees []Organism

	// Derived counts for the current step. The per-stage counts and NumAlive
	// cover living organisms only; seedlings recruited this step are reported
	// in NewSeedlings and enter the counts next step.
	NumSeedling  int
	NumJuvenile  int
	NumAdult     int
	NumAlive     int
	NewSeedlings int
}

// World holds all per-run state for one scenario execution.
type World struct {
	rules   model.Rules
	w, h    int
	patches []Patch
	rng     *rand.Rand
}

// New builds an initialized world for the given rule set. severity supplies
// one scalar per patch and is required (with matching dimensions) when the
// rules enable fire; it is ignored otherwise.
func New(rules model.Rules, severity *core.FloatGrid, seed int64) (*World, error) {
	if rules.HasFire {
		if severity == nil {
			return nil, &InputDataError{Reason: "fire enabled but no severity raster supplied"}
		}
		if severity.W != rules.GridWidth || severity.H != rules.GridHeight {
			return nil, &InputDataError{Reason: fmt.Sprintf("severity raster is %dx%d, grid is %dx%d",
				severity.W, severity.H, rules.GridWidth, rules.GridHeight)}
		}
	}

	w := &World{
		rules:   rules,
		w:       rules.GridWidth,
		h:       rules.GridHeight,
		patches: make([]Patch, rules.GridWidth*rules.GridHeight),
		rng:     rand.New(rand.NewPCG(uint64(seed), 0)),
	}

	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			p := &w.patches[y*w.w+x]
			p.X, p.Y = x, y
			if rules.HasFire {
				p.FireSeverity = severity.At(x, y)
			}
			p.InvasiveCover = rules.InitialInvasiveCover(p.FireSeverity)
			w.populate(p)
			w.recount(p)
		}
	}
	return w, nil
}

// populate creates the initial cohort: sampled-age organisms subject to one
// birth fire-mortality roll, plus the scenario's planted seedlings, which
// arrive after the fire event and skip the roll.
func (w *World) populate(p *Patch) {
	span := w.rules.InitialAgeMax - w.rules.InitialAgeMin + 1
	for i := 0; i < w.rules.InitialTreesPerPatch; i++ {
		age := w.rules.InitialAgeMin + w.rng.IntN(span)
		o := Organism{Age: age, Stage: w.rules.StageFromAge(age), Alive: true}
		if w.rules.HasFire {
			mortality := w.rules.FireMortality(p.FireSeverity, o.Stage)
			o.Alive = w.rng.Float64()*100 > mortality
		}
		p.Trees = append(p.Trees, o)
	}
	for i := 0; i < w.rules.SeedingBoost; i++ {
		p.Trees = append(p.Trees, Organism{Age: 0, Stage: model.StageSeedling, Alive: true})
	}
}

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Patches exposes the patch slice in row-major order.
func (w *World) Patches() []Patch { return w.patches }

// Rules returns the rule set the world executes.
func (w *World) Rules() model.Rules { return w.rules }

// Step advances every patch by one step.
func (w *World) Step() {
	for i := range w.patches {
		w.stepPatch(&w.patches[i])
	}
}

func (w *World) stepPatch(p *Patch) {
	priorCover := p.InvasiveCover
	p.StepCount++

	// Drop the prior step's tombstones; only survivors carry forward.
	trees := make([]Organism, 0, len(p.Trees))
	for _, o := range p.Trees {
		if o.Alive {
			trees = append(trees, o)
		}
	}

	for i := range trees {
		o := &trees[i]
		o.Age++
		mortality := w.stageMortality(o.Stage, priorCover)
		if !(w.rng.Float64()*100 > mortality) {
			o.Alive = false
			continue
		}
		// Transitions run after the mortality roll, for survivors only.
		switch o.Stage {
		case model.StageSeedling:
			if o.Age >= w.rules.SeedlingToJuvenileAge {
				o.Stage = model.StageJuvenile
			}
		case model.StageJuvenile:
			if o.Age >= w.rules.JuvenileToAdultAge {
				o.Stage = model.StageAdult
			}
		}
	}

	// numTrees covers the step's whole population record, deaths included.
	numTrees := len(trees)
	p.Trees = trees
	w.recount(p)

	newSeedlings := 0
	if priorCover < w.rules.EstablishmentThreshold {
		room := w.rules.MaxTreesPerPatch - numTrees
		if n := min(p.NumAdult, room); n > 0 {
			newSeedlings = n
		}
	}
	for i := 0; i < newSeedlings; i++ {
		p.Trees = append(p.Trees, Organism{Age: 0, Stage: model.StageSeedling, Alive: true})
	}
	p.NewSeedlings = newSeedlings

	suppression := 0.0
	if numTrees > 0 {
		suppression = w.rules.TreeSuppression * float64(numTrees) / float64(w.rules.MaxTreesPerPatch)
	}
	growthRate := (w.rules.InvasiveBaseGrowthRate + w.rules.PostFireBonus(p.StepCount)) * (1 - suppression)
	netGrowth := growthRate*(1-priorCover/100) - w.rules.ActiveRemoval(p.StepCount)
	p.InvasiveCover = clamp(priorCover+netGrowth, 0, 100)
}

// stageMortality is the steady-state per-step mortality percentage. Only
// seedlings feel invasive pressure, and only above the pressure threshold.
func (w *World) stageMortality(stage model.LifeStage, cover float64) float64 {
	switch stage {
	case model.StageSeedling:
		total := w.rules.SeedlingBaseMortality
		if cover > w.rules.InvasivePressureThreshold {
			total += w.rules.SeedlingInvasivePressure
		}
		return total
	case model.StageJuvenile:
		return w.rules.JuvenileBaseMortality
	default:
		return w.rules.AdultBaseMortality
	}
}

func (w *World) recount(p *Patch) {
	p.NumSeedling, p.NumJuvenile, p.NumAdult, p.NumAlive = 0, 0, 0, 0
	for _, o := range p.Trees {
		if !o.Alive {
			continue
		}
		p.NumAlive++
		switch o.Stage {
		case model.StageSeedling:
			p.NumSeedling++
		case model.StageJuvenile:
			p.NumJuvenile++
		case model.StageAdult:
			p.NumAdult++
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
