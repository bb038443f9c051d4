// Package automation runs batches of simulations: scripted scenarios,
// timestep sweeps and Monte Carlo stability trials.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/orrery/internal/analysis"
	"github.com/san-kum/orrery/internal/config"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Config, when set, is a system
// file and takes precedence over Preset. Zero fields keep the system's own
// values.
type ScenarioStep struct {
	Preset     string  `yaml:"preset"`
	Config     string  `yaml:"config"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Steps      int     `yaml:"steps"`
	SaveAs     string  `yaml:"save_as"`
}

// StepResult is a finished scenario step.
type StepResult struct {
	Step     ScenarioStep
	Config   *config.Config
	Result   *sim.Result
	Snapshot sim.Snapshot
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}

	return &scenario, nil
}

// System resolves the step's configuration.
func (s ScenarioStep) System() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case s.Config != "":
		cfg, err = config.Load(s.Config)
	case s.Preset != "":
		cfg, err = config.GetPreset(s.Preset)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Steps != 0 {
		cfg.Steps = s.Steps
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, cfg.Validate()
}

// NewSimulator builds a simulator for cfg with the energy drift metric
// attached.
func NewSimulator(cfg *config.Config) (*sim.Simulator, error) {
	bodies, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	integ, err := cfg.NewIntegrator()
	if err != nil {
		return nil, err
	}
	s, err := sim.New(bodies, integ, cfg.Dt)
	if err != nil {
		return nil, err
	}
	s.AddMetric(metrics.NewEnergyDrift())
	return s, nil
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.System()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(scenario.Steps), cfg.Name)

		s, err := NewSimulator(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := s.Run(ctx, cfg.Steps)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result, Snapshot: s.Snapshot()})
	}

	return results, nil
}

// TimestepSweep runs one system at several timesteps over the same span of
// simulated time.
type TimestepSweep struct {
	System *config.Config
	Dts    []float64
	// Body is the index whose orbit closure is reported.
	Body int
}

// SweepResult holds results from a timestep sweep
type SweepResult struct {
	Dt             float64
	Ticks          int
	EnergyDrift    float64 // at the end of the run
	MaxEnergyDrift float64
	Closure        float64 // AU
}

// RunSweep executes the sweep. Every timestep covers System.Steps*System.Dt
// seconds, so the tick count varies per run.
func RunSweep(ctx context.Context, sweep *TimestepSweep) ([]SweepResult, error) {
	if len(sweep.Dts) == 0 {
		return nil, errors.New("automation: sweep has no timesteps")
	}
	span := float64(sweep.System.Steps) * sweep.System.Dt

	sims := make([]*sim.Simulator, len(sweep.Dts))
	ticks := make([]int, len(sweep.Dts))
	for i, dt := range sweep.Dts {
		if !(dt > 0) {
			return nil, fmt.Errorf("automation: sweep timestep must be positive, got %g", dt)
		}
		cfg := sweep.System.Clone()
		cfg.Dt = dt
		ticks[i] = int(math.Round(span / dt))

		s, err := NewSimulator(cfg)
		if err != nil {
			return nil, err
		}
		if sweep.Body < 0 || sweep.Body >= s.Len() {
			return nil, fmt.Errorf("automation: no body %d", sweep.Body)
		}
		sims[i] = s
	}

	results := make([]SweepResult, len(sims))
	for i, s := range sims {
		body := s.Bodies()[sweep.Body]
		start := body.PlanePosition()
		res, err := s.Run(ctx, ticks[i])
		if err != nil {
			return nil, fmt.Errorf("dt %g: %w", sweep.Dts[i], err)
		}
		closure := math.NaN()
		if res.Ticks > 0 {
			closure = analysis.ClosureError(start, body.PlanePosition())
		}
		results[i] = SweepResult{
			Dt:             sweep.Dts[i],
			Ticks:          res.Ticks,
			EnergyDrift:    res.EnergyDrift,
			MaxEnergyDrift: res.Metrics["energy_drift"],
			Closure:        closure,
		}
	}
	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	System *config.Config
	// Perturbation bounds the random velocity kick, in m/s, given to every
	// body except the first.
	Perturbation float64
	NumTrials    int
	// MaxRadius is the distance from the center of mass, in meters, past
	// which a body counts as ejected.
	MaxRadius float64
	Seed      int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID     int
	Stability   float64 // fraction of ticks with every body bound
	EnergyDrift float64
	Stable      bool
}

// RunMonteCarlo executes trials with random velocity perturbations. Trials
// run concurrently.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	sims := make([]*sim.Simulator, cfg.NumTrials)
	stability := make([]*metrics.Stability, cfg.NumTrials)
	for trial := range sims {
		s, err := NewSimulator(cfg.System)
		if err != nil {
			return nil, err
		}
		for _, b := range s.Bodies()[1:] {
			kick := physics.Vec3{rng.Float64() - 0.5, rng.Float64() - 0.5, 0}.Mul(2 * cfg.Perturbation)
			b.Velocity = b.Velocity.Add(kick)
		}
		stability[trial] = metrics.NewStability(cfg.MaxRadius)
		s.AddMetric(stability[trial])
		sims[trial] = s
	}

	runs, err := sim.RunAll(ctx, sims, cfg.System.Steps)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			TrialID:     i,
			Stability:   stability[i].Value(),
			EnergyDrift: r.EnergyDrift,
			Stable:      stability[i].Value() == 1,
		}
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
