// Package storage writes finished runs to disk as metadata.json plus
// trajectory.csv, one directory per run. Recorded runs are read back only for
// listing, plotting and export.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// BodySummary is the final state of one body in a run.
type BodySummary struct {
	Index    int          `json:"index"`
	Name     string       `json:"name"`
	Mass     float64      `json:"mass"`
	Radius   float64      `json:"radius"`
	Color    string       `json:"color"`
	Position physics.Vec3 `json:"position"`
	Velocity physics.Vec3 `json:"velocity"`
}

type RunMetadata struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Ticks      int                `json:"ticks"`
	Days       float64            `json:"days"`
	Integrator string             `json:"integrator"`
	Energy     EnergySummary      `json:"energy"`
	Bodies     []BodySummary      `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

type EnergySummary struct {
	Initial float64 `json:"initial"`
	Final   float64 `json:"final"`
	Drift   float64 `json:"drift"`
}

// Track is the recorded trajectory of one body, oldest sample first.
type Track struct {
	Index  int              `json:"index"`
	Name   string           `json:"name"`
	Ticks  []int            `json:"ticks"`
	Points []physics.Point2 `json:"points"`
}

// Save writes a finished run and returns its id.
func (s *Store) Save(system, integrator string, dt float64, result *sim.Result, snap sim.Snapshot) (string, error) {
	runID := fmt.Sprintf("%s_%s", system, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		System:     system,
		Timestamp:  time.Now(),
		Dt:         dt,
		Ticks:      snap.Tick,
		Days:       snap.Days(),
		Integrator: integrator,
		Energy: EnergySummary{
			Initial: result.InitialEnergy,
			Final:   result.FinalEnergy,
			Drift:   result.EnergyDrift,
		},
		Bodies:  make([]BodySummary, len(snap.Bodies)),
		Metrics: result.Metrics,
	}
	for i, b := range snap.Bodies {
		meta.Bodies[i] = BodySummary{
			Index:    b.Index,
			Name:     b.Name,
			Mass:     b.Mass,
			Radius:   b.Radius,
			Color:    fmt.Sprintf("#%02x%02x%02x", b.Color.R, b.Color.G, b.Color.B),
			Position: b.Position,
			Velocity: b.Velocity,
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectories(filepath.Join(runDir, trajectoryFile), snap); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrajectories(path string, snap sim.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"body", "name", "tick", "x_au", "y_au"}); err != nil {
		return err
	}

	for _, b := range snap.Bodies {
		first := snap.Tick - len(b.Trajectory) + 1
		for i, p := range b.Trajectory {
			row := []string{
				strconv.Itoa(b.Index),
				b.Name,
				strconv.Itoa(first + i),
				strconv.FormatFloat(p.X, 'g', -1, 64),
				strconv.FormatFloat(p.Y, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTrajectories reads the recorded tracks of a run, ordered by body index.
func (s *Store) LoadTrajectories(runID string) ([]Track, error) {
	f, err := os.Open(s.TrajectoryPath(runID))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []Track{}, nil
	}

	byIndex := make(map[int]*Track)
	for line, rec := range records[1:] {
		idx, err1 := strconv.Atoi(rec[0])
		tick, err2 := strconv.Atoi(rec[2])
		x, err3 := strconv.ParseFloat(rec[3], 64)
		y, err4 := strconv.ParseFloat(rec[4], 64)
		for _, err := range []error{err1, err2, err3, err4} {
			if err != nil {
				return nil, fmt.Errorf("run %s line %d: %w", runID, line+2, err)
			}
		}

		tr, ok := byIndex[idx]
		if !ok {
			tr = &Track{Index: idx, Name: rec[1]}
			byIndex[idx] = tr
		}
		tr.Ticks = append(tr.Ticks, tick)
		tr.Points = append(tr.Points, physics.Point2{X: x, Y: y})
	}

	tracks := make([]Track, 0, len(byIndex))
	for _, tr := range byIndex {
		tracks = append(tracks, *tr)
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Index < tracks[j].Index })
	return tracks, nil
}

// TrajectoryPath is the location of a run's trajectory CSV.
func (s *Store) TrajectoryPath(runID string) string {
	return filepath.Join(s.baseDir, runID, trajectoryFile)
}
