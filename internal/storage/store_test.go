package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
)

func runSystem(t *testing.T, steps, capacity int) (*sim.Result, sim.Snapshot) {
	t.Helper()
	sun, err := physics.NewBody(0, physics.Params{Name: "sun", Mass: physics.SunMass, TrajectoryCapacity: capacity})
	if err != nil {
		t.Fatal(err)
	}
	earth, err := physics.NewBody(1, physics.Params{
		Name:               "earth",
		Position:           physics.Vec3{physics.AU, 0, 0},
		Velocity:           physics.Vec3{0, physics.CircularSpeed(physics.SunMass, physics.AU), 0},
		Mass:               5.972e24,
		TrajectoryCapacity: capacity,
	})
	if err != nil {
		t.Fatal(err)
	}

	s, err := sim.New([]*physics.Body{sun, earth}, nil, physics.Day)
	if err != nil {
		t.Fatal(err)
	}
	result, err := s.Run(context.Background(), steps)
	if err != nil {
		t.Fatal(err)
	}
	result.Metrics["energy_drift"] = 1.5
	return result, s.Snapshot()
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result, snap := runSystem(t, 30, 1000)
	runID, err := st.Save("earth_sun", "symplectic", physics.Day, result, snap)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "earth_sun_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.System != "earth_sun" || meta.Integrator != "symplectic" {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Ticks != 30 || meta.Days != 30 {
		t.Errorf("expected 30 ticks / days, got %d / %g", meta.Ticks, meta.Days)
	}
	if meta.Metrics["energy_drift"] != 1.5 {
		t.Errorf("expected energy_drift 1.5, got %f", meta.Metrics["energy_drift"])
	}
	if len(meta.Bodies) != 2 || meta.Bodies[1].Position != snap.Bodies[1].Position {
		t.Errorf("body summary mismatch: %+v", meta.Bodies)
	}

	tracks, err := st.LoadTrajectories(runID)
	if err != nil {
		t.Fatalf("load trajectories failed: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	earth := tracks[1]
	if earth.Name != "earth" || len(earth.Points) != 30 {
		t.Errorf("earth track: %s with %d points", earth.Name, len(earth.Points))
	}
	if earth.Ticks[0] != 1 || earth.Ticks[29] != 30 {
		t.Errorf("unexpected ticks %d..%d", earth.Ticks[0], earth.Ticks[29])
	}
	if earth.Points[29] != snap.Bodies[1].Trajectory[29] {
		t.Errorf("last point %v, want %v", earth.Points[29], snap.Bodies[1].Trajectory[29])
	}
}

func TestStoreTicksAfterEviction(t *testing.T) {
	st := New(t.TempDir())
	result, snap := runSystem(t, 50, 10)

	runID, err := st.Save("short", "euler", physics.Day, result, snap)
	if err != nil {
		t.Fatal(err)
	}
	tracks, err := st.LoadTrajectories(runID)
	if err != nil {
		t.Fatal(err)
	}
	if got := tracks[0].Ticks; len(got) != 10 || got[0] != 41 || got[9] != 50 {
		t.Errorf("expected ticks 41..50, got %v", got)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	result, snap := runSystem(t, 5, 1000)
	for i := 0; i < 2; i++ {
		if _, err := st.Save("test", "symplectic", physics.Day, result, snap); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if len(runs) == 2 && runs[0].ID == runs[1].ID {
		t.Error("run ids collide")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	result, snap := runSystem(t, 3, 1000)
	runID, err := st.Save("test", "symplectic", physics.Day, result, snap)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "trajectory.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	result, snap := runSystem(t, 4, 1000)
	runID, err := st.Save("test", "symplectic", physics.Day, result, snap)
	if err != nil {
		t.Fatal(err)
	}

	var csvOut bytes.Buffer
	if err := st.ExportCSV(&csvOut, runID); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	if lines[0] != "body,name,tick,x_au,y_au" || len(lines) != 9 {
		t.Errorf("unexpected csv:\n%s", csvOut.String())
	}

	var jsonOut bytes.Buffer
	if err := st.ExportJSON(&jsonOut, runID); err != nil {
		t.Fatal(err)
	}
	var data ExportData
	if err := json.Unmarshal(jsonOut.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Metadata.ID != runID || len(data.Tracks) != 2 || len(data.Tracks[1].Points) != 4 {
		t.Errorf("unexpected export %+v", data)
	}

	if err := st.ExportJSON(&jsonOut, "missing"); err == nil {
		t.Error("expected error for unknown run")
	}
}
