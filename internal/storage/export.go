package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Metadata RunMetadata `json:"metadata"`
	Tracks   []Track     `json:"tracks"`
}

// ExportJSON writes a run's metadata and tracks as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	tracks, err := s.LoadTrajectories(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Metadata: *meta, Tracks: tracks})
}

// ExportCSV copies a run's trajectory CSV to w.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	f, err := os.Open(s.TrajectoryPath(runID))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
