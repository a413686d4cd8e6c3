package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ssesim/internal/dynamo"
)

type ExportData struct {
	RunMetadata
	Times  []float64      `json:"times"`
	States [][][2]float64 `json:"states"`
}

// ExportJSON writes metadata and rows as one JSON document. Each amplitude
// is a [re, im] pair.
func ExportJSON(w io.Writer, meta *RunMetadata, traj dynamo.Trajectory, times []float64) error {
	data := ExportData{
		RunMetadata: *meta,
		Times:       times,
		States:      make([][][2]float64, len(traj)),
	}
	for i, x := range traj {
		row := make([][2]float64, len(x))
		for k, v := range x {
			row[k] = [2]float64{real(v), imag(v)}
		}
		data.States[i] = row
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Export loads a stored run and writes it with ExportJSON.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	traj, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	return ExportJSON(w, meta, traj, times)
}
