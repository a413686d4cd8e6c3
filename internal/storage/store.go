// Package storage persists runs on disk: metadata as JSON, rows as CSV and
// the simulated system as a msgpack snapshot.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/ssesim/internal/dynamo"
	"github.com/san-kum/ssesim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	systemFile   = "system.msgpack"
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

type RunMetadata struct {
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Backend     string             `json:"backend"`
	Dim         int                `json:"dim"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        uint64             `json:"seed"`
	Dt          float64            `json:"dt"`
	Steps       int                `json:"steps"`
	Samples     int                `json:"samples"`
	Renormalize bool               `json:"renormalize"`
	Params      map[string]float64 `json:"params,omitempty"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes one trajectory under a fresh id and returns it. ID, Timestamp
// and Metrics of meta are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Model, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics
	meta.Seed = result.Seed
	if len(result.Trajectory) > 0 {
		meta.Dim = len(result.Trajectory[0])
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeStates(filepath.Join(runDir, statesFile), result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeStates(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(result.Trajectory) > 0 {
		header := []string{"time"}
		for i := range result.Trajectory[0] {
			header = append(header, fmt.Sprintf("re%d", i), fmt.Sprintf("im%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	for i, x := range result.Trajectory {
		row := make([]string, 0, 1+2*len(x))
		row = append(row, strconv.FormatFloat(result.Times[i], 'g', -1, 64))
		for _, v := range x {
			row = append(row,
				strconv.FormatFloat(real(v), 'g', -1, 64),
				strconv.FormatFloat(imag(v), 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
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

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
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

// LoadStates reads the rows written by Save. Values round-trip exactly.
func (s *Store) LoadStates(runID string) (dynamo.Trajectory, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return dynamo.Trajectory{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	traj := make(dynamo.Trajectory, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record)%2 != 1 {
			return nil, nil, fmt.Errorf("run %s: row %d has %d fields", runID, i, len(record))
		}
		vals := make([]float64, len(record))
		for j, field := range record {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, nil, fmt.Errorf("run %s: row %d: %w", runID, i, err)
			}
		}

		x := make(dynamo.State, (len(vals)-1)/2)
		for k := range x {
			x[k] = complex(vals[1+2*k], vals[2+2*k])
		}
		times = append(times, vals[0])
		traj = append(traj, x)
	}
	return traj, times, nil
}

// Delete removes a run and everything stored with it.
func (s *Store) Delete(runID string) error {
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
