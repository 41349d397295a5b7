// Package storage persists finished runs: JSON metadata with the
// derived estimates, the energy and acceptance traces as CSV, and the
// final configuration. Raw trajectories are not stored; a run is
// replayable bit for bit from its seed and parameters.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/mcfluid/internal/config"
	"github.com/san-kum/mcfluid/internal/fluid"
	"github.com/san-kum/mcfluid/internal/geometry"
	"github.com/san-kum/mcfluid/internal/mc"
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

// RunMetadata captures everything needed to reproduce a run plus the
// estimates derived from it.
type RunMetadata struct {
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	Particles       int                `json:"particles"`
	BoxSide         float64            `json:"box_side"`
	Temperature     float64            `json:"temperature"`
	Steps           int                `json:"steps"`
	BurnIn          int                `json:"burn_in"`
	Displacement    float64            `json:"displacement"`
	InsertionTrials int                `json:"insertion_trials"`
	Seed            int64              `json:"seed"`
	AcceptanceRate  float64            `json:"acceptance_rate"`
	Estimates       map[string]float64 `json:"estimates"`
}

// Config rebuilds the run parameters for a deterministic replay.
func (m *RunMetadata) Config() *config.Config {
	return &config.Config{
		Particles:       m.Particles,
		BoxSide:         m.BoxSide,
		Temperature:     m.Temperature,
		Steps:           m.Steps,
		BurnIn:          m.BurnIn,
		Displacement:    m.Displacement,
		InsertionTrials: m.InsertionTrials,
		Seed:            m.Seed,
	}
}

func (s *Store) Save(cfg *config.Config, res *mc.Result, estimates map[string]float64) (string, error) {
	runID := fmt.Sprintf("lj_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:              runID,
		Timestamp:       time.Now(),
		Particles:       cfg.Particles,
		BoxSide:         cfg.BoxSide,
		Temperature:     cfg.Temperature,
		Steps:           cfg.Steps,
		BurnIn:          cfg.BurnIn,
		Displacement:    cfg.Displacement,
		InsertionTrials: cfg.InsertionTrials,
		Seed:            cfg.Seed,
		AcceptanceRate:  res.AcceptanceRate(),
		Estimates:       estimates,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeEnergies(filepath.Join(runDir, "energy.csv"), res); err != nil {
		return "", err
	}
	if len(res.Trajectory) > 0 {
		final := res.Trajectory[len(res.Trajectory)-1]
		if err := writeConfiguration(filepath.Join(runDir, "final_config.csv"), final); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func writeJSON(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeEnergies(path string, res *mc.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"step", "energy", "accepted"}); err != nil {
		return err
	}
	for i, e := range res.Energies {
		accepted := ""
		if i > 0 {
			accepted = strconv.FormatBool(res.Accepted[i-1])
		}
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(e, 'g', -1, 64),
			accepted,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeConfiguration(path string, cfg fluid.Configuration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"x", "y", "z"}); err != nil {
		return err
	}
	for _, p := range cfg {
		row := []string{
			strconv.FormatFloat(p[0], 'g', -1, 64),
			strconv.FormatFloat(p[1], 'g', -1, 64),
			strconv.FormatFloat(p[2], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

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
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadEnergies returns the stored energy trace and acceptance flags.
// The energy slice has one more entry than the flags: index 0 is the
// seed configuration, which no proposal produced.
func (s *Store) LoadEnergies(runID string) ([]float64, []bool, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "energy.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	energies := make([]float64, 0, len(records))
	accepted := make([]bool, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 3 {
			continue // header
		}
		e, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		energies = append(energies, e)
		if rec[2] != "" {
			a, _ := strconv.ParseBool(rec[2])
			accepted = append(accepted, a)
		}
	}
	return energies, accepted, nil
}

// LoadFinalConfig returns the last committed configuration of a run.
func (s *Store) LoadFinalConfig(runID string) (fluid.Configuration, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "final_config.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	cfg := make(fluid.Configuration, 0, len(records))
	for i, rec := range records {
		if i == 0 || len(rec) < 3 {
			continue
		}
		x, err1 := strconv.ParseFloat(rec[0], 64)
		y, err2 := strconv.ParseFloat(rec[1], 64)
		z, err3 := strconv.ParseFloat(rec[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		cfg = append(cfg, geometry.Vec{x, y, z})
	}
	return cfg, nil
}
