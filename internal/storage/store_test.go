package storage

import (
	"testing"

	"github.com/san-kum/mcfluid/internal/config"
	"github.com/san-kum/mcfluid/internal/fluid"
	"github.com/san-kum/mcfluid/internal/mc"
)

func sampleRun() (*config.Config, *mc.Result) {
	cfg := config.DefaultConfig()
	cfg.Steps = 2
	cfg.BurnIn = 1
	cfg.Seed = 5

	res := &mc.Result{
		Trajectory: []fluid.Configuration{
			{{1, 1, 1}, {3, 3, 3}},
			{{1, 1, 1}, {3, 3, 3}},
			{{1.5, 1, 1}, {3, 3, 3}},
		},
		Energies: []float64{-0.25, -0.25, -0.125},
		Accepted: []bool{false, true},
		Steps:    2,
	}
	return cfg, res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, res := sampleRun()
	estimates := map[string]float64{"pressure": 0.42, "mu_excess": -1.1}

	runID, err := st.Save(cfg, res, estimates)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("expected ID %s, got %s", runID, meta.ID)
	}
	if meta.Particles != cfg.Particles || meta.Seed != cfg.Seed {
		t.Errorf("metadata does not match config: %+v", meta)
	}
	if meta.Estimates["pressure"] != 0.42 {
		t.Errorf("expected pressure estimate 0.42, got %f", meta.Estimates["pressure"])
	}
	if meta.AcceptanceRate != 0.5 {
		t.Errorf("expected acceptance rate 0.5, got %f", meta.AcceptanceRate)
	}

	// The replay config reproduces the original parameters.
	replay := meta.Config()
	if *replay != *cfg {
		t.Errorf("replay config differs: %+v != %+v", replay, cfg)
	}
}

func TestStoreEnergyRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, res := sampleRun()
	runID, err := st.Save(cfg, res, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	energies, accepted, err := st.LoadEnergies(runID)
	if err != nil {
		t.Fatalf("load energies failed: %v", err)
	}
	if len(energies) != len(res.Energies) {
		t.Fatalf("expected %d energies, got %d", len(res.Energies), len(energies))
	}
	for i := range energies {
		if energies[i] != res.Energies[i] {
			t.Errorf("energy %d: expected %g, got %g", i, res.Energies[i], energies[i])
		}
	}
	if len(accepted) != len(res.Accepted) {
		t.Fatalf("expected %d acceptance flags, got %d", len(res.Accepted), len(accepted))
	}
	for i := range accepted {
		if accepted[i] != res.Accepted[i] {
			t.Errorf("acceptance %d: expected %v, got %v", i, res.Accepted[i], accepted[i])
		}
	}
}

func TestStoreFinalConfigRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, res := sampleRun()
	runID, err := st.Save(cfg, res, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	final, err := st.LoadFinalConfig(runID)
	if err != nil {
		t.Fatalf("load final config failed: %v", err)
	}
	want := res.Trajectory[len(res.Trajectory)-1]
	if !final.Equal(want) {
		t.Errorf("final configuration differs: %v != %v", final, want)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	cfg, res := sampleRun()
	if _, err := st.Save(cfg, res, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(cfg, res, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New("/nonexistent/mcfluid-test")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("expected empty list for missing dir, got error: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
