package config

import "sort"

var Presets = map[string]*Config{
	// The reference chain: 27 particles on a 3x3x3 lattice, full-box
	// displacement proposals.
	"reference": {
		Particles: 27, BoxSide: 6.0, Temperature: 2.0,
		Steps: 5000, BurnIn: 1000, InsertionTrials: 100,
	},
	"dilute": {
		Particles: 27, BoxSide: 15.0, Temperature: 5.0,
		Steps: 5000, BurnIn: 500, InsertionTrials: 100,
	},
	"dense": {
		Particles: 64, BoxSide: 4.5, Temperature: 1.2,
		Steps: 20000, BurnIn: 5000, InsertionTrials: 200,
	},
	// Textbook small-step Metropolis; acceptance lands near 50%
	// instead of the reference full-box walk.
	"tuned": {
		Particles: 27, BoxSide: 6.0, Temperature: 2.0,
		Steps: 5000, BurnIn: 1000, Displacement: 0.3, InsertionTrials: 100,
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
