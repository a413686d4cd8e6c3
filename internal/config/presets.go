package config

import "slices"

var Presets = map[string]map[string]*Config{
	"decay": {
		"weak": {
			Model: "decay", Backend: "native", Dt: 0.001, Steps: 10, Samples: 501,
			Trajectories: 1, Renormalize: true,
			Params: map[string]float64{"gamma": 0.2, "omega": 1.0},
		},
		"strong": {
			Model: "decay", Backend: "native", Dt: 0.0005, Steps: 20, Samples: 301,
			Trajectories: 1, Renormalize: true,
			Params: map[string]float64{"gamma": 2.0, "omega": 1.0},
		},
		"ensemble": {
			Model: "decay", Backend: "native", Dt: 0.001, Steps: 10, Samples: 301,
			Trajectories: 64, Renormalize: true,
			Params: map[string]float64{"gamma": 1.0, "omega": 1.0},
		},
	},
	"dephasing": {
		"slow": {
			Model: "dephasing", Backend: "dense", Dt: 0.001, Steps: 10, Samples: 501,
			Trajectories: 1, Renormalize: true,
			Params: map[string]float64{"gamma": 0.1, "omega": 2.0},
		},
		"collapse": {
			Model: "dephasing", Backend: "dense", Dt: 0.001, Steps: 10, Samples: 501,
			Trajectories: 16, Renormalize: true,
			Params: map[string]float64{"gamma": 2.0, "omega": 0.0},
		},
	},
	"driven": {
		"rabi": {
			Model: "driven", Backend: "native", Dt: 0.001, Steps: 10, Samples: 1001,
			Trajectories: 1, Renormalize: true,
			Params: map[string]float64{"gamma": 0.1, "rabi": 4.0, "detuning": 0.0},
		},
		"fluorescence": {
			Model: "driven", Backend: "native", Dt: 0.001, Steps: 10, Samples: 1001,
			Trajectories: 32, Renormalize: true,
			Params: map[string]float64{"gamma": 1.0, "rabi": 2.0, "detuning": 0.5},
		},
	},
	"oscillator": {
		"ringdown": {
			Model: "oscillator", Backend: "banded", Dim: 10, Dt: 0.001, Steps: 10, Samples: 501,
			Trajectories: 1, Renormalize: true,
			Params: map[string]float64{"omega": 1.0, "kappa": 0.3, "initial": 5},
		},
		"driven": {
			Model: "oscillator", Backend: "banded", Dim: 20, Dt: 0.0005, Steps: 20, Samples: 501,
			Trajectories: 1, Renormalize: true,
			Params: map[string]float64{"omega": 1.0, "kappa": 0.2, "drive": 0.5, "initial": 0},
		},
	},
	"random": {
		"small": {
			Model: "random", Backend: "factorized", Dim: 8, Dt: 0.001, Steps: 10, Samples: 201,
			Trajectories: 1, Renormalize: true,
			Params: map[string]float64{"operators": 3, "coupling": 0.3, "seed": 1},
		},
		"large": {
			Model: "random", Backend: "factorized", Dim: 128, Dt: 0.0005, Steps: 10, Samples: 101,
			Trajectories: 1, Renormalize: true,
			Params: map[string]float64{"operators": 8, "coupling": 0.1, "seed": 1},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names for model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
