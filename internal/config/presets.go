package config

var Presets = map[string]*Config{
	"small": {
		Replicas: 20, Dofs: 1, States: 2, StepSize: 1e-5, WidthConst: 3, Dt: 0.1, Method: "analytic",
		Spread: SpreadConfig{Center: 0, Std: 1, WidthMean: 0.5, WidthStd: 0.3, WidthFloor: 0.05, Mass: 1},
	},
	"adaptive": {
		Replicas: 50, Dofs: 1, States: 2, StepSize: 1e-5, WidthConst: 3, RecomputeWidths: true, Dt: 0.1, Method: "analytic",
		Spread: SpreadConfig{Center: 0, Std: 1, WidthMean: 0.5, WidthStd: 0.3, WidthFloor: 0.05, Mass: 1},
	},
	"heavy": {
		Replicas: 100, Dofs: 3, States: 2, StepSize: 1e-5, WidthConst: 3, Dt: 0.1, Method: "fd",
		Spread: SpreadConfig{Center: -15, Std: 0.5, WidthMean: 0.3, WidthStd: 0.1, WidthFloor: 0.02, Mass: 2000},
	},
	"wide": {
		Replicas: 200, Dofs: 1, States: 2, StepSize: 1e-5, WidthConst: 3, RecomputeWidths: true, Dt: 0.1, Method: "analytic",
		Spread: SpreadConfig{Center: 0, Std: 5, WidthMean: 1, WidthStd: 0.5, WidthFloor: 0.1, Mass: 1},
	},
}

// GetPreset returns a copy of the named preset, or nil when it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
