package config

import "sort"

var Presets = map[string]*Config{
	"free": DefaultConfig(),
	"manual": withPendulum(func(p *PendulumConfig) {
		p.Theta1Deg, p.Theta2Deg = 0, 0
	}),
	"gentle": withPendulum(func(p *PendulumConfig) {
		p.Theta1Deg, p.Theta2Deg = 15, 15
	}),
	"chaos": withPendulum(func(p *PendulumConfig) {
		p.Theta1Deg, p.Theta2Deg = 170, 170
	}),
	"asymmetric": withPendulum(func(p *PendulumConfig) {
		p.Length1, p.Length2 = 150, 80
		p.Mass1, p.Mass2 = 20, 5
		p.Theta1Deg, p.Theta2Deg = 90, 45
	}),
}

func withPendulum(edit func(*PendulumConfig)) *Config {
	cfg := DefaultConfig()
	edit(&cfg.Pendulum)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
