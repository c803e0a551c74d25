// Package config holds the VM's tunable ambient parameters: GC
// thresholds, per-fiber stack/frame limits, and stress/debug switches.
// Values layer the way cmd/hivectl's flags layered over its own
// defaults: compiled-in defaults, then an optional YAML file (which
// cmd/laythevm's --config flag selects). No command-line flag
// overrides individual fields.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/hivekit/heap"
	"github.com/joshuapare/hivekit/vm"
)

// Config is the full set of VM tuning knobs, each tagged for YAML
// decoding under the name spec.md §2 gives it.
type Config struct {
	NurserySize   int     `yaml:"nursery_size"`
	GrowFactor    float64 `yaml:"grow_factor"`
	MaxStackDepth int     `yaml:"max_stack_depth"`
	MaxFrames     int     `yaml:"max_frames"`
	SweepEveryN   int     `yaml:"sweep_every_n"`
	StressMode    bool    `yaml:"stress_mode"`
	Debug         bool    `yaml:"debug"`
}

// Default returns the VM's compiled-in tuning, mirroring heap and vm's
// own internal defaults exactly so an empty config file changes
// nothing.
func Default() Config {
	return Config{
		NurserySize:   heap.DefaultInitialThreshold,
		GrowFactor:    heap.DefaultGrowFactor,
		MaxStackDepth: vm.DefaultMaxStack,
		MaxFrames:     vm.DefaultMaxFrames,
		SweepEveryN:   heap.DefaultSweepEveryN,
	}
}

// Load reads a YAML config file at path over top of Default, the way
// cmd/hivectl reads its own optional profile file. A missing file is
// not an error; Default is returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// HeapOptions translates the GC-facing fields into heap construction
// options.
func (c Config) HeapOptions() []heap.Option {
	return []heap.Option{
		heap.WithGrowFactor(c.GrowFactor),
		heap.WithInitialThreshold(c.NurserySize),
		heap.WithSweepEveryN(c.SweepEveryN),
		heap.WithStressMode(c.StressMode),
	}
}

// VMOptions translates the full config into VM construction options,
// ready to pass to vm.New.
func (c Config) VMOptions() []vm.Option {
	return []vm.Option{
		vm.WithMaxStack(c.MaxStackDepth),
		vm.WithMaxFrames(c.MaxFrames),
		vm.WithHeapOptions(c.HeapOptions()...),
	}
}
