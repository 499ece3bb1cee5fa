package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stuarthighley/maputl"
)

// Config drives a mapcheck run.
type Config struct {
	WAD          string            `yaml:"wad"`
	Level        string            `yaml:"level"`
	Verbose      bool              `yaml:"verbose"`
	DefaultThing ThingSpec         `yaml:"default_thing"`
	ThingTypes   map[int]ThingSpec `yaml:"thing_types"`
	Sliders      []SliderSpec      `yaml:"sliders"`
	Areas        []AreaSpec        `yaml:"areas"`
	SoundDir     string            `yaml:"sound_dir"`
}

// ThingSpec gives the collision shape of a thing type.
type ThingSpec struct {
	Radius  float64 `yaml:"radius"`
	Height  float64 `yaml:"height"`
	Solid   bool    `yaml:"solid"`
	Corpse  bool    `yaml:"corpse"`
	Special bool    `yaml:"special"`
}

func (s ThingSpec) flags() maputl.MapObjectFlag {
	var f maputl.MapObjectFlag
	if s.Solid {
		f |= maputl.FlagSolid
	}
	if s.Corpse {
		f |= maputl.FlagCorpse
	}
	if s.Special {
		f |= maputl.FlagSpecial
	}
	return f
}

// SliderSpec turns a line into a sliding door frozen at the given state.
type SliderSpec struct {
	Line      int     `yaml:"line"`
	Direction int     `yaml:"direction"`
	Opening   float64 `yaml:"opening"`
	Target    float64 `yaml:"target"`
}

// AreaSpec names a box to test for things.
type AreaSpec struct {
	Name   string  `yaml:"name"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Top    float64 `yaml:"top"`
}

func (a AreaSpec) box() maputl.BoundBox {
	return maputl.BoundBox{Top: a.Top, Bottom: a.Bottom, Left: a.Left, Right: a.Right}
}

// defaultConfig matches a player-sized solid thing.
func defaultConfig() Config {
	return Config{
		Level:        "E1M1",
		DefaultThing: ThingSpec{Radius: 20, Height: 56, Solid: true},
	}
}

// LoadConfig reads a YAML config over the defaults.
func LoadConfig(filename string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("mapcheck: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("mapcheck: unmarshal %s: %w", filename, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("mapcheck: %s: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DefaultThing.Radius <= 0 {
		return fmt.Errorf("default_thing radius must be positive, got %v", c.DefaultThing.Radius)
	}
	for _, s := range c.Sliders {
		if s.Line < 0 {
			return fmt.Errorf("slider line %v out of range", s.Line)
		}
	}
	for _, a := range c.Areas {
		if a.Left > a.Right || a.Bottom > a.Top {
			return fmt.Errorf("area %q is inverted", a.Name)
		}
	}
	return nil
}

func (c *Config) thingSpec(thingType int) ThingSpec {
	if s, ok := c.ThingTypes[thingType]; ok {
		return s
	}
	return c.DefaultThing
}
