// Package config loads pinball table layouts from YAML and builds the
// matching pinball.Space.
package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/setanarut/pinball"
	"github.com/setanarut/vec"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultTable []byte

var (
	ErrInvalidScene  = errors.New("config: scene width and height must be positive")
	ErrInvalidRadius = errors.New("config: radius wants a number or a list of 4")
	ErrInvalidColor  = errors.New("config: color wants #rrggbb or #rrggbbaa")
	ErrInvalidVector = errors.New("config: vector wants a list of 2")
)

// Table is a complete table layout.
type Table struct {
	Scene  SceneSpec `yaml:"scene"`
	Mutual bool      `yaml:"mutual"`
	// Defaults holds the values every thing starts from.
	Defaults ThingSpec   `yaml:"defaults"`
	Things   []ThingSpec `yaml:"things"`
}

type SceneSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ThingSpec describes one thing. Unset fields fall back to Table.Defaults.
// Numbers and strings set to their zero value count as unset, except the
// pointer fields, which a thing can set back to 0 or false.
type ThingSpec struct {
	Name         string    `yaml:"name"`
	X            float64   `yaml:"x"`
	Y            float64   `yaml:"y"`
	Width        float64   `yaml:"width"`
	Height       float64   `yaml:"height"`
	Radius       Radius    `yaml:"radius"`
	Density      float64   `yaml:"density"`
	Friction     *float64  `yaml:"friction"`
	MaxSpeed     *float64  `yaml:"max_speed"`
	Acceleration []float64 `yaml:"acceleration"`
	Color        string    `yaml:"color"`
	Alpha        *float64  `yaml:"alpha"`
	Z            int       `yaml:"z"`
	Static       *bool     `yaml:"static"`
	Hidden       *bool     `yaml:"hidden"`
}

func value[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Radius holds corner radii ordered top-left, top-right, bottom-right,
// bottom-left. A single YAML number sets all four corners.
type Radius []float64

func (r *Radius) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := value.Decode(&f); err != nil {
			return errors.Wrapf(ErrInvalidRadius, "line %d", value.Line)
		}
		*r = Radius{f, f, f, f}
		return nil
	case yaml.SequenceNode:
		var list []float64
		if err := value.Decode(&list); err != nil || len(list) != 4 {
			return errors.Wrapf(ErrInvalidRadius, "line %d", value.Line)
		}
		*r = list
		return nil
	}
	return errors.Wrapf(ErrInvalidRadius, "line %d", value.Line)
}

// Corners returns the radii as the array pinball.ThingConfig expects.
func (r Radius) Corners() [4]float64 {
	var c [4]float64
	copy(c[:], r)
	return c
}

// Parse decodes a table from YAML.
func Parse(data []byte) (*Table, error) {
	t := &Table{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, errors.Wrap(err, "config: parse table")
	}
	if !(t.Scene.Width > 0) || !(t.Scene.Height > 0) {
		return nil, errors.Wrapf(ErrInvalidScene, "%vx%v", t.Scene.Width, t.Scene.Height)
	}
	return t, nil
}

// Load reads and parses the table at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read table")
	}
	t, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return t, nil
}

// Default returns the built-in table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the i-th thing merged over the table defaults.
func (t *Table) Resolve(i int) (ThingSpec, error) {
	var spec ThingSpec
	if err := copier.CopyWithOption(&spec, &t.Defaults, copier.Option{DeepCopy: true}); err != nil {
		return spec, errors.Wrap(err, "config: copy defaults")
	}
	if err := copier.CopyWithOption(&spec, &t.Things[i], copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		return spec, errors.Wrapf(err, "config: merge thing %d", i)
	}
	return spec, nil
}

// ThingConfig converts s into a pinball.ThingConfig.
func (s ThingSpec) ThingConfig() (pinball.ThingConfig, error) {
	cfg := pinball.ThingConfig{
		Name:     s.Name,
		Position: vec.Vec2{X: s.X, Y: s.Y},
		Width:    s.Width,
		Height:   s.Height,
		Radius:   s.Radius.Corners(),
		Density:  s.Density,
		Friction: value(s.Friction),
		MaxSpeed: value(s.MaxSpeed),
		ZIndex:   s.Z,
		Alpha:    value(s.Alpha),
		Static:   value(s.Static),
	}
	if len(s.Acceleration) > 0 {
		if len(s.Acceleration) != 2 {
			return cfg, errors.Wrapf(ErrInvalidVector, "acceleration %v", s.Acceleration)
		}
		cfg.Acceleration = vec.Vec2{X: s.Acceleration[0], Y: s.Acceleration[1]}
	}
	if s.Color != "" {
		c, err := ParseColor(s.Color)
		if err != nil {
			return cfg, err
		}
		cfg.Color = c
	}
	return cfg, nil
}

// ParseColor parses #rrggbb or #rrggbbaa.
func ParseColor(s string) (pinball.FColor, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return pinball.FColor{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return pinball.FColor{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	return pinball.FColor{
		R: float32(n>>24&0xff) / 255,
		G: float32(n>>16&0xff) / 255,
		B: float32(n>>8&0xff) / 255,
		A: float32(n&0xff) / 255,
	}, nil
}

// Build creates the scene, every thing and the space of the table. The first
// invalid thing aborts the build.
func (t *Table) Build() (*pinball.Space, error) {
	scene, err := pinball.NewScene(t.Scene.Width, t.Scene.Height)
	if err != nil {
		return nil, errors.Wrap(err, "config: scene")
	}
	space := pinball.NewSpace(scene)
	space.Mutual = t.Mutual
	for i := range t.Things {
		spec, err := t.Resolve(i)
		if err != nil {
			return nil, err
		}
		cfg, err := spec.ThingConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "config: thing %d %q", i, spec.Name)
		}
		thing, err := pinball.NewThing(cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "config: thing %d %q", i, spec.Name)
		}
		if value(spec.Hidden) {
			thing.SetVisible(false)
		}
		space.AddThing(thing)
	}
	return space, nil
}
