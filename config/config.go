package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/milk9111/mapgrid/render"
	"github.com/milk9111/mapgrid/viewport"
	"gopkg.in/yaml.v3"
)

// DefaultPath is picked up from the working directory when no -config flag is
// given.
const DefaultPath = "mapgrid.yaml"

//go:embed default.yaml
var defaultYAML []byte

var ErrInvalid = errors.New("invalid config")

type SizeSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ZoomSpec struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

type PaletteSpec struct {
	Line      Color   `yaml:"line"`
	LineWidth float64 `yaml:"line_width"`
	Road      Color   `yaml:"road"`
	Obstacle  Color   `yaml:"obstacle"`
}

type ExportSpec struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
}

type Config struct {
	Map         SizeSpec    `yaml:"map"`
	Cell        SizeSpec    `yaml:"cell"`
	Background  string      `yaml:"background"`
	Zoom        ZoomSpec    `yaml:"zoom"`
	PaletteSpec PaletteSpec `yaml:"palette"`
	Export      ExportSpec  `yaml:"export"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		return nil, fmt.Errorf("config: unmarshal default: %w", err)
	}
	return &c, nil
}

// Load overlays the file at path onto the embedded defaults. An empty path
// falls back to DefaultPath when that file exists.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return c, c.Validate()
		}
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Map.Width <= 0 || c.Map.Height <= 0:
		return fmt.Errorf("map size %vx%v: %w", c.Map.Width, c.Map.Height, ErrInvalid)
	case c.Cell.Width <= 0 || c.Cell.Height <= 0:
		return fmt.Errorf("cell size %vx%v: %w", c.Cell.Width, c.Cell.Height, ErrInvalid)
	case c.Zoom.Step <= 0 || c.Zoom.Min <= 0 || c.Zoom.Min > c.Zoom.Max:
		return fmt.Errorf("zoom %v..%v step %v: %w", c.Zoom.Min, c.Zoom.Max, c.Zoom.Step, ErrInvalid)
	}
	return nil
}

func (c *Config) MapSize() viewport.Size {
	return viewport.Size{W: c.Map.Width, H: c.Map.Height}
}

func (c *Config) CellSize() viewport.Size {
	return viewport.Size{W: c.Cell.Width, H: c.Cell.Height}
}

func (c *Config) Limits() viewport.Limits {
	return viewport.Limits{Min: c.Zoom.Min, Max: c.Zoom.Max, Step: c.Zoom.Step}
}

// Palette fills unset entries from render.DefaultPalette.
func (c *Config) Palette() render.Palette {
	p := render.DefaultPalette()
	if c.PaletteSpec.Line.Color != nil {
		p.Line = c.PaletteSpec.Line.Color
	}
	if c.PaletteSpec.LineWidth > 0 {
		p.LineWidth = c.PaletteSpec.LineWidth
	}
	if c.PaletteSpec.Road.Color != nil {
		p.Road = c.PaletteSpec.Road.Color
	}
	if c.PaletteSpec.Obstacle.Color != nil {
		p.Obstacle = c.PaletteSpec.Obstacle.Color
	}
	return p
}

// Color reads "#rgb", "#rrggbb" or "#rrggbbaa" from YAML. The leading '#' is
// optional.
type Color struct {
	color.Color
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

func ParseColor(s string) (color.NRGBA, error) {
	hex := "#" + strings.TrimPrefix(strings.TrimSpace(s), "#")

	alpha := uint8(255)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color alpha: %s", s)
		}
		alpha = uint8(a)
		hex = hex[:7]
	}
	if len(hex) != 4 && len(hex) != 7 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", s)
	}

	cf, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %s: %w", s, err)
	}
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
