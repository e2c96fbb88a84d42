package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-flocking/pkg/flocking"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var configSchemaJSON string

var configSchema = jsonschema.MustCompileString("config.schema.json", configSchemaJSON)

// Format is the encoding of a configuration file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var ErrUnknownFormat = errors.New("unknown config file format")

// Config is the on-disk description of a simulation.
type Config struct {
	// World Dimensions
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Population and pacing
	Count          int     `json:"count"`
	TicksPerSecond float64 `json:"ticksPerSecond"`

	// Marker diameter, unit of the rule radii and max speed
	BoidSize float64 `json:"boidSize"`

	Workers int    `json:"workers"`
	Seed    uint64 `json:"seed"` // 0 seeds from the clock

	Rules RulesConfig `json:"rules"`
}

// RulesConfig expresses radii and max speed as multiples of BoidSize.
type RulesConfig struct {
	AlignmentRadius  float64 `json:"alignmentRadius"`
	CohesionRadius   float64 `json:"cohesionRadius"`
	SeparationRadius float64 `json:"separationRadius"`
	MaxSpeed         float64 `json:"maxSpeed"`

	AlignmentWeight  float64 `json:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight"`
	SeparationWeight float64 `json:"separationWeight"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:          flocking.DefaultWidth,
		Height:         flocking.DefaultHeight,
		Count:          flocking.DefaultCount,
		TicksPerSecond: flocking.DefaultTicksPerSecond,
		BoidSize:       flocking.DefaultBoidSize,
		Workers:        1,
		Rules: RulesConfig{
			AlignmentRadius:  flocking.AlignmentRadiusFactor,
			CohesionRadius:   flocking.CohesionRadiusFactor,
			SeparationRadius: flocking.SeparationRadiusFactor,
			MaxSpeed:         flocking.MaxSpeedFactor,
			AlignmentWeight:  flocking.AlignmentWeight,
			CohesionWeight:   flocking.CohesionWeight,
			SeparationWeight: flocking.SeparationWeight,
		},
	}
}

// Flocking converts the file representation into the core configuration.
func (c *Config) Flocking() flocking.Config {
	return flocking.Config{
		Width:          c.Width,
		Height:         c.Height,
		Count:          c.Count,
		TicksPerSecond: c.TicksPerSecond,
		Workers:        c.Workers,
		Rules: flocking.Rules{
			BoidSize:         c.BoidSize,
			AlignmentRadius:  c.BoidSize * c.Rules.AlignmentRadius,
			CohesionRadius:   c.BoidSize * c.Rules.CohesionRadius,
			SeparationRadius: c.BoidSize * c.Rules.SeparationRadius,
			MaxSpeed:         c.BoidSize * c.Rules.MaxSpeed,
			AlignmentWeight:  c.Rules.AlignmentWeight,
			CohesionWeight:   c.Rules.CohesionWeight,
			SeparationWeight: c.Rules.SeparationWeight,
		},
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// LoadConfig reads a JSON, YAML or TOML file, validates it against the
// embedded schema and overlays it on DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	cfg, err := ParseConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data in the given format. Keys left out keep their
// default values.
func ParseConfig(data []byte, format Format) (*Config, error) {
	// 1. Normalize to JSON so a single schema covers every format
	raw, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}

	// 2. Validate
	// UseNumber keeps 64-bit seeds exact through validation
	var v interface{}
	vdec := json.NewDecoder(bytes.NewReader(raw))
	vdec.UseNumber()
	if err := vdec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if vdec.More() {
		return nil, errors.New("failed to decode config json: trailing data after the document")
	}
	if err := configSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 3. Overlay on the defaults
	cfg := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 4. Geometry checks the schema cannot express
	if err := cfg.Flocking().Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func toJSON(data []byte, format Format) ([]byte, error) {
	var doc map[string]interface{}
	switch format {
	case FormatJSON:
		return data, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s config to json: %w", format, err)
	}
	return raw, nil
}
