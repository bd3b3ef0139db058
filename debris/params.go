package debris

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Params holds the tuning values of a session. A Params value is never
// mutated once a session holds it, so several sessions can run side by side
// with different settings.
type Params struct {
	StageWidth  float64 `yaml:"stage_width"`
	StageHeight float64 `yaml:"stage_height"`
	WallWidth   float64 `yaml:"wall_width"`
	WallHeight  float64 `yaml:"wall_height"`
	Gravity     float64 `yaml:"gravity"`
	FPS         int     `yaml:"fps"`

	DropInterval float64 `yaml:"drop_interval"` // seconds between drops
	MaxDebris    int     `yaml:"max_debris"`
	TimeLimit    float64 `yaml:"time_limit"` // seconds

	// DebrisSizes and DebrisWeights are parallel tables: tier i has half
	// extent DebrisSizes[i] and is drawn with weight DebrisWeights[i].
	DebrisSizes   []float64 `yaml:"debris_sizes"`
	DebrisWeights []int     `yaml:"debris_weights"`

	PlayerSize float64 `yaml:"player_size"`
	DoorWidth  float64 `yaml:"door_width"`
	DoorHeight float64 `yaml:"door_height"`

	VelocityIterations int `yaml:"velocity_iterations"`
	PositionIterations int `yaml:"position_iterations"`

	// Spawn heights, as multiples of StageHeight.
	SpawnHeightFactor  float64 `yaml:"spawn_height_factor"`
	DoorHeightFactor   float64 `yaml:"door_height_factor"`
	PlayerHeightFactor float64 `yaml:"player_height_factor"`
}

// DefaultParams returns the stock stage: a 12x16 meter pit, forty drops
// half a second apart and a one minute clock.
func DefaultParams() Params {
	return Params{
		StageWidth:  12,
		StageHeight: 16,
		WallWidth:   0.5,
		WallHeight:  16,
		Gravity:     -9.8,
		FPS:         60,

		DropInterval: 0.5,
		MaxDebris:    40,
		TimeLimit:    60,

		DebrisSizes:   []float64{0.25, 0.5, 0.75, 1.0},
		DebrisWeights: []int{40, 30, 20, 10},

		PlayerSize: 0.4,
		DoorWidth:  0.6,
		DoorHeight: 0.9,

		VelocityIterations: 10,
		PositionIterations: 10,

		SpawnHeightFactor:  1.5,
		DoorHeightFactor:   2.0,
		PlayerHeightFactor: 0.2,
	}
}

// TotalWeight is the sum of DebrisWeights, the exclusive upper bound of the
// spawn dice.
func (p Params) TotalWeight() int {
	total := 0
	for _, w := range p.DebrisWeights {
		total += w
	}
	return total
}

// StepSize is the length of one native physics frame in seconds.
func (p Params) StepSize() float64 {
	return 1.0 / float64(p.FPS)
}

// Validate reports every broken invariant at once.
func (p Params) Validate() error {
	var errs []error

	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive and finite, got %v", name, v))
		}
	}

	positive("stage_width", p.StageWidth)
	positive("stage_height", p.StageHeight)
	positive("wall_width", p.WallWidth)
	positive("wall_height", p.WallHeight)
	positive("drop_interval", p.DropInterval)
	positive("time_limit", p.TimeLimit)
	positive("player_size", p.PlayerSize)
	positive("door_width", p.DoorWidth)
	positive("door_height", p.DoorHeight)
	positive("spawn_height_factor", p.SpawnHeightFactor)
	positive("door_height_factor", p.DoorHeightFactor)
	positive("player_height_factor", p.PlayerHeightFactor)

	if math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0) {
		errs = append(errs, fmt.Errorf("gravity must be finite, got %v", p.Gravity))
	}
	if p.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", p.FPS))
	}
	if p.MaxDebris < 0 {
		errs = append(errs, fmt.Errorf("max_debris must not be negative, got %d", p.MaxDebris))
	}
	if p.VelocityIterations <= 0 || p.PositionIterations <= 0 {
		errs = append(errs, fmt.Errorf("solver iterations must be positive, got %d/%d",
			p.VelocityIterations, p.PositionIterations))
	}
	if p.StageWidth <= 2*p.WallWidth {
		errs = append(errs, fmt.Errorf("stage_width %v leaves no room between walls of width %v",
			p.StageWidth, p.WallWidth))
	}

	if len(p.DebrisSizes) == 0 {
		errs = append(errs, errors.New("debris_sizes must not be empty"))
	}
	if len(p.DebrisSizes) != len(p.DebrisWeights) {
		errs = append(errs, fmt.Errorf("debris_sizes has %d tiers but debris_weights has %d",
			len(p.DebrisSizes), len(p.DebrisWeights)))
	}
	for i, s := range p.DebrisSizes {
		positive(fmt.Sprintf("debris_sizes[%d]", i), s)
	}
	for i, w := range p.DebrisWeights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("debris_weights[%d] must not be negative, got %d", i, w))
		}
	}
	if len(p.DebrisWeights) > 0 && p.TotalWeight() <= 0 {
		errs = append(errs, errors.New("debris_weights must sum to a positive total"))
	}

	return errors.Join(errs...)
}

// LoadParams reads a YAML file on top of DefaultParams. Keys missing from
// the file keep their default value.
func LoadParams(path string) (Params, error) {
	params := DefaultParams()

	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read params: %w", err)
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return Params{}, fmt.Errorf("decode params %s: %w", path, err)
	}

	if err := params.Validate(); err != nil {
		return Params{}, fmt.Errorf("invalid params %s: %w", path, err)
	}

	return params, nil
}

func (p Params) clone() Params {
	p.DebrisSizes = append([]float64(nil), p.DebrisSizes...)
	p.DebrisWeights = append([]int(nil), p.DebrisWeights...)
	return p
}
