package cagd

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/tphakala/go-cagd/internal/linear"
	"github.com/tphakala/go-cagd/internal/mathutil"
	"github.com/tphakala/go-cagd/internal/topology"
)

// Config holds the settings shared by composite curves and surfaces.
type Config struct {
	// Alpha is the shape parameter given to newly appended and joined
	// arcs and patches. Must be positive and finite.
	Alpha float64

	// SampleCount is the number of samples in every arc image (at least 2).
	SampleCount int

	// MaxOrder is the highest derivative order sampled for arcs (0-2).
	MaxOrder int

	// IsoLineCount is the number of isoparametric lines generated per
	// direction for every patch (at least 2).
	IsoLineCount int

	// PatchMaxOrder is the highest derivative order sampled along
	// isoparametric lines (0-1).
	PatchMaxOrder int

	// PatchDivCount is the sampling resolution of patch meshes and of
	// isoparametric lines (at least 2).
	PatchDivCount int

	// Interpolate adds, for every patch, the mesh of the patch that
	// interpolates its own control net at InterpolationKnots.
	Interpolate bool

	// InterpolationKnots holds four strictly increasing fractions of α in
	// [0, 1], used in both directions.
	InterpolationKnots []float64

	// InitialCapacity hints at the number of nodes a composite will hold.
	InitialCapacity int

	// EnableParallel generates per-node images concurrently. Every call
	// still returns only after all nodes are done, and topology changes
	// are never concurrent.
	EnableParallel bool

	// Style assigns display attributes to new nodes. Nil selects DefaultStyle.
	Style StyleProvider

	// MaterialCount is the number of materials the renderer knows;
	// material indices must lie in [0, MaterialCount).
	MaterialCount int

	// Logger receives diagnostics. Nil selects slog.Default.
	Logger *slog.Logger
}

// Common errors. Evaluation, topology and interpolation failures wrap the
// matching sentinel so callers can test with errors.Is.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid composite configuration")

	// ErrInvalidTopology indicates a rejected join, merge or continuation.
	// It is always accompanied by one of ErrIndexOutOfRange,
	// ErrInvalidSide, ErrSideOccupied or ErrSameSide.
	ErrInvalidTopology = errors.New("invalid topology request")

	// ErrInvalidPoint indicates a control point index outside the entity.
	ErrInvalidPoint = errors.New("control point index out of range")

	// ErrInvalidMaterial indicates a material index outside [0, MaterialCount).
	ErrInvalidMaterial = errors.New("material index out of range")

	// ErrNoImage indicates rendering of a node whose image was never generated.
	ErrNoImage = errors.New("image not generated")

	ErrInvalidAlpha       = mathutil.ErrInvalidAlpha
	ErrOutOfDomain        = mathutil.ErrOutOfDomain
	ErrUnsupportedOrder   = mathutil.ErrUnsupportedOrder
	ErrInvalidSampleCount = linear.ErrInvalidSampleCount
	ErrSingular           = linear.ErrSingular

	ErrIndexOutOfRange = topology.ErrIndexOutOfRange
	ErrInvalidSide     = topology.ErrInvalidSide
	ErrSideOccupied    = topology.ErrSideOccupied
	ErrSameSide        = topology.ErrSameSide
	ErrDanglingLink    = topology.ErrDanglingLink
)

// DefaultConfig returns the settings of the interactive editor.
func DefaultConfig() *Config {
	return &Config{
		Alpha:              defaultAlpha,
		SampleCount:        defaultSampleCount,
		MaxOrder:           defaultMaxOrder,
		IsoLineCount:       defaultIsoLineCount,
		PatchMaxOrder:      defaultPatchMaxOrder,
		PatchDivCount:      defaultPatchDivCount,
		InterpolationKnots: slices.Clone(defaultInterpolationKnots),
		InitialCapacity:    defaultInitialCapacity,
		Style:              DefaultStyle(),
		MaterialCount:      defaultMaterialCount,
		Logger:             slog.Default(),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !(c.Alpha > 0) || math.IsInf(c.Alpha, 0) {
		return fmt.Errorf("%w: alpha must be positive and finite", ErrInvalidConfig)
	}

	if c.SampleCount < minSampleCount {
		return fmt.Errorf("%w: sample count must be at least %d", ErrInvalidConfig, minSampleCount)
	}

	if c.MaxOrder < 0 || c.MaxOrder > maxArcOrder {
		return fmt.Errorf("%w: arc derivative order must be 0-%d", ErrInvalidConfig, maxArcOrder)
	}

	if c.IsoLineCount < minIsoLineCount {
		return fmt.Errorf("%w: iso line count must be at least %d", ErrInvalidConfig, minIsoLineCount)
	}

	if c.PatchMaxOrder < 0 || c.PatchMaxOrder > maxPatchOrder {
		return fmt.Errorf("%w: patch derivative order must be 0-%d", ErrInvalidConfig, maxPatchOrder)
	}

	if c.PatchDivCount < minSampleCount {
		return fmt.Errorf("%w: patch division count must be at least %d", ErrInvalidConfig, minSampleCount)
	}

	if c.Interpolate {
		if err := validateKnots(c.InterpolationKnots); err != nil {
			return err
		}
	}

	if c.InitialCapacity < 0 {
		return fmt.Errorf("%w: initial capacity must not be negative", ErrInvalidConfig)
	}

	if c.MaterialCount < 1 {
		return fmt.Errorf("%w: material count must be at least 1", ErrInvalidConfig)
	}

	return nil
}

func validateKnots(knots []float64) error {
	if len(knots) != interpolationDim {
		return fmt.Errorf("%w: need %d interpolation knots, got %d", ErrInvalidConfig, interpolationDim, len(knots))
	}
	for i, k := range knots {
		if !(k >= 0 && k <= 1) {
			return fmt.Errorf("%w: interpolation knot %d (%g) must be in [0, 1]", ErrInvalidConfig, i, k)
		}
		if i > 0 && k <= knots[i-1] {
			return fmt.Errorf("%w: interpolation knots must be strictly increasing", ErrInvalidConfig)
		}
	}
	return nil
}

// resolve validates config and returns a private copy with nil
// collaborators replaced by their defaults.
func resolve(config *Config) (Config, error) {
	if config == nil {
		return Config{}, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	c := *config
	c.InterpolationKnots = slices.Clone(config.InterpolationKnots)
	if c.Style == nil {
		c.Style = DefaultStyle()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c, nil
}
