package cagd

// Default configuration values
const (
	defaultAlpha           = 1.0 // Shape parameter of new arcs and patches
	defaultSampleCount     = 40  // Samples per arc image
	defaultMaxOrder        = 2   // Derivative orders sampled per arc
	defaultIsoLineCount    = 3   // Isoparametric lines per direction
	defaultPatchMaxOrder   = 1   // Derivative orders sampled per iso line
	defaultPatchDivCount   = 30  // Grid resolution of patch meshes and iso lines
	defaultInitialCapacity = 500 // Node arena capacity hint
	defaultMaterialCount   = 8   // Materials known to the renderer
)

// Limits enforced by Config.Validate
const (
	minSampleCount   = 2
	maxArcOrder      = 2
	maxPatchOrder    = 1
	minIsoLineCount  = 2
	interpolationDim = 4 // Knots per direction of an interpolation problem
)

// Demo geometry offsets, matching the layout of the interactive editor
const (
	arcSpacingZ   = 5.0 // Distance between consecutive default arcs along z
	patchSpacingY = 8.0 // Distance between consecutive default patches along y
	patchBulge    = 2.0 // Height of the interior control points of a default patch
)

// defaultInterpolationKnots are fractions of α.
var defaultInterpolationKnots = []float64{0, 1.0 / 3.0, 2.0 / 3.0, 1}
