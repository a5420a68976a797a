package cagd

// DefaultArcPoints returns the seed control polygon of the index-th demo
// arc. Consecutive arcs are stacked along z.
func DefaultArcPoints(index int) []Vec {
	z := arcSpacingZ * float64(index)
	return []Vec{
		{X: 1, Y: 0, Z: z},
		{X: 1, Y: 1, Z: z},
		{X: -1, Y: 1, Z: z},
		{X: -1, Y: -1, Z: z},
	}
}

// DefaultPatchPoints returns the seed control net of the index-th demo
// patch: a flat 4×4 grid with its four inner points raised. Consecutive
// patches are placed side by side along y.
func DefaultPatchPoints(index int) [][]Vec {
	coords := [PointCount]float64{-2, -1, 1, 2}
	offset := patchSpacingY * float64(index)

	grid := make([][]Vec, PointCount)
	for row := range grid {
		grid[row] = make([]Vec, PointCount)
		for col := range grid[row] {
			p := Vec{X: coords[row], Y: coords[col] + offset}
			if row > 0 && row < PointCount-1 && col > 0 && col < PointCount-1 {
				p.Z = patchBulge
			}
			grid[row][col] = p
		}
	}
	return grid
}

// NewDemoCurve creates a composite curve holding count unattached demo arcs.
func NewDemoCurve(config *Config, count int) (*CompositeCurve, error) {
	cc, err := NewCompositeCurve(config)
	if err != nil {
		return nil, err
	}
	for i := range count {
		if _, err := cc.AppendArcWithPoints(DefaultArcPoints(i)); err != nil {
			return nil, err
		}
	}
	return cc, nil
}

// NewDemoSurface creates a composite surface holding count unattached demo
// patches.
func NewDemoSurface(config *Config, count int) (*CompositeSurface, error) {
	cs, err := NewCompositeSurface(config)
	if err != nil {
		return nil, err
	}
	for i := range count {
		if _, err := cs.AppendPatchWithPoints(DefaultPatchPoints(i)); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// SampleArc is a convenience function for one-shot arc sampling.
// It builds an arc over [0, alpha] from points and returns its image.
func SampleArc(points []Vec, alpha float64, maxOrder, samples int) (*CurveImage, error) {
	a, err := NewArc(alpha)
	if err != nil {
		return nil, err
	}
	if err := a.SetPoints(points); err != nil {
		return nil, err
	}
	return a.GenerateImage(maxOrder, samples)
}

// SamplePatch is a convenience function for one-shot patch sampling.
// It builds a patch over [0, alpha]² from grid and returns its mesh.
func SamplePatch(grid [][]Vec, alpha float64, div int) (*Mesh, error) {
	p, err := NewPatch(alpha)
	if err != nil {
		return nil, err
	}
	if err := p.SetPoints(grid); err != nil {
		return nil, err
	}
	return p.GenerateImage(div, div)
}
