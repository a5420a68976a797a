package tensor

import (
	"fmt"

	"github.com/tphakala/go-cagd/internal/linear"
)

// isoCurve restricts a surface to one parameter line. With fixedU the line
// runs along v at u = fixed; otherwise it runs along u at v = fixed.
type isoCurve struct {
	s      *Surface
	fixed  float64
	fixedU bool
}

func (c isoCurve) Interval() (float64, float64) {
	if c.fixedU {
		return c.s.VInterval()
	}
	return c.s.UInterval()
}

func (c isoCurve) Derivatives(maxOrder int, t float64) (linear.Derivatives, error) {
	u, v := t, c.fixed
	if c.fixedU {
		u, v = c.fixed, t
	}

	pd, err := c.s.PartialDerivatives(maxOrder, u, v)
	if err != nil {
		return nil, err
	}

	d := linear.Derivatives{pd.Point()}
	if maxOrder >= 1 {
		if c.fixedU {
			d = append(d, pd.Dv())
		} else {
			d = append(d, pd.Du())
		}
	}
	return d, nil
}

// GenerateUIsoLines samples count curves of constant u, evenly spaced over
// the u domain. Each curve runs along v with div samples and carries ∂S/∂v
// as its first derivative.
func (s *Surface) GenerateUIsoLines(count, maxOrder, div int) ([]*linear.Image, error) {
	return s.isoLines(true, count, maxOrder, div)
}

// GenerateVIsoLines samples count curves of constant v. Each curve runs
// along u and carries ∂S/∂u as its first derivative.
func (s *Surface) GenerateVIsoLines(count, maxOrder, div int) ([]*linear.Image, error) {
	return s.isoLines(false, count, maxOrder, div)
}

func (s *Surface) isoLines(fixedU bool, count, maxOrder, div int) ([]*linear.Image, error) {
	if count < 2 {
		return nil, fmt.Errorf("%w: %d iso lines (need at least 2)", linear.ErrInvalidSampleCount, count)
	}

	var across linear.Basis = s.v
	if fixedU {
		across = s.u
	}

	lines := make([]*linear.Image, count)
	for i, fixed := range linear.Span(across, count) {
		im, err := linear.GenerateImage(isoCurve{s: s, fixed: fixed, fixedU: fixedU}, maxOrder, div)
		if err != nil {
			return nil, fmt.Errorf("iso line %d: %w", i, err)
		}
		lines[i] = im
	}
	return lines, nil
}
