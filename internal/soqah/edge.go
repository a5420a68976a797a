package soqah

import "gonum.org/v1/gonum/spatial/r3"

// Reflect returns 2·boundary − interior, the mirror image of interior
// through boundary. Placing it next to boundary on the far side of an edge
// makes the control polygon straight across the edge.
func Reflect(boundary, interior r3.Vec) r3.Vec {
	return r3.Sub(r3.Scale(2, boundary), interior)
}

// Extrapolate returns (depth+1)·boundary − depth·interior, the point
// depth steps beyond boundary along the line through interior.
func Extrapolate(boundary, interior r3.Vec, depth int) r3.Vec {
	d := float64(depth)
	return r3.Sub(r3.Scale(d+1, boundary), r3.Scale(d, interior))
}

// Midpoint returns the average of p and q.
func Midpoint(p, q r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(p, q))
}

// ReflectLine applies Reflect point by point.
func ReflectLine(boundary, interior Line) Line {
	var out Line
	for k := range out {
		out[k] = Reflect(boundary[k], interior[k])
	}
	return out
}

// ExtrapolateLine applies Extrapolate point by point.
func ExtrapolateLine(boundary, interior Line, depth int) Line {
	var out Line
	for k := range out {
		out[k] = Extrapolate(boundary[k], interior[k], depth)
	}
	return out
}

// MidpointLine applies Midpoint point by point.
func MidpointLine(p, q Line) Line {
	var out Line
	for k := range out {
		out[k] = Midpoint(p[k], q[k])
	}
	return out
}
