package cagd

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// ArcStyle holds the display colors of one arc: its control polygon and
// the image of each derivative order.
type ArcStyle struct {
	Control color.RGBA
	Image   [maxArcOrder + 1]color.RGBA
}

// StyleProvider assigns display attributes to new nodes. Consecutive
// indices should yield visually distinguishable results.
type StyleProvider interface {
	ArcStyle(index int) ArcStyle
	Material(index int) int
}

// PaletteStyle cycles through a fixed palette and a fixed number of
// materials.
type PaletteStyle struct {
	Palette   []color.RGBA
	Materials int
}

// DefaultStyle returns a PaletteStyle over a set of named colors.
func DefaultStyle() *PaletteStyle {
	return &PaletteStyle{
		Palette: []color.RGBA{
			colornames.Crimson,
			colornames.Gold,
			colornames.Dodgerblue,
			colornames.Limegreen,
			colornames.Darkorange,
			colornames.Mediumorchid,
			colornames.Turquoise,
			colornames.Slategray,
			colornames.Tomato,
			colornames.Royalblue,
			colornames.Yellowgreen,
			colornames.Hotpink,
		},
		Materials: defaultMaterialCount,
	}
}

// ArcStyle picks consecutive palette entries per index, starting a stride
// apart. The stride is coprime with the palette length, so the first
// len(Palette) indices all start on different entries; styles repeat after
// that.
func (p *PaletteStyle) ArcStyle(index int) ArcStyle {
	n := len(p.Palette)
	if n == 0 {
		return ArcStyle{}
	}
	stride := paletteStride(n)
	at := func(k int) color.RGBA {
		return p.Palette[((index*stride+k)%n+n)%n]
	}

	s := ArcStyle{Control: at(0)}
	for order := range s.Image {
		s.Image[order] = at(order + 1)
	}
	return s
}

// paletteStride returns the smallest step of at least one style's worth of
// entries that is coprime with n.
func paletteStride(n int) int {
	stride := maxArcOrder + 2
	for gcd(stride, n) != 1 {
		stride++
	}
	return stride
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Material cycles through the material indices.
func (p *PaletteStyle) Material(index int) int {
	if p.Materials <= 0 {
		return 0
	}
	return (index%p.Materials + p.Materials) % p.Materials
}
