package soqah

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestReflect(t *testing.T) {
	b := r3.Vec{X: 1, Y: 2, Z: 3}
	i := r3.Vec{X: 0.5, Y: -1, Z: 3}

	assert.Equal(t, r3.Vec{X: 1.5, Y: 5, Z: 3}, Reflect(b, i))
	assert.Equal(t, Reflect(b, i), Extrapolate(b, i, 1))
	assert.Equal(t, b, Extrapolate(b, i, 0))
	assert.Equal(t, r3.Vec{X: 2.5, Y: 11, Z: 3}, Extrapolate(b, i, 3))
	assert.Equal(t, r3.Vec{X: 0.75, Y: 0.5, Z: 3}, Midpoint(b, i))
}

func TestLineHelpers(t *testing.T) {
	var b, i Line
	for k := range b {
		b[k] = r3.Vec{X: float64(k), Z: 1}
		i[k] = r3.Vec{X: float64(k), Z: 0}
	}

	r := ReflectLine(b, i)
	e := ExtrapolateLine(b, i, 2)
	m := MidpointLine(b, i)
	for k := range r {
		assert.Equal(t, r3.Vec{X: float64(k), Z: 2}, r[k])
		assert.Equal(t, r3.Vec{X: float64(k), Z: 3}, e[k])
		assert.Equal(t, r3.Vec{X: float64(k), Z: 0.5}, m[k])
	}
}

func TestSides(t *testing.T) {
	assert.Equal(t, Right, Left.Opposite())
	assert.Equal(t, Left, Right.Opposite())
	assert.Equal(t, South, North.Opposite())
	assert.Equal(t, West, East.Opposite())
	assert.Equal(t, North, South.Opposite())
	assert.Equal(t, East, West.Opposite())

	assert.False(t, Side(2).Valid())
	assert.False(t, Direction(-1).Valid())
	assert.Equal(t, "Side(5)", Side(5).String())
	assert.Equal(t, "west", West.String())
}

func TestSideText(t *testing.T) {
	for _, s := range []Side{Left, Right} {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var got Side
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
	}
	for d := range Direction(DirectionCount) {
		text, err := d.MarshalText()
		require.NoError(t, err)
		var got Direction
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, d, got)
	}

	var s Side
	require.Error(t, s.UnmarshalText([]byte("up")))
	var d Direction
	require.Error(t, d.UnmarshalText([]byte("left")))
	_, err := Side(7).MarshalText()
	require.Error(t, err)
}
