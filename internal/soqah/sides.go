package soqah

import "fmt"

// Side names an end of an arc.
type Side int

const (
	Left Side = iota
	Right
)

// SideCount is the number of ends of an arc.
const SideCount = 2

var sideNames = [SideCount]string{Left: "left", Right: "right"}

// Valid reports whether s is Left or Right.
func (s Side) Valid() bool {
	return s == Left || s == Right
}

// Opposite returns the other end.
func (s Side) Opposite() Side {
	return 1 - s
}

func (s Side) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Side(%d)", int(s))
	}
	return sideNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid side %d", int(s))
	}
	return []byte(sideNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	for i, name := range sideNames {
		if string(text) == name {
			*s = Side(i)
			return nil
		}
	}
	return fmt.Errorf("unknown side %q", text)
}

// Direction names an edge of a patch.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// DirectionCount is the number of edges of a patch.
const DirectionCount = 4

var directionNames = [DirectionCount]string{North: "north", East: "east", South: "south", West: "west"}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool {
	return d >= North && d <= West
}

// Opposite returns the facing edge: north↔south, east↔west.
func (d Direction) Opposite() Direction {
	return (d + 2) % DirectionCount
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	for i, name := range directionNames {
		if string(text) == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", text)
}
