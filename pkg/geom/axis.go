package geom

import "fmt"

// Axis names the dimension along which a container is split.
//
// Vertical measures along y: cuts are horizontal lines and the resulting
// bands are stacked top-to-bottom. Horizontal measures along x: cuts are
// vertical lines and bands run left-to-right.
type Axis uint8

const (
	// AxisNone marks a container that has not been split.
	AxisNone Axis = iota
	Horizontal
	Vertical
)

// Cross returns the other axis. AxisNone has no cross axis.
func (a Axis) Cross() Axis {
	switch a {
	case Horizontal:
		return Vertical
	case Vertical:
		return Horizontal
	}
	return AxisNone
}

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case AxisNone:
		return "none"
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// ParseAxis accepts "horizontal", "h", "vertical", "v", or "none".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "horizontal", "h", "x":
		return Horizontal, nil
	case "vertical", "v", "y":
		return Vertical, nil
	case "none", "":
		return AxisNone, nil
	}
	return AxisNone, fmt.Errorf("unknown axis %q", s)
}
