package board

// Direction is one of the four orthogonal movement directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all four directions in a stable order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// String returns the human-readable direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Apply returns the position one step from p in direction d.
func (d Direction) Apply(p Position) Position {
	switch d {
	case DirUp:
		return Position{X: p.X, Y: p.Y - 1}
	case DirDown:
		return Position{X: p.X, Y: p.Y + 1}
	case DirLeft:
		return Position{X: p.X - 1, Y: p.Y}
	default:
		return Position{X: p.X + 1, Y: p.Y}
	}
}
