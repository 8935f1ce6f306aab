// Package canvas implements the board canvas state controller: the node/edge
// graph store, drop containment, group lifecycle, selection, and the layout
// pass that maps the backend item list onto board positions. The package is
// pure state: mutating operations return the backend sync operations they
// imply as SyncOp values instead of performing I/O.
package canvas

// Point is a position on the board. For an ungrouped item it is
// board-absolute; for a grouped item it is relative to the owning
// group's origin.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle identified by its top-left origin.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Contains reports whether p lies within [x, x+w] × [y, y+h].
// Boundary points count as inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// ItemNode is the visual representation of a backend item on the board.
type ItemNode struct {
	ID            string // backend item id, stable across refreshes
	Label         string // display title, not identity
	Type          string // youtube, document, webpage, audiovideo
	Pos           Point  // absolute when ungrouped, group-relative when grouped
	ParentGroupID string // owning group's client id, empty when ungrouped
}

// Grouped reports whether the item currently belongs to a group.
func (n *ItemNode) Grouped() bool {
	return n.ParentGroupID != ""
}

// GroupNode is a rectangular container on the board. The client id is only
// meaningful to the graph store; the backend identifies groups by name,
// matched case-insensitively.
type GroupNode struct {
	ID       string // client-generated, session-local
	Name     string // server-side identity, case-insensitive
	Template string // guidance text for group-scoped answers
	Bounds   Rect
}

// AbsolutePos returns an item's board-absolute position given the group it
// belongs to, or its stored position when ungrouped.
func (n *ItemNode) AbsolutePos(parent *GroupNode) Point {
	if parent == nil {
		return n.Pos
	}
	return n.Pos.Add(parent.Bounds.Origin())
}

// Edge is a visual connection between two nodes.
type Edge struct {
	From string
	To   string
}

// ItemSummary is the slice of a backend item the layout pass consumes.
type ItemSummary struct {
	ID        string
	Title     string
	Type      string
	GroupName string // stored group-name attribute, empty when ungrouped
}
