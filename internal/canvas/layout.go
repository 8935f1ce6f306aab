package canvas

import "strings"

// Layout constants. Ungrouped items tile into a fixed-width grid; grouped
// items stack vertically inside their group's rectangle in backend list
// order. Grouped positions are therefore not stable across refreshes.
const (
	gridBaseX = 80.0
	gridBaseY = 80.0
	gridCols  = 5
	colWidth  = 200.0
	rowHeight = 100.0

	stackX     = 20.0
	stackBaseY = 40.0

	groupWidth  = 360.0
	groupHeight = 260.0
)

// assignPositions maps a backend item list to positioned item nodes. An item
// whose stored group name case-insensitively matches a live group is placed
// inside that group at the next stacking slot; everything else tiles into
// the grid by its index among ungrouped items. Deterministic: the same item
// list and group set always produce the same positions.
func assignPositions(items []ItemSummary, groups []*GroupNode) []*ItemNode {
	byName := make(map[string]*GroupNode, len(groups))
	for _, g := range groups {
		byName[strings.ToLower(g.Name)] = g
	}

	placed := make(map[string]int, len(groups)) // group id -> items stacked so far
	ungrouped := 0

	out := make([]*ItemNode, 0, len(items))
	for _, it := range items {
		n := &ItemNode{ID: it.ID, Label: it.Title, Type: it.Type}

		if g, ok := byName[strings.ToLower(it.GroupName)]; ok && it.GroupName != "" {
			k := placed[g.ID]
			placed[g.ID] = k + 1
			n.ParentGroupID = g.ID
			n.Pos = Point{X: stackX, Y: stackBaseY + float64(k)*rowHeight}
		} else {
			i := ungrouped
			ungrouped++
			n.Pos = Point{
				X: gridBaseX + float64(i%gridCols)*colWidth,
				Y: gridBaseY + float64(i/gridCols)*rowHeight,
			}
		}
		out = append(out, n)
	}
	return out
}
