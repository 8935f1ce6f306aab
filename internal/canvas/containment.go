package canvas

// Containment: dropping an item inside a group's rectangle reparents it to
// that group, converting its stored position from board-absolute to
// group-relative. Dropping it outside every rectangle detaches it. Each
// reparent or detach implies exactly one backend group-assignment call.

// hitGroup returns the group whose rectangle contains p, or nil. When the
// point lies inside several overlapping rectangles the smallest area wins,
// equal areas break toward the lexically smallest id (innermost-first
// policy), so the result never depends on iteration order.
func (c *Controller) hitGroup(p Point) *GroupNode {
	var best *GroupNode
	for _, g := range c.store.Groups() {
		if !g.Bounds.Contains(p) {
			continue
		}
		if best == nil {
			best = g
			continue
		}
		if g.Bounds.Area() < best.Bounds.Area() ||
			(g.Bounds.Area() == best.Bounds.Area() && g.ID < best.ID) {
			best = g
		}
	}
	return best
}

// DropItem records an item's drag-end at the given board-absolute point and
// resolves containment against every group rectangle. Returns the sync ops
// implied by the membership change, if any.
func (c *Controller) DropItem(itemID string, abs Point) []SyncOp {
	n := c.store.Item(itemID)
	if n == nil {
		return nil
	}

	target := c.hitGroup(abs)
	if target != nil {
		// Position becomes group-relative at the instant of reparenting.
		n.Pos = abs.Sub(target.Bounds.Origin())
		n.ParentGroupID = target.ID
		return []SyncOp{{
			Kind:      OpSetItemGroup,
			ItemIDs:   []string{n.ID},
			GroupName: target.Name,
		}}
	}

	hadParent := n.Grouped()
	n.Pos = abs
	n.ParentGroupID = ""
	if !hadParent {
		// Plain move on the open board, nothing to persist.
		return nil
	}
	return []SyncOp{{
		Kind:    OpSetItemGroup,
		ItemIDs: []string{n.ID},
	}}
}

// DetachItem removes an item from its group without moving it: the stored
// position converts back to board-absolute so the item stays put on screen.
// Returns nil when the item is missing or already ungrouped.
func (c *Controller) DetachItem(itemID string) []SyncOp {
	n := c.store.Item(itemID)
	if n == nil || !n.Grouped() {
		return nil
	}
	if g := c.store.Group(n.ParentGroupID); g != nil {
		n.Pos = n.Pos.Add(g.Bounds.Origin())
	}
	n.ParentGroupID = ""
	return []SyncOp{{
		Kind:    OpSetItemGroup,
		ItemIDs: []string{n.ID},
	}}
}

// MoveItem updates an item's position without containment resolution, for
// intermediate drag motion. The point is interpreted in the item's current
// coordinate frame.
func (c *Controller) MoveItem(itemID string, pos Point) {
	if n := c.store.Item(itemID); n != nil {
		n.Pos = pos
	}
}

// ItemAbsolutePos returns an item's board-absolute position regardless of
// grouping, or false when the item does not exist.
func (c *Controller) ItemAbsolutePos(itemID string) (Point, bool) {
	n := c.store.Item(itemID)
	if n == nil {
		return Point{}, false
	}
	return n.AbsolutePos(c.store.Group(n.ParentGroupID)), true
}

// MoveGroup repositions a group's rectangle. Members store group-relative
// positions, so they travel with it. Groups never nest: moving a group does
// not attempt containment against other groups.
func (c *Controller) MoveGroup(groupID string, origin Point) {
	if g := c.store.Group(groupID); g != nil {
		g.Bounds.X = origin.X
		g.Bounds.Y = origin.Y
	}
}
