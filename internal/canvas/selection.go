package canvas

// Selection tracks the set of currently selected node ids. It is recomputed
// from selection-change events and never persisted.
type Selection struct {
	order []string
	set   map[string]bool
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{set: make(map[string]bool)}
}

// Contains reports whether a node is selected.
func (s *Selection) Contains(id string) bool {
	return s.set[id]
}

// IDs returns the selected node ids in selection order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of selected nodes.
func (s *Selection) Len() int {
	return len(s.order)
}

// Add selects a node.
func (s *Selection) Add(id string) {
	if s.set[id] {
		return
	}
	s.set[id] = true
	s.order = append(s.order, id)
}

// Remove deselects a node.
func (s *Selection) Remove(id string) {
	if !s.set[id] {
		return
	}
	delete(s.set, id)
	s.order = removeID(s.order, id)
}

// Toggle flips a node's selection state.
func (s *Selection) Toggle(id string) {
	if s.set[id] {
		s.Remove(id)
	} else {
		s.Add(id)
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = s.order[:0]
	s.set = make(map[string]bool)
}

// Replace sets the selection to exactly the given ids.
func (s *Selection) Replace(ids []string) {
	s.Clear()
	for _, id := range ids {
		s.Add(id)
	}
}

func (s *Selection) prune(exists func(string) bool) {
	kept := s.order[:0]
	for _, id := range s.order {
		if exists(id) {
			kept = append(kept, id)
		} else {
			delete(s.set, id)
		}
	}
	s.order = kept
}

// SelectedItemIDs returns the selected item-node ids in selection order,
// excluding group nodes. This is the set published for chat scoping.
func (c *Controller) SelectedItemIDs() []string {
	var out []string
	for _, id := range c.selection.IDs() {
		if c.store.Item(id) != nil {
			out = append(out, id)
		}
	}
	return out
}

// DeleteItem removes one item node locally and returns the backend delete
// op. The subsequent refresh is the only reconciliation with the server.
func (c *Controller) DeleteItem(itemID string) []SyncOp {
	if c.store.Item(itemID) == nil {
		return nil
	}
	c.store.removeItem(itemID)
	c.selection.Remove(itemID)
	return []SyncOp{{Kind: OpDeleteItem, ItemIDs: []string{itemID}}}
}

// DeleteSelectedItems removes every currently selected item node, leaving
// selected group nodes untouched (group deletion requires its own
// confirmation and cascade). Returns one delete op per removed item and
// the removed ids.
func (c *Controller) DeleteSelectedItems() ([]SyncOp, []string) {
	ids := c.SelectedItemIDs()
	var ops []SyncOp
	for _, id := range ids {
		c.store.removeItem(id)
		c.selection.Remove(id)
		ops = append(ops, SyncOp{Kind: OpDeleteItem, ItemIDs: []string{id}})
	}
	return ops, ids
}
