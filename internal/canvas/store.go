package canvas

import "strings"

// Store holds the current set of visual nodes and edges. It is the single
// source of truth rendered by the board surface. All mutation happens on the
// UI event loop, so the store does no locking.
type Store struct {
	items     map[string]*ItemNode
	groups    map[string]*GroupNode
	itemOrder []string // backend list order, drives render and stacking order
	groupOrder []string // creation order
	edges     []Edge
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		items:  make(map[string]*ItemNode),
		groups: make(map[string]*GroupNode),
	}
}

// Item returns the item node with the given id, or nil.
func (s *Store) Item(id string) *ItemNode {
	return s.items[id]
}

// Group returns the group node with the given id, or nil.
func (s *Store) Group(id string) *GroupNode {
	return s.groups[id]
}

// GroupByName returns the live group whose name matches case-insensitively,
// or nil. The store holds at most one group per case-folded name.
func (s *Store) GroupByName(name string) *GroupNode {
	folded := strings.ToLower(name)
	for _, id := range s.groupOrder {
		if strings.ToLower(s.groups[id].Name) == folded {
			return s.groups[id]
		}
	}
	return nil
}

// Items returns item nodes in backend list order.
func (s *Store) Items() []*ItemNode {
	out := make([]*ItemNode, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		out = append(out, s.items[id])
	}
	return out
}

// Groups returns group nodes in creation order.
func (s *Store) Groups() []*GroupNode {
	out := make([]*GroupNode, 0, len(s.groupOrder))
	for _, id := range s.groupOrder {
		out = append(out, s.groups[id])
	}
	return out
}

// Edges returns the current edge list.
func (s *Store) Edges() []Edge {
	return s.edges
}

// Connect adds an edge between two nodes if both exist and the edge is not
// already present.
func (s *Store) Connect(from, to string) bool {
	if from == to || !s.hasNode(from) || !s.hasNode(to) {
		return false
	}
	for _, e := range s.edges {
		if e.From == from && e.To == to {
			return false
		}
	}
	s.edges = append(s.edges, Edge{From: from, To: to})
	return true
}

func (s *Store) hasNode(id string) bool {
	if _, ok := s.items[id]; ok {
		return true
	}
	_, ok := s.groups[id]
	return ok
}

// addGroup inserts a group node. Name uniqueness is the lifecycle
// manager's responsibility.
func (s *Store) addGroup(g *GroupNode) {
	s.groups[g.ID] = g
	s.groupOrder = append(s.groupOrder, g.ID)
}

// removeGroup deletes a group node and its edges. Members must already be
// detached by the caller.
func (s *Store) removeGroup(id string) {
	delete(s.groups, id)
	s.groupOrder = removeID(s.groupOrder, id)
	s.dropEdges(id)
}

// removeItem deletes an item node and its edges.
func (s *Store) removeItem(id string) {
	delete(s.items, id)
	s.itemOrder = removeID(s.itemOrder, id)
	s.dropEdges(id)
}

func (s *Store) dropEdges(id string) {
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.From != id && e.To != id {
			kept = append(kept, e)
		}
	}
	s.edges = kept
}

// Members returns the item nodes whose parent is the given group, in
// backend list order.
func (s *Store) Members(groupID string) []*ItemNode {
	var out []*ItemNode
	for _, id := range s.itemOrder {
		if s.items[id].ParentGroupID == groupID {
			out = append(out, s.items[id])
		}
	}
	return out
}

// Refresh rebuilds the item nodes from a backend item list, assigning
// positions with the layout pass. Group nodes are preserved: groups are
// client-session state, re-linked to items only through case-insensitive
// name matching. Edges referencing items the backend no longer returns
// are dropped.
func (s *Store) Refresh(items []ItemSummary) {
	s.items = make(map[string]*ItemNode, len(items))
	s.itemOrder = s.itemOrder[:0]
	for _, n := range assignPositions(items, s.Groups()) {
		s.items[n.ID] = n
		s.itemOrder = append(s.itemOrder, n.ID)
	}

	kept := s.edges[:0]
	for _, e := range s.edges {
		if s.hasNode(e.From) && s.hasNode(e.To) {
			kept = append(kept, e)
		}
	}
	s.edges = kept
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
