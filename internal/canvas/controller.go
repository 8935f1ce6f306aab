package canvas

// Controller owns the graph store for one open board and drives every
// canvas mutation: drop containment, group lifecycle, selection, and
// deletion. It is created when a board opens and discarded on board switch;
// nothing in it survives across boards.
//
// Mutating methods apply the local change immediately and return the
// backend SyncOps the change implies. The caller dispatches those ops
// fire-and-forget; the controller never waits on the network.
type Controller struct {
	store      *Store
	selection  *Selection
	groupCount int    // groups created this session, drives placement offset
	activeName string // group name most recently made the chat context
	newGroupID func() string
}

// NewController creates a controller with an empty store.
func NewController() *Controller {
	return &Controller{
		store:      NewStore(),
		selection:  NewSelection(),
		newGroupID: newGroupID,
	}
}

// Store exposes the graph store for rendering.
func (c *Controller) Store() *Store {
	return c.store
}

// Selection exposes the current selection set.
func (c *Controller) Selection() *Selection {
	return c.selection
}

// ActiveGroupName returns the group name most recently created or edited,
// used as the implicit chat scope. Empty means whole-board scope.
func (c *Controller) ActiveGroupName() string {
	return c.activeName
}

// ClearActiveGroup resets the implicit chat scope to the whole board.
func (c *Controller) ClearActiveGroup() {
	c.activeName = ""
}

// Refresh rebuilds item nodes from the backend item list and prunes the
// selection of ids that no longer exist.
func (c *Controller) Refresh(items []ItemSummary) {
	c.store.Refresh(items)
	c.selection.prune(func(id string) bool { return c.store.hasNode(id) })
}
