package canvas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrEmptyGroupName is returned when a group is created with a blank name.
	ErrEmptyGroupName = errors.New("group name must not be empty")
	// ErrDuplicateGroupName is returned when a new group's name case-folds
	// equal to a live group's name. The backend only knows groups by name,
	// so two such groups would be indistinguishable server-side.
	ErrDuplicateGroupName = errors.New("a group with that name already exists")
	// ErrNoSuchGroup is returned for operations on an unknown group id or name.
	ErrNoSuchGroup = errors.New("no such group")
)

// Successive groups are offset so they do not stack on top of each other.
const (
	groupBaseX = 40.0
	groupBaseY = 40.0
	groupStepX = 40.0
	groupStepY = 30.0
)

func newGroupID() string {
	return uuid.NewString()
}

// CreateGroup adds a group node with the given name and template and makes
// the name the active chat context. The template is captured before the
// group becomes visible so a group never exists without guidance text
// (an empty template is still a deliberate answer to the prompt).
func (c *Controller) CreateGroup(name, template string) (*GroupNode, []SyncOp, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, ErrEmptyGroupName
	}
	if c.store.GroupByName(name) != nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateGroupName, name)
	}

	k := float64(c.groupCount)
	c.groupCount++

	g := &GroupNode{
		ID:       c.newGroupID(),
		Name:     name,
		Template: template,
		Bounds: Rect{
			X:      groupBaseX + k*groupStepX,
			Y:      groupBaseY + k*groupStepY,
			Width:  groupWidth,
			Height: groupHeight,
		},
	}
	c.store.addGroup(g)
	c.activeName = name

	return g, []SyncOp{{Kind: OpUpsertGroup, GroupName: name, Template: template}}, nil
}

// SetGroupTemplate updates a live group's template by name and upserts the
// (board, name, template) triple. The caller is expected to have resolved
// the current template from the backend group list before prompting, so an
// edit never starts from a stale local copy.
func (c *Controller) SetGroupTemplate(name, template string) ([]SyncOp, error) {
	g := c.store.GroupByName(name)
	if g == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchGroup, name)
	}
	g.Template = template
	c.activeName = g.Name
	return []SyncOp{{Kind: OpUpsertGroup, GroupName: g.Name, Template: template}}, nil
}

// DeleteGroup removes a group with cascading detachment: every member is
// detached locally with its position converted back to board-absolute,
// then the group node is removed. The returned ops clear the members'
// group attribute in one call and delete the group record in another;
// each is independent best-effort, so a partial failure can leave the
// backend record orphaned until the next refresh.
func (c *Controller) DeleteGroup(groupID string) ([]SyncOp, error) {
	g := c.store.Group(groupID)
	if g == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchGroup, groupID)
	}

	members := c.store.Members(groupID)
	detached := make([]string, 0, len(members))
	for _, n := range members {
		n.Pos = n.Pos.Add(g.Bounds.Origin())
		n.ParentGroupID = ""
		detached = append(detached, n.ID)
	}

	c.store.removeGroup(groupID)
	c.selection.Remove(groupID)
	if strings.EqualFold(c.activeName, g.Name) {
		c.activeName = ""
	}

	var ops []SyncOp
	if len(detached) > 0 {
		ops = append(ops, SyncOp{Kind: OpSetItemGroup, ItemIDs: detached})
	}
	ops = append(ops, SyncOp{Kind: OpDeleteGroup, GroupName: g.Name})
	return ops, nil
}
