package canvas

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// OpKind identifies a class of backend sync operation.
type OpKind int

const (
	// OpSetItemGroup assigns or clears the group-name attribute of one or
	// more items. An empty GroupName clears membership.
	OpSetItemGroup OpKind = iota
	// OpUpsertGroup creates or updates a (board, name, template) record.
	OpUpsertGroup
	// OpDeleteGroup removes the persisted group record by name.
	OpDeleteGroup
	// OpDeleteItem deletes a single item.
	OpDeleteItem
)

// String returns a string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpSetItemGroup:
		return "set-item-group"
	case OpUpsertGroup:
		return "upsert-group"
	case OpDeleteGroup:
		return "delete-group"
	case OpDeleteItem:
		return "delete-item"
	default:
		return "unknown"
	}
}

// SyncOp is a single fire-and-forget backend call implied by a local
// mutation. Ops are emitted by controller operations and executed by a
// Syncer after the optimistic local change has already been applied.
type SyncOp struct {
	Kind      OpKind
	ItemIDs   []string
	GroupName string
	Template  string
}

// Backend is the narrow backend surface the syncer needs. The api package's
// HTTP client satisfies it.
type Backend interface {
	SetItemGroup(ctx context.Context, itemIDs []string, group string) error
	UpsertGroup(ctx context.Context, boardID, name, template string) error
	DeleteGroup(ctx context.Context, boardID, name string) error
	DeleteItem(ctx context.Context, itemID string) error
}

// OpResult records the outcome of the most recent execution of an op kind.
type OpResult struct {
	Op   SyncOp
	Err  error
	Time time.Time
}

// Syncer executes sync ops against the backend. Failures are never retried
// and never rolled back; the last result per op kind is retained so the UI
// can surface sync health without blocking any interaction.
type Syncer struct {
	backend Backend
	boardID string
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.Mutex
	last map[OpKind]OpResult
}

// NewSyncer creates a Syncer for the given board.
func NewSyncer(backend Backend, boardID string, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		backend: backend,
		boardID: boardID,
		logger:  logger,
		now:     time.Now,
		last:    make(map[OpKind]OpResult),
	}
}

// Execute performs one op and records its result. The returned error is
// informational; callers on the UI path ignore it.
func (s *Syncer) Execute(ctx context.Context, op SyncOp) error {
	var err error
	switch op.Kind {
	case OpSetItemGroup:
		err = s.backend.SetItemGroup(ctx, op.ItemIDs, op.GroupName)
	case OpUpsertGroup:
		err = s.backend.UpsertGroup(ctx, s.boardID, op.GroupName, op.Template)
	case OpDeleteGroup:
		err = s.backend.DeleteGroup(ctx, s.boardID, op.GroupName)
	case OpDeleteItem:
		for _, id := range op.ItemIDs {
			if e := s.backend.DeleteItem(ctx, id); e != nil {
				err = e
			}
		}
	}

	s.mu.Lock()
	s.last[op.Kind] = OpResult{Op: op, Err: err, Time: s.now()}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("sync op failed",
			"op", op.Kind.String(),
			"group", op.GroupName,
			"items", len(op.ItemIDs),
			"error", err)
	}
	return err
}

// ExecuteAll performs ops in order. Each op is independent best-effort; a
// failure does not stop the rest.
func (s *Syncer) ExecuteAll(ctx context.Context, ops []SyncOp) {
	for _, op := range ops {
		_ = s.Execute(ctx, op)
	}
}

// LastError returns the most recent failed result for the given op kind.
// ok is false when the kind has never failed (or never run).
func (s *Syncer) LastError(kind OpKind) (OpResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.last[kind]
	if !ok || res.Err == nil {
		return OpResult{}, false
	}
	return res, true
}

// LastFailure returns the most recent failed result across all op kinds.
func (s *Syncer) LastFailure() (OpResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest OpResult
	found := false
	for _, res := range s.last {
		if res.Err == nil {
			continue
		}
		if !found || res.Time.After(latest.Time) {
			latest = res
			found = true
		}
	}
	return latest, found
}
