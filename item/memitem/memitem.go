// Package memitem provides an in-memory implementation of the item
// collaborator contracts: materialized field reads with parent fallback,
// and staged edit transactions with atomic commit honoring the security
// bypass scope.
//
// It backs tests and small hosts; production systems implement the same
// contracts over their own content store.
package memitem

import (
	"context"
	"sync"

	"github.com/presslayer/layoutkit/pkg/types"
	"github.com/presslayer/layoutkit/security"
)

// Item is an in-memory content item. Reads materialize inherited values:
// a field unset on the item falls back through the parent chain, which is
// the contract-level analogue of delta-based field inheritance.
type Item struct {
	name      string
	parent    *Item
	protected bool

	mu     sync.RWMutex
	fields map[types.FieldID]string
}

// Option configures a new Item.
type Option func(*Item)

// WithField seeds a field value.
func WithField(id types.FieldID, value string) Option {
	return func(it *Item) { it.fields[id] = value }
}

// WithParent sets the inheritance source for materialized reads.
func WithParent(parent *Item) Option {
	return func(it *Item) { it.parent = parent }
}

// Protected marks the item as refusing edits while access enforcement is
// active; only callers holding the security bypass may open a transaction.
func Protected() Option {
	return func(it *Item) { it.protected = true }
}

// NewItem creates an item with the given options applied in order.
func NewItem(name string, opts ...Option) *Item {
	it := &Item{name: name, fields: make(map[types.FieldID]string)}
	for _, o := range opts {
		o(it)
	}
	return it
}

// Name returns the item's display name.
func (it *Item) Name() string { return it.name }

// Field returns the materialized value of a field: the item's own value
// when set, otherwise the nearest ancestor's. An unset field reads as ""
// with no error.
func (it *Item) Field(_ context.Context, id types.FieldID) (string, error) {
	for cur := it; cur != nil; cur = cur.parent {
		cur.mu.RLock()
		v, ok := cur.fields[id]
		cur.mu.RUnlock()
		if ok {
			return v, nil
		}
	}
	return "", nil
}

// Store hands out edit transactions on Items.
type Store struct{}

// NewStore creates a Store.
func NewStore() *Store { return &Store{} }

// Begin opens an edit transaction on it. A protected item is refused with
// ErrAccessDenied unless the security bypass is active on ctx.
func (s *Store) Begin(ctx context.Context, it types.Item) (types.EditTx, error) {
	mi, ok := it.(*Item)
	if !ok {
		return nil, &types.Error{Kind: types.ErrKindState, Msg: "memitem: foreign item type"}
	}
	if mi.protected && security.IsEnforced(ctx) {
		return nil, types.ErrAccessDenied
	}
	return &Tx{it: mi, staged: make(map[types.FieldID]string)}, nil
}

// Tx stages field writes on one Item. Commit applies every staged write
// under the item lock in one step; until then readers observe the old
// values. A Tx is single-use and not safe for concurrent use.
type Tx struct {
	it     *Item
	staged map[types.FieldID]string
	closed bool
}

// SetField stages a write. The value always lands on the item itself,
// overriding any inherited value.
func (tx *Tx) SetField(id types.FieldID, value string) error {
	if tx.closed {
		return types.ErrTxClosed
	}
	tx.staged[id] = value
	return nil
}

// Commit applies all staged writes atomically and closes the transaction.
func (tx *Tx) Commit(ctx context.Context) error {
	if tx.closed {
		return types.ErrTxClosed
	}
	if err := ctx.Err(); err != nil {
		return &types.Error{Kind: types.ErrKindPersist, Msg: "memitem: commit canceled", Err: err}
	}
	tx.it.mu.Lock()
	for id, v := range tx.staged {
		tx.it.fields[id] = v
	}
	tx.it.mu.Unlock()
	tx.closed = true
	tx.staged = nil
	return nil
}

// Rollback discards all staged writes and closes the transaction. Calling
// it after Commit is a no-op.
func (tx *Tx) Rollback() {
	tx.closed = true
	tx.staged = nil
}
