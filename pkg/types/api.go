package types

import "context"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindParse    ErrKind = iota // field value is not valid layout XML
	ErrKindPersist                 // save/transaction failure at the storage layer
	ErrKindAccess                  // permission enforcement refused the operation
	ErrKindState                   // invalid operation for current state (e.g., closed tx)
	ErrKindNotFound                // missing item/field
)

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so sentinel matching works through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrMalformedLayout indicates the field value failed to parse as layout XML.
	ErrMalformedLayout = &Error{Kind: ErrKindParse, Msg: "malformed layout definition"}
	// ErrPersist indicates the item save/transaction commit failed.
	ErrPersist = &Error{Kind: ErrKindPersist, Msg: "layout field save failed"}
	// ErrAccessDenied indicates permission enforcement refused the edit.
	ErrAccessDenied = &Error{Kind: ErrKindAccess, Msg: "access denied"}
	// ErrTxClosed indicates a write was attempted on a committed or rolled-back transaction.
	ErrTxClosed = &Error{Kind: ErrKindState, Msg: "edit transaction is closed"}
	// ErrFieldNotFound indicates the item does not carry the named field.
	ErrFieldNotFound = &Error{Kind: ErrKindNotFound, Msg: "field not found"}
)

// -----------------------------------------------------------------------------
// Core Identifiers
// -----------------------------------------------------------------------------

// FieldID names an item field. Layout definitions live in two well-known
// fields; hosts may address any other field through the same contracts.
type FieldID string

// The two layout fields every presentable item carries. The shared field
// holds the layout applying to all versions; the final field holds the
// per-version overrides layered on top of it.
const (
	FieldSharedLayout FieldID = "__renderings"
	FieldFinalLayout  FieldID = "__final renderings"
)

// RenderingAction is the outcome of applying a caller action to one
// rendering entry.
type RenderingAction int

const (
	// ActionKeep leaves the entry untouched.
	ActionKeep RenderingAction = iota
	// ActionDelete removes the entry from its device.
	ActionDelete
)

// String implements the Stringer interface for RenderingAction.
func (a RenderingAction) String() string {
	switch a {
	case ActionKeep:
		return "keep"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Collaborator Contracts
// -----------------------------------------------------------------------------

// Item is the read surface of a content item. Field returns the materialized
// value of a field: implementations backed by delta/inheritance storage must
// resolve the effective value, never hand back the raw stored string, or
// delta-based inheritance would be corrupted on the write path.
//
// An empty string with a nil error means the field is present but holds no
// value; callers treat that as "nothing to do".
type Item interface {
	Field(ctx context.Context, id FieldID) (string, error)
}

// Editor opens edit transactions on items. Begin may refuse an item for
// permission reasons (ErrAccessDenied) unless the caller holds the
// security-bypass scope on ctx.
type Editor interface {
	Begin(ctx context.Context, it Item) (EditTx, error)
}

// EditTx batches field writes on one item into a single atomic commit.
// SetField stages a write; nothing is visible to readers until Commit.
// Rollback discards all staged writes. A tx is single-use: after Commit or
// Rollback every method returns ErrTxClosed.
//
// Implementations are NOT required to be safe for concurrent use; a tx
// belongs to one logical operation.
type EditTx interface {
	SetField(id FieldID, value string) error
	Commit(ctx context.Context) error
	Rollback()
}
