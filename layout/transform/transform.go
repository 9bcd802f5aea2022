// Package transform applies caller-supplied actions to every rendering
// entry in an item's layout definitions, deleting entries on request and
// persisting only when the serialized form actually changed.
//
// Transformation Protocol (per field):
//  1. Read the materialized field value (never the raw stored string, so
//     delta/inherited values resolve correctly)
//  2. Empty value - nothing to transform, return
//  3. Parse; a parse failure is fatal for the call and nothing is written
//  4. Re-serialize immediately as the normalized baseline
//  5. Visit devices highest index first, and renderings within each device
//     highest index first, so deletions cannot skip or misindex entries
//  6. Serialize and compare against the baseline; equal means no write,
//     avoiding spurious saves and version bumps
//  7. Otherwise open the security bypass, begin an edit transaction, stage
//     the field write, and commit
//
// The permission bypass exists because these rewrites are system-level
// maintenance, not user edits; item-level permission checks must not block
// them. Both scopes are released on every exit path.
package transform

import (
	"context"

	"github.com/presslayer/layoutkit/layout"
	"github.com/presslayer/layoutkit/pkg/types"
	"github.com/presslayer/layoutkit/security"
)

// Action decides the fate of one rendering entry. It is invoked exactly
// once per existing entry per call. Anything other than ActionDelete
// leaves the entry untouched.
type Action func(*layout.Rendering) types.RenderingAction

// Transformer rewrites layout fields through an Editor. It holds no
// per-item state; one Transformer serves any number of items.
type Transformer struct {
	ed types.Editor
}

// New creates a Transformer persisting through ed.
func New(ed types.Editor) *Transformer {
	return &Transformer{ed: ed}
}

// ApplyToAllRenderings applies fn to every rendering entry in both layout
// fields of it, each field independently: a deletion while processing the
// shared field never affects the final field and vice versa.
func (t *Transformer) ApplyToAllRenderings(ctx context.Context, it types.Item, fn Action) error {
	if err := t.ApplyToField(ctx, it, types.FieldSharedLayout, fn); err != nil {
		return err
	}
	return t.ApplyToField(ctx, it, types.FieldFinalLayout, fn)
}

// ApplyToSharedRenderings applies fn to the shared layout field only.
func (t *Transformer) ApplyToSharedRenderings(ctx context.Context, it types.Item, fn Action) error {
	return t.ApplyToField(ctx, it, types.FieldSharedLayout, fn)
}

// ApplyToFinalRenderings applies fn to the final layout field only.
func (t *Transformer) ApplyToFinalRenderings(ctx context.Context, it types.Item, fn Action) error {
	return t.ApplyToField(ctx, it, types.FieldFinalLayout, fn)
}

// ApplyToField runs the transformation protocol against one layout field.
func (t *Transformer) ApplyToField(ctx context.Context, it types.Item, field types.FieldID, fn Action) error {
	value, err := it.Field(ctx, field)
	if err != nil {
		return err
	}
	if value == "" {
		return nil
	}

	doc, err := layout.Parse(value)
	if err != nil {
		return err
	}
	normalized := doc.Serialize()

	applyAction(doc, fn)

	final := doc.Serialize()
	if final == normalized {
		return nil
	}
	return t.persist(ctx, it, field, final)
}

// applyAction visits renderings in reverse index order, both across
// devices and within each device, removing entries the action marks for
// deletion. Reverse order keeps remaining indices valid across removals.
// Members that are not the expected variant are skipped.
func applyAction(doc *layout.Document, fn Action) {
	for i := len(doc.Nodes) - 1; i >= 0; i-- {
		dev, ok := doc.Nodes[i].(*layout.Device)
		if !ok {
			continue
		}
		for j := len(dev.Nodes) - 1; j >= 0; j-- {
			r, ok := dev.Nodes[j].(*layout.Rendering)
			if !ok {
				continue
			}
			if fn(r) == types.ActionDelete {
				dev.Nodes = append(dev.Nodes[:j], dev.Nodes[j+1:]...)
			}
		}
	}
}

// persist writes the new field value under the security bypass, all staged
// writes committing atomically. The transaction is rolled back on any
// failure so no partial state survives.
func (t *Transformer) persist(ctx context.Context, it types.Item, field types.FieldID, value string) error {
	ctx = security.Bypass(ctx)

	tx, err := t.ed.Begin(ctx, it)
	if err != nil {
		return &types.Error{Kind: types.ErrKindPersist, Msg: "begin layout field edit", Err: err}
	}
	if err := tx.SetField(field, value); err != nil {
		tx.Rollback()
		return &types.Error{Kind: types.ErrKindPersist, Msg: "stage layout field write", Err: err}
	}
	if err := tx.Commit(ctx); err != nil {
		tx.Rollback()
		return &types.Error{Kind: types.ErrKindPersist, Msg: "commit layout field write", Err: err}
	}
	return nil
}
