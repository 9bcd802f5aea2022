// Package types defines the public API types shared across layoutkit:
// typed errors with stable categories, field identifiers, the rendering
// action enum, and the collaborator contracts (Item, Editor, EditTx) the
// transformer consumes.
//
// This package only exposes interfaces and core types. Implementations of
// the collaborator contracts live elsewhere (see item/memitem for an
// in-memory one); hosts embedding layoutkit into a real content store
// provide their own.
//
// Design goals:
//   - Small, copyable identifiers (FieldID) instead of object graphs.
//   - Typed errors with stable categories (parse/persist/access/...).
//   - Contracts narrow enough that any field-addressable item store
//     can satisfy them.
//
// This package has no dependencies beyond the standard library.
package types
