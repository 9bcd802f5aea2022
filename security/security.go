// Package security carries the access-enforcement state consulted by item
// editors. Enforcement is active by default; system-level maintenance code
// (bulk layout rewrites, migrations) opens a bypass scope so its writes are
// not blocked by item-level permission checks meant for user edits.
//
// The state is a scope.Disabler: the bypass holds only for contexts derived
// from Bypass's return value and can never leak into a concurrent operation.
package security

import (
	"context"

	"github.com/presslayer/layoutkit/scope"
)

var enforcement = scope.NewDisabler()

// Bypass suspends access enforcement for the lifetime of the returned
// context.
func Bypass(ctx context.Context) context.Context {
	return enforcement.Disable(ctx)
}

// Restore re-establishes enforcement inside an otherwise bypassed scope.
func Restore(ctx context.Context) context.Context {
	return enforcement.Enable(ctx)
}

// IsEnforced reports whether access enforcement is active on ctx. Editors
// consult this before refusing a protected item.
func IsEnforced(ctx context.Context) bool {
	return enforcement.IsActive(ctx)
}
