// Package scope provides a generic, nestable, scope-bound override of a
// current value: a Switch establishes a value for the lifetime of a derived
// context and any reader holding that context observes it as the current
// effective value, falling back to the Switch's baseline when no override
// is active.
//
// Overrides ride on context.Context rather than process-global state. The
// parent context retains the previous value, so restoration on scope exit
// is automatic, strict LIFO at any nesting depth, and holds on every exit
// path (return, error, panic). Because contexts are per logical operation,
// an override can never leak into a concurrent unrelated operation.
//
// Usage:
//
//	var verbosity = scope.NewSwitch(0)
//
//	func noisy(ctx context.Context) {
//	    ctx = verbosity.Enter(ctx, 2)
//	    work(ctx) // verbosity.Current(ctx) == 2 in here
//	}   // caller's ctx still observes the previous value
//
// Disabler specializes Switch for the common "temporarily suspend a
// behavior" case; see the security package for its use as a permission
// bypass.
package scope
