package scope

import "context"

// switchKey is the context key type. Every Switch owns a distinct key, so
// two Switches of the same state type never observe each other's overrides.
// The padding byte keeps the type non-zero-sized; zero-size allocations may
// share an address, which would collapse distinct keys into one.
type switchKey struct{ _ byte }

// Switch is a scope-bound override of a current value of type S. The zero
// value is not usable; construct with NewSwitch.
//
// A Switch itself is immutable after construction and safe for concurrent
// use; all mutable state lives on the contexts it derives.
type Switch[S comparable] struct {
	baseline S
	key      *switchKey
}

// NewSwitch creates a Switch whose Current reports baseline wherever no
// override is active on the context.
func NewSwitch[S comparable](baseline S) *Switch[S] {
	return &Switch[S]{baseline: baseline, key: &switchKey{}}
}

// Enter establishes v as the current value for the lifetime of the returned
// context. The previous value stays attached to ctx, so exiting the scope is
// simply a matter of no longer using the derived context. Scopes nest
// arbitrarily.
func (s *Switch[S]) Enter(ctx context.Context, v S) context.Context {
	return context.WithValue(ctx, s.key, v)
}

// Current returns the value established by the innermost active scope on
// ctx, or the baseline if none is active.
func (s *Switch[S]) Current(ctx context.Context) S {
	if v, ok := ctx.Value(s.key).(S); ok {
		return v
	}
	return s.baseline
}

// Baseline returns the default value Current falls back to.
func (s *Switch[S]) Baseline() S { return s.baseline }

// Disabler is the disabling specialization of Switch: a behavior that is
// active by default and can be suspended for the duration of a scope.
type Disabler struct {
	sw *Switch[bool]
}

// NewDisabler creates a Disabler whose behavior is active by default.
func NewDisabler() *Disabler {
	return &Disabler{sw: NewSwitch(true)}
}

// Disable suspends the behavior for the lifetime of the returned context.
func (d *Disabler) Disable(ctx context.Context) context.Context {
	return d.sw.Enter(ctx, false)
}

// Enable re-establishes the behavior inside an otherwise disabled scope.
func (d *Disabler) Enable(ctx context.Context) context.Context {
	return d.sw.Enter(ctx, true)
}

// IsActive reports whether the behavior is currently in its default,
// enabled state on ctx.
func (d *Disabler) IsActive(ctx context.Context) bool {
	return d.sw.Current(ctx)
}
