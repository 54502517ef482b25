package action

import (
	"reflect"

	"github.com/kbfw/firmware/internal/kbevent"
)

// Decision is what a WaitingState resolves to on a given tick
// (spec.md §4.4.4).
type Decision uint8

const (
	DecisionPending Decision = iota
	DecisionHold
	DecisionTap
	DecisionNoOp
)

// HoldTapConfigKind selects the disambiguation strategy a HoldTap
// action uses while its WaitingState is in flight.
type HoldTapConfigKind uint8

const (
	// HTDefault decides by timeout only: the corresponding release's
	// age against the original delay, or the bare timeout expiring.
	HTDefault HoldTapConfigKind = iota
	// HTHoldOnOtherKeyPress forces an immediate Hold the moment any
	// other press lands in the stacked ring, falling through to
	// HTDefault otherwise.
	HTHoldOnOtherKeyPress
	// HTPermissiveHold forces an immediate Hold if the ring contains a
	// press followed by its matching release while the waiting key is
	// still held, falling through to HTDefault otherwise.
	HTPermissiveHold
	// HTCustom defers to a user-supplied pure function over the
	// stacked ring snapshot.
	HTCustom
)

// CustomHoldTapFunc inspects a snapshot of the stacked ring and either
// forces a Decision (ok == true) or asks the caller to fall through to
// HTDefault's timeout logic (ok == false). It must be a pure function
// of its input — spec.md's Design Notes require this so that two
// configs can be compared for equality by function-pointer identity,
// as done in HoldTapConfig.Equal.
type CustomHoldTapFunc func(stacked []kbevent.Aged) (decision Decision, ok bool)

// HoldTapConfig selects how a HoldTap action's WaitingState resolves.
type HoldTapConfig struct {
	Kind   HoldTapConfigKind
	Custom CustomHoldTapFunc // only meaningful when Kind == HTCustom
}

// Default is the timeout-only disambiguation strategy.
func Default() HoldTapConfig { return HoldTapConfig{Kind: HTDefault} }

// HoldOnOtherKeyPress resolves Hold as soon as any other key is
// pressed while waiting.
func HoldOnOtherKeyPress() HoldTapConfig { return HoldTapConfig{Kind: HTHoldOnOtherKeyPress} }

// PermissiveHold resolves Hold as soon as another key is fully tapped
// (pressed and released) while waiting.
func PermissiveHold() HoldTapConfig { return HoldTapConfig{Kind: HTPermissiveHold} }

// CustomConfig wraps a user-supplied decision function.
func CustomConfig(fn CustomHoldTapFunc) HoldTapConfig {
	return HoldTapConfig{Kind: HTCustom, Custom: fn}
}

// Equal compares two configs. Two Custom configs are equal iff they
// wrap the same function (identity, not behavior) — this is what lets
// HoldTap actions built with the same handler compare equal in tests,
// per spec.md's Design Notes.
func (c HoldTapConfig) Equal(other HoldTapConfig) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind != HTCustom {
		return true
	}
	if c.Custom == nil || other.Custom == nil {
		return c.Custom == nil && other.Custom == nil
	}
	return reflect.ValueOf(c.Custom).Pointer() == reflect.ValueOf(other.Custom).Pointer()
}
