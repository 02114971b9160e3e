package dynaprop

import "github.com/reoring/dynaprop/shape"

// Hook customizes construction, including the construction of every
// nested instance vivified below the root. Both funcs are optional.
//
// ExtendTypes runs before shapes are resolved and may return additional
// interface definitions the instance should implement; it sees the
// nesting depth, the definition being built, the primary definition the
// whole construction started from, the definitions gathered so far and
// the initial values. Seed runs after the store is populated and may
// pre-materialize nested properties or reject the instance.
//
// Depth is passed explicitly on every call. The engine does not bound
// recursion itself; a hook on a self-referential interface graph must
// consult depth to stop extending or seeding at some level.
type Hook struct {
	ExtendTypes func(depth int, this shape.Def, primary shape.Def, all []shape.Def, values *Values) []shape.Def
	Seed        func(depth int, this shape.Def, inst *Instance) error
}

// isZero reports whether the hook carries no behavior.
func (h Hook) isZero() bool { return h.ExtendTypes == nil && h.Seed == nil }
