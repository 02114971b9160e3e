package dynaprop

import "github.com/reoring/dynaprop/shape"

// Delegate is the common surface of objects that service interface
// methods the property engine cannot answer itself. A delegate declares
// the interface it covers; the declared methods are merged into the
// instance's shapes at construction.
//
// Delegates work against the Store, never against the Instance, so they
// can read and write sibling properties without re-entering dispatch.
type Delegate interface {
	DeclaredInterface() shape.Def
}

// BehaviorDelegate services the behavior methods of its declared
// interface: everything outside the accessor conventions. Construction
// fails with an unsupported_behavior issue when a declared behavior
// method has no covering BehaviorDelegate.
type BehaviorDelegate interface {
	Delegate
	Invoke(st *Store, method string, args []any) (any, error)
}

// PropertyDelegate takes over storage for the properties of its declared
// interface. Reads and writes of those properties bypass the store's own
// slot and go through the delegate instead; the rest of the store is
// handed in so a delegated property can be derived from ordinary ones.
type PropertyDelegate interface {
	Delegate
	GetProperty(st *Store, name string) (any, error)
	SetProperty(st *Store, name string, value any) error
}

// BehaviorFunc adapts a function to a BehaviorDelegate covering one
// interface.
func BehaviorFunc(def shape.Def, fn func(st *Store, method string, args []any) (any, error)) BehaviorDelegate {
	return behaviorFunc{def: def, fn: fn}
}

type behaviorFunc struct {
	def shape.Def
	fn  func(st *Store, method string, args []any) (any, error)
}

func (d behaviorFunc) DeclaredInterface() shape.Def { return d.def }
func (d behaviorFunc) Invoke(st *Store, method string, args []any) (any, error) {
	return d.fn(st, method, args)
}
