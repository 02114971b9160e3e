package dynaprop

import (
	"github.com/reoring/dynaprop/path"
	"github.com/reoring/dynaprop/shape"
)

// Instance is the runtime object standing in for an interface: one
// store, the merged shapes of every interface it implements, and a
// dispatch layer that turns method invocations into store operations.
//
// Go has no runtime proxy facility, so invocations are spelled through
// Call: inst.Call("SetName", "x") is the dynamic counterpart of a
// SetName(string) method. The routing is decided by the dispatch table
// built once per interface shape.
//
// Instances are not safe for concurrent use; callers serialize access.
type Instance struct {
	st *Store
}

// Store exposes the backing property store for direct path access.
func (in *Instance) Store() *Store { return in.st }

// Shape returns the primary interface shape.
func (in *Instance) Shape() *shape.Shape { return in.st.Shape() }

// Shapes returns every shape the instance implements, primary first.
func (in *Instance) Shapes() []*shape.Shape { return in.st.Shapes() }

// Implements reports whether the instance implements the named
// interface.
func (in *Instance) Implements(name string) bool {
	for _, s := range in.st.comb.shapes {
		if s.Name() == name {
			return true
		}
	}
	return false
}

// Depth returns the nesting depth this instance was constructed at. The
// root of a graph is depth 0.
func (in *Instance) Depth() int { return in.st.Depth() }

// Get is shorthand for Store().Get.
func (in *Instance) Get(expr string) (any, error) { return in.st.Get(expr) }

// Set is shorthand for Store().Set.
func (in *Instance) Set(expr string, v any) error { return in.st.Set(expr, v) }

// SetAll is shorthand for Store().SetAll.
func (in *Instance) SetAll(vals *Values) error { return in.st.SetAll(vals) }

// Call dispatches one interface method invocation. The method name is
// classified against the dispatch table and routed to the store, to the
// covering delegate, or to the built-in identity behaviors.
func (in *Instance) Call(method string, args ...any) (any, error) {
	switch method {
	case "Equal":
		if len(args) != 1 {
			return nil, oneIssue(argCountIssue(method, 1, len(args)))
		}
		other, ok := args[0].(*Instance)
		if !ok {
			return in == nil && args[0] == nil, nil
		}
		return in.Equal(other), nil
	case "Hash":
		if len(args) != 0 {
			return nil, oneIssue(argCountIssue(method, 0, len(args)))
		}
		return in.Hash(), nil
	case "String":
		if len(args) != 0 {
			return nil, oneIssue(argCountIssue(method, 0, len(args)))
		}
		return in.String(), nil
	}

	e, ok := in.st.comb.dispatch[method]
	if !ok {
		return nil, oneIssue(issueAt("", CodeUnknownMethod, map[string]string{"method": method}))
	}

	switch e.Op {
	case shape.OpGet:
		if len(args) != 0 {
			return nil, oneIssue(argCountIssue(method, 0, len(args)))
		}
		return in.st.Get(e.Prop)

	case shape.OpSet:
		if len(args) != 1 {
			return nil, oneIssue(argCountIssue(method, 1, len(args)))
		}
		return nil, in.st.Set(e.Prop, args[0])

	case shape.OpIndexedGet:
		idx, iss := indexArg(method, args)
		if iss != nil {
			return nil, iss
		}
		return in.st.GetPath(indexPath(e.Prop, idx))

	case shape.OpIndexedSet:
		if len(args) != 2 {
			return nil, oneIssue(argCountIssue(method, 2, len(args)))
		}
		idx, iss := indexArg(method, args[:1])
		if iss != nil {
			return nil, iss
		}
		return nil, in.st.SetPath(indexPath(e.Prop, idx), args[1])

	case shape.OpKeyedGet:
		key, iss := keyArg(method, args)
		if iss != nil {
			return nil, iss
		}
		return in.st.GetPath(keyPath(e.Prop, key))

	case shape.OpKeyedSet:
		if len(args) != 2 {
			return nil, oneIssue(argCountIssue(method, 2, len(args)))
		}
		key, iss := keyArg(method, args[:1])
		if iss != nil {
			return nil, iss
		}
		return nil, in.st.SetPath(keyPath(e.Prop, key), args[1])

	default: // shape.OpBehavior
		d, ok := in.st.cfg.behaviors[method]
		if !ok {
			// Unreachable after construction-time coverage checks, kept
			// for stores assembled without New.
			return nil, oneIssue(issueAt("", CodeUnsupportedBehavior, map[string]string{"method": method}))
		}
		return d.Invoke(in.st, method, args)
	}
}

// MustCall is Call for invocations that cannot fail; it panics on error.
func (in *Instance) MustCall(method string, args ...any) any {
	v, err := in.Call(method, args...)
	if err != nil {
		panic(err)
	}
	return v
}

func indexArg(method string, args []any) (int, Issues) {
	if len(args) < 1 {
		return 0, oneIssue(argCountIssue(method, 1, len(args)))
	}
	idx, ok := args[0].(int)
	if !ok {
		return 0, oneIssue(issueAt("", CodeBadArgument, map[string]string{
			"method":   method,
			"expected": "int index",
			"got":      typeName(args[0]),
		}))
	}
	return idx, nil
}

func keyArg(method string, args []any) (string, Issues) {
	if len(args) < 1 {
		return "", oneIssue(argCountIssue(method, 1, len(args)))
	}
	key, ok := args[0].(string)
	if !ok {
		return "", oneIssue(issueAt("", CodeBadArgument, map[string]string{
			"method":   method,
			"expected": "string key",
			"got":      typeName(args[0]),
		}))
	}
	return key, nil
}

func argCountIssue(method string, want, got int) Issue {
	return issueAt("", CodeBadArgument, map[string]string{
		"method":   method,
		"expected": itoa(want) + " argument(s)",
		"got":      itoa(got),
	})
}

func indexPath(prop string, idx int) path.Expr {
	return path.FromSegments(path.Segment{Name: prop, Kind: path.KindIndex, Index: idx, Key: itoa(idx)})
}

func keyPath(prop, key string) path.Expr {
	return path.FromSegments(path.Segment{Name: prop, Kind: path.KindKey, Key: key})
}
