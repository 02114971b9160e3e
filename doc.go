package dynaprop

// Package dynaprop synthesizes, at runtime, concrete objects that satisfy an
// arbitrary declared interface: property values live in a keyed store and
// every accessor call routes against that store, so no per-interface
// implementation code is generated.
//
// - Interface introspection into property shapes, memoized in a registry (shape/)
// - A path expression language for nested, indexed and keyed access ("a[0].b", "tags[]")
// - An auto-vivifying property store with kind-exact validation and presence tracking
// - A dispatch layer (Instance.Call) routing getters, setters, element accessors,
//   delegated behaviors and content-based identity (Equal/Hash/String)
// - Ordered document import (JSON via pluggable drivers, YAML) and export
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place introspection under shape/, path parsing under path/, descriptor documents
//   under shapefile/, and the CLI under cmd/dynaprop.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  def := shape.NewDef("Contact").
//  	Accessor("name", shape.Of(shape.String)).
//  	List("tags", shape.Of(shape.String)).
//  	Build()
//  inst, err := dynaprop.New(def, dynaprop.Config{Values: vals})
//  name, err := inst.Call("Name")
//  err = inst.Set("tags[]", "ops")
