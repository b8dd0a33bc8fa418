package factory

import (
	"fmt"

	"github.com/bittoy/objectgraph/graphtypes"
)

// Scalar performs the type-erased-downcast-at-the-boundary trick called
// for in SPEC_FULL.md §9: callers write Scalar[int](f, "port", true)
// instead of f.IntVal("port", true), matching the original C++
// `Factory::Get<T>(ArgumentIdentifier<T>)` template member (see
// original_source/src/factory.hpp) with Go generics standing in for C++
// templates.
func Scalar[T any](f Factory, key string, required bool) (T, error) {
	var zero T
	switch any(zero).(type) {
	case string:
		v, err := f.StringVal(key, required)
		return any(v).(T), err
	case int:
		v, err := f.IntVal(key, required)
		return any(v).(T), err
	case bool:
		v, err := f.BoolVal(key, required)
		return any(v).(T), err
	case float64:
		v, err := f.FloatVal(key, required)
		return any(v).(T), err
	default:
		return zero, fmt.Errorf("factory.Scalar: unsupported scalar type %T", zero)
	}
}

// Instance resolves key as an instance of interface iface, downcast to I
// (spec §4.C "instance<I>(key, required)").
func Instance[I any](f Factory, iface, key string, required bool) (I, error) {
	var zero I
	if !f.Contains(key) {
		if required {
			return zero, graphtypes.NewMissingKey(f.NodePath()+"/"+key)
		}
		return zero, nil
	}
	child, err := f.ChildFactory(key)
	if err != nil {
		return zero, err
	}
	raw, err := child.ResolveAs(iface)
	if err != nil {
		return zero, err
	}
	v, ok := raw.(I)
	if !ok {
		return zero, graphtypes.NewBadConversion(child.NodePath(), iface)
	}
	return v, nil
}

// InstanceList resolves key as an ordered list of I instances (spec §4.C
// "instance_list<I>(key, required)").
func InstanceList[I any](f Factory, iface, key string, required bool) ([]I, error) {
	if !required && !f.Contains(key) {
		return nil, nil
	}
	children, err := f.ChildSequence(key)
	if err != nil {
		return nil, err
	}
	out := make([]I, len(children))
	for i, child := range children {
		raw, err := child.ResolveAs(iface)
		if err != nil {
			return nil, err
		}
		v, ok := raw.(I)
		if !ok {
			return nil, graphtypes.NewBadConversion(child.NodePath(), iface)
		}
		out[i] = v
	}
	return out, nil
}

// InstanceMap resolves key as an ordered mapping from child key to
// resolved I instance (spec §4.C "instance_map<I>(key, required)").
func InstanceMap[I any](f Factory, iface, key string, required bool) (*graphtypes.OrderedMap[I], error) {
	if !required && !f.Contains(key) {
		return graphtypes.NewOrderedMap[I](), nil
	}
	container, err := f.ChildFactory(key)
	if err != nil {
		return nil, err
	}
	out := graphtypes.NewOrderedMap[I]()
	for _, childKey := range container.Keys() {
		childFactory, err := container.ChildFactory(childKey)
		if err != nil {
			return nil, err
		}
		raw, err := childFactory.ResolveAs(iface)
		if err != nil {
			return nil, err
		}
		v, ok := raw.(I)
		if !ok {
			return nil, graphtypes.NewBadConversion(childFactory.NodePath(), iface)
		}
		out.Set(childKey, v)
	}
	return out, nil
}
