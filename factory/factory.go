/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package factory implements the Factory component of spec §4.C: a view
// over one configuration Node that produces typed scalar reads, child
// factories, and resolved interface instances, while tracking which keys a
// caller actually consumed.
package factory

import (
	"strconv"
	"strings"

	"github.com/bittoy/objectgraph/graphtypes"
	"github.com/bittoy/objectgraph/node"
	"github.com/bittoy/objectgraph/pathlocator"
)

// ResolveFunc resolves a Factory against the named interface. It is
// supplied by whoever wires the root factory together (package graph),
// letting this package stay independent of the resolver package and avoid
// an import cycle: resolver depends on Factory, not the other way round.
type ResolveFunc func(iface string, f Factory) (any, error)

// Factory is the public contract constructors are handed (spec §4.C).
type Factory interface {
	ClassType() string
	Contains(key string) bool
	Keys() []string

	StringVal(key string, required bool) (string, error)
	IntVal(key string, required bool) (int, error)
	BoolVal(key string, required bool) (bool, error)
	FloatVal(key string, required bool) (float64, error)

	StringList(key string, required bool) ([]string, error)
	IntList(key string, required bool) ([]int, error)
	FloatList(key string, required bool) ([]float64, error)
	StringMap(key string, required bool) (*graphtypes.OrderedMap[string], error)

	ChildFactory(key string) (Factory, error)
	ChildSequence(key string) ([]Factory, error)

	Path(key string, required bool) (string, error)

	// ResolveAs asks the injected ResolveFunc to resolve this factory's
	// own node against iface. Generic helpers (Instance, InstanceList,
	// InstanceMap) build on this rather than depending on the resolver
	// package directly.
	ResolveAs(iface string) (any, error)

	// UnderlyingNode exposes the raw node so the resolver/cache packages
	// can use it as a structural-equality cache key.
	UnderlyingNode() node.Node

	UnusedValues() []string
	Same(other Factory) bool

	// NodePath is the slash-joined breadcrumb from the document root,
	// used in error messages and in UnusedValues.
	NodePath() string

	// MarkAllUsed marks every direct key of this factory's own node as
	// used. ChildFactory("")/ChildSequence("") call it; it is exported so
	// code outside the package can do the same.
	MarkAllUsed()
}

type nodeFactory struct {
	n           node.Node
	nodePath    string
	usages      map[string]int
	usageOrder  []string
	childCache  map[node.Node]*nodeFactory
	childOrder  []*nodeFactory
	searchDirs  []string
	pathLocator pathlocator.Locator
	resolve     ResolveFunc
}

// Option configures a root factory. See NewRoot.
type Option func(*nodeFactory)

// WithSearchDirs sets the directories the path-locator collaborator
// searches when a relative path does not exist as given.
func WithSearchDirs(dirs ...string) Option {
	return func(f *nodeFactory) { f.searchDirs = dirs }
}

// WithPathLocator overrides the default filesystem path locator.
func WithPathLocator(l pathlocator.Locator) Option {
	return func(f *nodeFactory) { f.pathLocator = l }
}

// NewRoot builds the root factory over n. resolve is the callback the
// generic Instance/InstanceList/InstanceMap helpers use to turn a child
// factory into a constructed value; pass a bound resolver.Resolver.Resolve.
func NewRoot(n node.Node, resolve ResolveFunc, opts ...Option) Factory {
	f := &nodeFactory{
		n:           n,
		nodePath:    "root",
		usages:      initUsages(n),
		usageOrder:  initUsageOrder(n),
		childCache:  make(map[node.Node]*nodeFactory),
		pathLocator: pathlocator.Default{},
		resolve:     resolve,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func initUsages(n node.Node) map[string]int {
	switch v := n.(type) {
	case *node.Mapping:
		m := make(map[string]int, len(v.Keys))
		for _, k := range v.Keys {
			m[k] = 0
		}
		return m
	case *node.Sequence:
		m := make(map[string]int, len(v.Items))
		for i := range v.Items {
			m[strconv.Itoa(i)] = 0
		}
		return m
	default:
		return map[string]int{}
	}
}

func initUsageOrder(n node.Node) []string {
	switch v := n.(type) {
	case *node.Mapping:
		return append([]string(nil), v.Keys...)
	case *node.Sequence:
		out := make([]string, len(v.Items))
		for i := range v.Items {
			out[i] = strconv.Itoa(i)
		}
		return out
	default:
		return nil
	}
}

func (f *nodeFactory) ClassType() string { return f.n.Tag() }

func (f *nodeFactory) NodePath() string { return f.nodePath }

func (f *nodeFactory) UnderlyingNode() node.Node { return f.n }

func (f *nodeFactory) Same(other Factory) bool {
	o, ok := other.(*nodeFactory)
	if !ok {
		return false
	}
	return node.Equal(f.n, o.n)
}

func (f *nodeFactory) childPath(key string) string {
	if key == "" {
		return f.nodePath
	}
	return f.nodePath + "/" + key
}

// lookupRaw returns the child node at key (or self, for key == "") and
// whether it exists at all (as opposed to existing but being null).
func (f *nodeFactory) lookupRaw(key string) (node.Node, bool) {
	if key == "" {
		return f.n, true
	}
	switch v := f.n.(type) {
	case *node.Mapping:
		return v.Get(key)
	case *node.Sequence:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(v.Items) {
			return nil, false
		}
		return v.Items[idx], true
	default:
		return nil, false
	}
}

func isNull(n node.Node) bool {
	return n == nil || n.Kind() == node.KindNull
}

func (f *nodeFactory) Contains(key string) bool {
	n, ok := f.lookupRaw(key)
	return ok && !isNull(n)
}

func (f *nodeFactory) Keys() []string {
	m, ok := f.n.(*node.Mapping)
	if !ok {
		return nil
	}
	out := make([]string, len(m.Keys))
	copy(out, m.Keys)
	return out
}

func (f *nodeFactory) markUsed(key string) {
	if key == "" {
		return
	}
	if _, ok := f.usages[key]; ok {
		f.usages[key]++
	} else {
		f.usages[key] = 1
	}
}

func (f *nodeFactory) MarkAllUsed() {
	for _, k := range f.usageOrder {
		if f.usages[k] == 0 {
			f.usages[k] = 1
		}
	}
}

// requireNode resolves key, enforcing the required/missing contract
// shared by every scalar/composite read (spec §4.C: "missing and
// required ⇒ MissingKey"). It marks the key used only when it is actually
// present, matching the design decision recorded in DESIGN.md that a mere
// absence probe never counts as a read.
func (f *nodeFactory) requireNode(key string, required bool) (node.Node, bool, error) {
	n, ok := f.lookupRaw(key)
	if !ok || isNull(n) {
		if required {
			return nil, false, graphtypes.NewMissingKey(f.childPath(key))
		}
		return nil, false, nil
	}
	f.markUsed(key)
	return n, true, nil
}

func (f *nodeFactory) StringVal(key string, required bool) (string, error) {
	n, ok, err := f.requireNode(key, required)
	if err != nil || !ok {
		return "", err
	}
	switch v := n.(type) {
	case *node.Scalar:
		return v.Value, nil
	case *node.Sequence:
		// String-of-sequence coercion (spec §4.C): space-joined
		// concatenation of each element, with a trailing space, as a
		// convenience for passing arrays into single-string sinks.
		var sb strings.Builder
		for _, item := range v.Items {
			s, ok := item.(*node.Scalar)
			if !ok {
				return "", graphtypes.NewBadConversion(f.childPath(key), "string")
			}
			sb.WriteString(s.Value)
			sb.WriteByte(' ')
		}
		return sb.String(), nil
	default:
		return "", graphtypes.NewBadConversion(f.childPath(key), "string")
	}
}

func (f *nodeFactory) IntVal(key string, required bool) (int, error) {
	n, ok, err := f.requireNode(key, required)
	if err != nil || !ok {
		return 0, err
	}
	s, ok := n.(*node.Scalar)
	if !ok {
		return 0, graphtypes.NewBadConversion(f.childPath(key), "int")
	}
	v, err := coerceInt(s.Value)
	if err != nil {
		return 0, graphtypes.NewBadConversion(f.childPath(key), "int")
	}
	return v, nil
}

func (f *nodeFactory) BoolVal(key string, required bool) (bool, error) {
	n, ok, err := f.requireNode(key, required)
	if err != nil || !ok {
		return false, err
	}
	s, ok := n.(*node.Scalar)
	if !ok {
		return false, graphtypes.NewBadConversion(f.childPath(key), "bool")
	}
	v, err := coerceBool(s.Value)
	if err != nil {
		return false, graphtypes.NewBadConversion(f.childPath(key), "bool")
	}
	return v, nil
}

func (f *nodeFactory) FloatVal(key string, required bool) (float64, error) {
	n, ok, err := f.requireNode(key, required)
	if err != nil || !ok {
		return 0, err
	}
	s, ok := n.(*node.Scalar)
	if !ok {
		return 0, graphtypes.NewBadConversion(f.childPath(key), "float64")
	}
	v, err := coerceFloat(s.Value)
	if err != nil {
		return 0, graphtypes.NewBadConversion(f.childPath(key), "float64")
	}
	return v, nil
}

func (f *nodeFactory) sequenceOf(key string, required bool) (*node.Sequence, bool, error) {
	n, ok, err := f.requireNode(key, required)
	if err != nil || !ok {
		return nil, ok, err
	}
	seq, ok := n.(*node.Sequence)
	if !ok {
		return nil, false, graphtypes.NewNotASequence(f.childPath(key))
	}
	return seq, true, nil
}

func (f *nodeFactory) StringList(key string, required bool) ([]string, error) {
	seq, ok, err := f.sequenceOf(key, required)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]string, len(seq.Items))
	for i, item := range seq.Items {
		s, ok := item.(*node.Scalar)
		if !ok {
			return nil, graphtypes.NewBadConversion(f.childPath(key), "string")
		}
		out[i] = s.Value
	}
	return out, nil
}

func (f *nodeFactory) IntList(key string, required bool) ([]int, error) {
	seq, ok, err := f.sequenceOf(key, required)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]int, len(seq.Items))
	for i, item := range seq.Items {
		s, ok := item.(*node.Scalar)
		if !ok {
			return nil, graphtypes.NewBadConversion(f.childPath(key), "int")
		}
		v, err := coerceInt(s.Value)
		if err != nil {
			return nil, graphtypes.NewBadConversion(f.childPath(key), "int")
		}
		out[i] = v
	}
	return out, nil
}

func (f *nodeFactory) FloatList(key string, required bool) ([]float64, error) {
	seq, ok, err := f.sequenceOf(key, required)
	if err != nil || !ok {
		return nil, err
	}
	out := make([]float64, len(seq.Items))
	for i, item := range seq.Items {
		s, ok := item.(*node.Scalar)
		if !ok {
			return nil, graphtypes.NewBadConversion(f.childPath(key), "float64")
		}
		v, err := coerceFloat(s.Value)
		if err != nil {
			return nil, graphtypes.NewBadConversion(f.childPath(key), "float64")
		}
		out[i] = v
	}
	return out, nil
}

func (f *nodeFactory) StringMap(key string, required bool) (*graphtypes.OrderedMap[string], error) {
	n, ok, err := f.requireNode(key, required)
	if err != nil || !ok {
		return nil, err
	}
	m, ok := n.(*node.Mapping)
	if !ok {
		return nil, graphtypes.NewBadConversion(f.childPath(key), "map<string,string>")
	}
	return stringMapFromNode(f.childPath(key), m)
}

func (f *nodeFactory) ChildFactory(key string) (Factory, error) {
	if key == "" {
		f.MarkAllUsed()
		return f, nil
	}
	n, ok := f.lookupRaw(key)
	if !ok {
		return nil, graphtypes.NewMissingKey(f.childPath(key))
	}
	f.markUsed(key)
	return f.materializeChild(key, n), nil
}

func (f *nodeFactory) ChildSequence(key string) ([]Factory, error) {
	var seqFactory *nodeFactory
	if key == "" {
		f.MarkAllUsed()
		seqFactory = f
	} else {
		n, ok := f.lookupRaw(key)
		if !ok {
			return nil, graphtypes.NewMissingKey(f.childPath(key))
		}
		f.markUsed(key)
		seqFactory = f.materializeChild(key, n)
	}
	seq, ok := seqFactory.n.(*node.Sequence)
	if !ok {
		return nil, graphtypes.NewNotASequence(seqFactory.nodePath)
	}
	out := make([]Factory, len(seq.Items))
	for i, item := range seq.Items {
		seqFactory.markUsed(strconv.Itoa(i))
		out[i] = seqFactory.materializeChild(strconv.Itoa(i), item)
	}
	return out, nil
}

// materializeChild returns the (possibly previously cached) Factory for
// child node n reached via key under f. Caching is keyed by node
// identity, not by key: two distinct keys that alias the same underlying
// node (an anchor and its alias, sharing the one Go pointer) return the
// pointer-identical Factory, with the path and usage counters of whichever
// key reached it first (spec §8 invariant 1, scenario S4, scenario S6).
func (f *nodeFactory) materializeChild(key string, n node.Node) *nodeFactory {
	if cached, ok := f.childCache[n]; ok {
		return cached
	}
	child := &nodeFactory{
		n:           n,
		nodePath:    f.childPath(key),
		usages:      initUsages(n),
		usageOrder:  initUsageOrder(n),
		childCache:  make(map[node.Node]*nodeFactory),
		searchDirs:  f.searchDirs,
		pathLocator: f.pathLocator,
		resolve:     f.resolve,
	}
	f.childCache[n] = child
	f.childOrder = append(f.childOrder, child)
	return child
}

func (f *nodeFactory) Path(key string, required bool) (string, error) {
	raw, err := f.StringVal(key, required)
	if err != nil || raw == "" {
		return "", err
	}
	return f.pathLocator.Locate(raw, f.searchDirs)
}

func (f *nodeFactory) ResolveAs(iface string) (any, error) {
	if f.resolve == nil {
		return nil, graphtypes.NewNoDefault(iface)
	}
	return f.resolve(iface, f)
}

// UnusedValues reports, for this factory and every child factory it has
// actually materialized, the full path of every key whose counter is
// still zero (spec §4.C, §6, §8 invariant 4). Keys that were never even
// read into a child factory are reported as a single whole-subtree path;
// keys that were descended into recurse instead.
func (f *nodeFactory) UnusedValues() []string {
	var out []string
	for _, k := range f.usageOrder {
		if f.usages[k] == 0 {
			out = append(out, f.childPath(k))
		}
	}
	for _, child := range f.childOrder {
		out = append(out, child.UnusedValues()...)
	}
	return out
}
