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

// Package registry implements the Registry component of spec §4.B: for
// each interface, a map of class-type tag to constructor, an optional
// default tag, and an ordered list of derived-interface links.
package registry

import (
	"sync"

	"github.com/bittoy/objectgraph/factory"
	"github.com/bittoy/objectgraph/graphtypes"
	"github.com/bittoy/objectgraph/listing"
)

// Constructor builds an instance of some interface from a Factory. It is
// the Go analogue of the C++ original's `std::shared_ptr<Interface>
// ResolveAndCreate(factory)` free function family (see
// original_source/src/registrar.hpp): one function, type-erased to `any`,
// downcast by the caller at the factory.Instance[I] boundary.
type Constructor func(factory.Factory) (any, error)

type derivedLink struct {
	subInterface string
	isDefault    bool
}

type ifaceEntry struct {
	ctors      map[string]Constructor
	ctorOrder  []string
	defaultTag string
	hasDefault bool
	derived    []derivedLink
}

func newIfaceEntry() *ifaceEntry {
	return &ifaceEntry{ctors: make(map[string]Constructor)}
}

// Registry is a process-wide, but also independently constructible,
// type-indexed factory registry (spec §3, §4.B; design note in spec §9:
// "replace [the compile-time keyed registry] with a registry keyed by
// runtime interface identifiers"). Registration is expected to complete
// before resolution begins (spec §5); the RWMutex below is defensive
// texture guarding against a caller registering from multiple goroutines
// at startup, even though registration is effectively single-writer in
// practice.
type Registry struct {
	mu     sync.RWMutex
	ifaces map[string]*ifaceEntry
	sink   listing.Sink
}

// New returns an empty registry using the process-wide default listing
// sink. Tests typically want their own Registry rather than sharing
// Default.
func New() *Registry {
	return &Registry{
		ifaces: make(map[string]*ifaceEntry),
		sink:   listing.Default(),
	}
}

// Default is the process-wide registry.
var Default = New()

// SetSink overrides the listing sink this registry emits to. Returns the
// previous sink.
func (r *Registry) SetSink(s listing.Sink) listing.Sink {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.sink
	r.sink = s
	return prev
}

func (r *Registry) entry(iface string) *ifaceEntry {
	e, ok := r.ifaces[iface]
	if !ok {
		e = newIfaceEntry()
		r.ifaces[iface] = e
	}
	return e
}

// Register records ctor as the constructor for (iface, classTag). Fails
// when classTag already exists for iface, or when isDefault is true and a
// default already exists for iface (spec §3, §4.B) — in either failure
// case no state is changed (registration is atomic, spec §8 invariant 3).
func (r *Registry) Register(iface, classTag string, ctor Constructor, isDefault bool, description string, argSpecs []graphtypes.ArgSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entry(iface)
	if _, exists := e.ctors[classTag]; exists {
		registrationsTotal.WithLabelValues(iface, "duplicate_tag").Inc()
		return graphtypes.NewDuplicateClassTag(iface, classTag)
	}
	if isDefault && e.hasDefault {
		registrationsTotal.WithLabelValues(iface, "duplicate_default").Inc()
		return graphtypes.NewDuplicateDefault(iface)
	}

	e.ctors[classTag] = ctor
	e.ctorOrder = append(e.ctorOrder, classTag)
	if isDefault {
		e.defaultTag = classTag
		e.hasDefault = true
	}

	registrationsTotal.WithLabelValues(iface, "ok").Inc()
	if r.sink != nil {
		r.sink.Emit(listing.NewRecord(iface, classTag, description, argSpecs, isDefault))
	}
	return nil
}

// RegisterDerived installs a derivation link stating that instances
// registered against subInterface are also legitimate values for a
// parentInterface-typed slot (spec §4.B "RegisterDerived"). Links are
// consulted in insertion order (spec §9 open question, resolved: preserve
// and document insertion order).
func (r *Registry) RegisterDerived(parentInterface, subInterface string, isDefault bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entry(parentInterface)
	e.derived = append(e.derived, derivedLink{subInterface: subInterface, isDefault: isDefault})
	derivedLinksTotal.WithLabelValues(parentInterface, subInterface).Inc()
	return nil
}

// Resolved is what LookupConstructor returns: the constructor plus the
// name of the interface whose entry actually supplied it, which may be a
// subInterface reached through a derived link rather than the interface
// the caller asked for. The resolver package uses OwnerInterface to cache
// the constructed instance under both interfaces (spec §4.D "Derived
// fetch (covariance)").
type Resolved struct {
	Constructor    Constructor
	OwnerInterface string
}

// LookupConstructor implements the two-phase resolution order of spec
// §4.B: for a non-empty classTag, an exact match in iface's own ctors,
// else each derived link in insertion order; for an empty classTag, the
// default tag if set, else each default-flagged derived link in
// insertion order.
func (r *Registry) LookupConstructor(iface, classTag string) (Resolved, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(iface, classTag)
}

func (r *Registry) lookup(iface, classTag string) (Resolved, bool) {
	entry, ok := r.ifaces[iface]
	if !ok {
		return Resolved{}, false
	}
	if classTag != "" {
		if ctor, ok := entry.ctors[classTag]; ok {
			return Resolved{Constructor: ctor, OwnerInterface: iface}, true
		}
		for _, link := range entry.derived {
			if res, ok := r.lookup(link.subInterface, classTag); ok {
				return res, true
			}
		}
		return Resolved{}, false
	}
	if entry.hasDefault {
		if ctor, ok := entry.ctors[entry.defaultTag]; ok {
			return Resolved{Constructor: ctor, OwnerInterface: iface}, true
		}
	}
	for _, link := range entry.derived {
		if !link.isDefault {
			continue
		}
		if res, ok := r.lookup(link.subInterface, ""); ok {
			return res, true
		}
	}
	return Resolved{}, false
}

// DefaultTag returns the default class tag registered for iface, if any.
func (r *Registry) DefaultTag(iface string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.ifaces[iface]
	if !ok || !e.hasDefault {
		return "", false
	}
	return e.defaultTag, true
}

// ClassTags returns the class tags registered directly against iface, in
// registration order (does not include tags reachable only via derived
// links).
func (r *Registry) ClassTags(iface string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.ifaces[iface]
	if !ok {
		return nil
	}
	out := make([]string, len(e.ctorOrder))
	copy(out, e.ctorOrder)
	return out
}
