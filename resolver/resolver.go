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

// Package resolver implements the Resolver component of spec §4.D: given
// a Factory positioned at some node and the interface it is expected to
// satisfy, look up the right constructor in the registry, invoke it
// exactly once per structurally-distinct node, and remember the result in
// the instance cache under every interface name the call involved.
package resolver

import (
	"github.com/bittoy/objectgraph/cache"
	"github.com/bittoy/objectgraph/factory"
	"github.com/bittoy/objectgraph/graphtypes"
	"github.com/bittoy/objectgraph/registry"
)

// Resolver ties a Registry and an InstanceCache together behind the single
// Resolve entry point that factory.ResolveFunc expects.
type Resolver struct {
	Registry *registry.Registry
	Cache    cache.InstanceCache
}

// New builds a Resolver over reg and c. Passing a nil cache disables
// memoization (every call constructs a fresh instance); passing a nil
// registry makes every Resolve call fail as if nothing were registered
// (UnknownType, or NoDefault for an untagged node).
func New(reg *registry.Registry, c cache.InstanceCache) *Resolver {
	return &Resolver{Registry: reg, Cache: c}
}

// Resolve implements the five-step algorithm of spec §4.D:
//  1. read the node's class tag (f.ClassType());
//  2. look up a constructor for (iface, tag), following derived links when
//     tag is empty or absent from iface's own entries;
//  3. check the instance cache for a structurally-equal node already built
//     against the constructor's owning interface;
//  4. on a miss, invoke the constructor with f;
//  5. store the result in the cache under the owning interface, and also
//     under iface when a derived link made them different (so a later
//     lookup through either name hits the same instance).
func (r *Resolver) Resolve(iface string, f factory.Factory) (any, error) {
	tag := f.ClassType()

	var resolved registry.Resolved
	ok := false
	if r.Registry != nil {
		resolved, ok = r.Registry.LookupConstructor(iface, tag)
	}
	if !ok {
		if tag == "" {
			return nil, graphtypes.NewNoDefault(iface)
		}
		return nil, graphtypes.NewUnknownType(iface, tag)
	}

	// A cache hit does not mark anything in f used. When the hit is an
	// alias of the very node that was just constructed, f is the
	// identical *nodeFactory the constructor already partially read
	// (materializeChild memoizes by node identity), so its still-unread
	// fields stay reported by UnusedValues, as the S6 scenario expects.
	// When the hit comes from a structurally equal but separately
	// authored subtree, that subtree's fields are not marked used either,
	// and UnusedValues reports the ones nothing read directly.
	n := f.UnderlyingNode()
	if r.Cache != nil {
		if cached, ok := r.Cache.Get(resolved.OwnerInterface, n); ok {
			if resolved.OwnerInterface != iface {
				r.Cache.Put(iface, n, cached)
			}
			instancesTotal.WithLabelValues(iface, "cache_hit").Inc()
			return cached, nil
		}
	}

	instance, err := resolved.Constructor(f)
	if err != nil {
		instancesTotal.WithLabelValues(iface, "constructor_error").Inc()
		return nil, err
	}

	if r.Cache != nil {
		r.Cache.Put(resolved.OwnerInterface, n, instance)
		if resolved.OwnerInterface != iface {
			r.Cache.Put(iface, n, instance)
		}
	}
	instancesTotal.WithLabelValues(iface, "constructed").Inc()
	return instance, nil
}
