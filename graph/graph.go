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

// Package graph is the top-level orchestration point (spec §2 component
// J): it goes from a parsed document, through the override applier, to a
// root Factory wired against a Registry and InstanceCache, the way the
// teacher's engine package turns a parsed rule chain config into a running
// RuleContext.
package graph

import (
	"github.com/bittoy/objectgraph/cache"
	"github.com/bittoy/objectgraph/factory"
	"github.com/bittoy/objectgraph/node"
	"github.com/bittoy/objectgraph/override"
	"github.com/bittoy/objectgraph/registry"
	"github.com/bittoy/objectgraph/resolver"
)

// Config collects everything Build needs beyond the raw document.
type Config struct {
	// Registry supplies constructors. Defaults to registry.Default.
	Registry *registry.Registry
	// Cache backs instance memoization. Defaults to a fresh cache.New().
	Cache cache.InstanceCache
	// Overrides is applied to the parsed document before the root
	// Factory is built (spec §4.A/§4.F).
	Overrides map[string]string
	// SearchDirs is forwarded to factory.WithSearchDirs for path(...)
	// resolution.
	SearchDirs []string
}

// Build parses data with ParseDocument, applies cfg.Overrides, and returns
// a root Factory ready for client code to pull instances from (spec §1
// data-flow summary, §4.F).
func Build(data []byte, cfg Config) (factory.Factory, error) {
	root, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return BuildFromNode(root, cfg)
}

// BuildFromNode is Build without the parse step, for callers that already
// hold a node.Node (e.g. built by hand in tests).
func BuildFromNode(root node.Node, cfg Config) (factory.Factory, error) {
	if len(cfg.Overrides) > 0 {
		overridden, err := override.Apply(root, cfg.Overrides)
		if err != nil {
			return nil, err
		}
		root = overridden
	}

	reg := cfg.Registry
	if reg == nil {
		reg = registry.Default
	}
	c := cfg.Cache
	if c == nil {
		c = cache.New()
	}
	res := resolver.New(reg, c)

	opts := []factory.Option{}
	if len(cfg.SearchDirs) > 0 {
		opts = append(opts, factory.WithSearchDirs(cfg.SearchDirs...))
	}
	return factory.NewRoot(root, res.Resolve, opts...), nil
}
