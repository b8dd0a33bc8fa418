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

// Command example wires a small registry of shapes and drives it through
// the object-graph builder end to end: register constructors, parse a
// document, apply an override, resolve instances, and print the usage
// report.
package main

import (
	"fmt"
	"log"

	"github.com/bittoy/objectgraph/factory"
	"github.com/bittoy/objectgraph/graph"
	"github.com/bittoy/objectgraph/registry"
)

// Shape is the interface every registered class implements in this
// example.
type Shape interface {
	Area() float64
}

type circle struct{ radius int }

func (c *circle) Area() float64 { return 3.14159 * float64(c.radius*c.radius) }

type square struct{ side int }

func (s *square) Area() float64 { return float64(s.side * s.side) }

func registerShapes(reg *registry.Registry) {
	must(reg.Register("Shape", "circle", func(f factory.Factory) (any, error) {
		radius, err := f.IntVal("radius", true)
		if err != nil {
			return nil, err
		}
		return &circle{radius: radius}, nil
	}, true, "a circle sized by radius", nil))

	must(reg.Register("Shape", "square", func(f factory.Factory) (any, error) {
		side, err := f.IntVal("side", true)
		if err != nil {
			return nil, err
		}
		return &square{side: side}, nil
	}, false, "a square sized by side", nil))
}

var document = `{
	shapes: [
		!circle {radius: 2},
		!square {side: 3}
	],
	favorite: &fav !circle {radius: 5},
	backup: *fav
}`

func main() {
	reg := registry.New()
	registerShapes(reg)

	f, err := graph.Build([]byte(document), graph.Config{
		Registry:  reg,
		Overrides: map[string]string{"shapes::[1]::side": "4"},
	})
	if err != nil {
		log.Fatalf("build: %v", err)
	}

	shapes, err := factory.InstanceList[Shape](f, "Shape", "shapes", true)
	if err != nil {
		log.Fatalf("resolve shapes: %v", err)
	}
	for i, s := range shapes {
		fmt.Printf("shapes[%d] area = %.2f\n", i, s.Area())
	}

	favorite, err := factory.Instance[Shape](f, "Shape", "favorite", true)
	if err != nil {
		log.Fatalf("resolve favorite: %v", err)
	}
	backup, err := factory.Instance[Shape](f, "Shape", "backup", true)
	if err != nil {
		log.Fatalf("resolve backup: %v", err)
	}
	fmt.Printf("favorite and backup share an instance: %v\n", favorite == backup)

	if unused := f.UnusedValues(); len(unused) > 0 {
		fmt.Println("unused values:", unused)
	}
}

func must(err error) {
	if err != nil {
		log.Fatalf("registration failed: %v", err)
	}
}
