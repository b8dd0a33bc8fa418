package factory

import (
	"testing"

	"github.com/bittoy/objectgraph/node"
)

type widget struct{ name string }

func TestScalarGeneric(t *testing.T) {
	n := node.NewMapping("", node.Pair{Key: "port", Value: scalar("8080")})
	f := NewRoot(n, nil)
	v, err := Scalar[int](f, "port", true)
	if err != nil || v != 8080 {
		t.Fatalf("Scalar[int] = (%d, %v), want (8080, nil)", v, err)
	}
}

func TestInstanceMissingOptionalReturnsZero(t *testing.T) {
	f := NewRoot(node.NewMapping(""), nil)
	v, err := Instance[*widget](f, "Widget", "missing", false)
	if err != nil {
		t.Fatalf("Instance(optional): %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil zero value, got %v", v)
	}
}

func TestInstanceMissingRequiredFails(t *testing.T) {
	f := NewRoot(node.NewMapping(""), nil)
	if _, err := Instance[*widget](f, "Widget", "missing", true); err == nil {
		t.Fatalf("expected required missing instance to fail")
	}
}

func TestInstanceListEmptyOptional(t *testing.T) {
	f := NewRoot(node.NewMapping(""), nil)
	got, err := InstanceList[*widget](f, "Widget", "missing", false)
	if err != nil {
		t.Fatalf("InstanceList: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestInstanceMapEmptyOptional(t *testing.T) {
	f := NewRoot(node.NewMapping(""), nil)
	got, err := InstanceMap[*widget](f, "Widget", "missing", false)
	if err != nil {
		t.Fatalf("InstanceMap: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("got %d entries, want 0", got.Len())
	}
}

func resolveToName(iface string, f Factory) (any, error) {
	n, err := f.StringVal("name", true)
	if err != nil {
		return nil, err
	}
	return &widget{name: n}, nil
}

func TestInstanceResolvesAndDowncasts(t *testing.T) {
	n := node.NewMapping("", node.Pair{Key: "w", Value: node.NewMapping("", node.Pair{Key: "name", Value: scalar("gizmo")})})
	f := NewRoot(n, resolveToName)
	v, err := Instance[*widget](f, "Widget", "w", true)
	if err != nil {
		t.Fatalf("Instance: %v", err)
	}
	if v.name != "gizmo" {
		t.Fatalf("name = %q, want gizmo", v.name)
	}
}

func TestInstanceBadConversionOnTypeMismatch(t *testing.T) {
	type other struct{}
	resolveToOther := func(iface string, f Factory) (any, error) { return &other{}, nil }
	n := node.NewMapping("", node.Pair{Key: "w", Value: node.NewMapping("")})
	f := NewRoot(n, resolveToOther)
	if _, err := Instance[*widget](f, "Widget", "w", true); err == nil {
		t.Fatalf("expected a resolved value of the wrong type to fail with BadConversion")
	}
}
