package registry

import (
	"testing"

	"github.com/bittoy/objectgraph/factory"
	"github.com/bittoy/objectgraph/listing"
)

func dummyCtor(tag string) Constructor {
	return func(factory.Factory) (any, error) { return tag, nil }
}

func TestRegisterAndLookupExact(t *testing.T) {
	r := New()
	if err := r.Register("Shape", "circle", dummyCtor("circle"), true, "", nil); err != nil {
		t.Fatalf("Register: %v", err)
	}
	res, ok := r.LookupConstructor("Shape", "circle")
	if !ok {
		t.Fatalf("expected circle constructor to be found")
	}
	if res.OwnerInterface != "Shape" {
		t.Fatalf("OwnerInterface = %q, want Shape", res.OwnerInterface)
	}
}

func TestRegisterDuplicateTagFails(t *testing.T) {
	r := New()
	if err := r.Register("Shape", "circle", dummyCtor("a"), false, "", nil); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := r.Register("Shape", "circle", dummyCtor("b"), false, "", nil); err == nil {
		t.Fatalf("expected duplicate class tag registration to fail")
	}
	tags := r.ClassTags("Shape")
	if len(tags) != 1 || tags[0] != "circle" {
		t.Fatalf("ClassTags = %v, want [circle] (rejected registration must not mutate state)", tags)
	}
}

func TestRegisterDuplicateDefaultFails(t *testing.T) {
	r := New()
	if err := r.Register("Shape", "circle", dummyCtor("circle"), true, "", nil); err != nil {
		t.Fatalf("Register circle: %v", err)
	}
	if err := r.Register("Shape", "square", dummyCtor("square"), true, "", nil); err == nil {
		t.Fatalf("expected second default registration to fail")
	}
	tag, ok := r.DefaultTag("Shape")
	if !ok || tag != "circle" {
		t.Fatalf("DefaultTag = (%q, %v), want (circle, true)", tag, ok)
	}
}

func TestLookupEmptyTagUsesDefault(t *testing.T) {
	r := New()
	_ = r.Register("Shape", "circle", dummyCtor("circle"), true, "", nil)
	res, ok := r.LookupConstructor("Shape", "")
	if !ok {
		t.Fatalf("expected default lookup to succeed")
	}
	v, _ := res.Constructor(nil)
	if v != "circle" {
		t.Fatalf("resolved %v, want circle", v)
	}
}

func TestLookupEmptyTagNoDefaultFails(t *testing.T) {
	r := New()
	_ = r.Register("Shape", "circle", dummyCtor("circle"), false, "", nil)
	if _, ok := r.LookupConstructor("Shape", ""); ok {
		t.Fatalf("expected lookup with no default to fail")
	}
}

func TestDerivedLinkFallsThroughInInsertionOrder(t *testing.T) {
	r := New()
	_ = r.Register("Square", "red-square", dummyCtor("red-square"), true, "", nil)
	_ = r.Register("Circle", "blue-circle", dummyCtor("blue-circle"), true, "", nil)
	_ = r.RegisterDerived("Shape", "Square", false)
	_ = r.RegisterDerived("Shape", "Circle", false)

	res, ok := r.LookupConstructor("Shape", "blue-circle")
	if !ok {
		t.Fatalf("expected derived lookup for blue-circle to succeed")
	}
	if res.OwnerInterface != "Circle" {
		t.Fatalf("OwnerInterface = %q, want Circle (the interface that actually owns the constructor)", res.OwnerInterface)
	}
}

func TestDerivedDefaultFallThrough(t *testing.T) {
	r := New()
	_ = r.Register("Square", "red-square", dummyCtor("red-square"), true, "", nil)
	_ = r.RegisterDerived("Shape", "Square", true)

	res, ok := r.LookupConstructor("Shape", "")
	if !ok {
		t.Fatalf("expected empty-tag lookup to fall through to derived default")
	}
	if res.OwnerInterface != "Square" {
		t.Fatalf("OwnerInterface = %q, want Square", res.OwnerInterface)
	}
}

func TestUnknownInterfaceLookupFails(t *testing.T) {
	r := New()
	if _, ok := r.LookupConstructor("Nonexistent", "whatever"); ok {
		t.Fatalf("expected lookup against unregistered interface to fail")
	}
}

func TestRegisterEmitsListingRecord(t *testing.T) {
	sink := listing.NewMemorySink()
	r := New()
	r.SetSink(sink)
	_ = r.Register("Shape", "circle", dummyCtor("circle"), true, "draws a circle", nil)

	records := sink.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Interface != "Shape" || records[0].ClassTag != "circle" {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}
