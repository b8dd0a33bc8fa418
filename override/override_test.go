package override

import (
	"testing"

	"github.com/bittoy/objectgraph/node"
)

func mustScalar(t *testing.T, n node.Node) string {
	t.Helper()
	s, ok := n.(*node.Scalar)
	if !ok {
		t.Fatalf("expected scalar, got %T", n)
	}
	return s.Value
}

func TestApplyReplacesExistingSequence(t *testing.T) {
	item4 := node.NewSequence("", node.NewScalar("1", ""))
	item2 := node.NewMapping("", node.Pair{Key: "item4", Value: item4})
	root := node.NewMapping("", node.Pair{Key: "item2", Value: item2})

	out, err := Apply(root, map[string]string{"item2::item4": "[3, 2]"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	m := out.(*node.Mapping)
	i2, _ := m.Get("item2")
	i4, _ := i2.(*node.Mapping).Get("item4")
	seq := i4.(*node.Sequence)
	if len(seq.Items) != 2 || mustScalar(t, seq.Items[0]) != "3" || mustScalar(t, seq.Items[1]) != "2" {
		t.Fatalf("unexpected sequence contents: %+v", seq.Items)
	}
	// original root untouched
	origI4, _ := item2.Get("item4")
	if len(origI4.(*node.Sequence).Items) != 1 {
		t.Fatalf("Apply must not mutate the original tree")
	}
}

func TestApplyCreatesMissingMappingKey(t *testing.T) {
	root := node.NewMapping("")
	out, err := Apply(root, map[string]string{"a::b": `"hello"`})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	m := out.(*node.Mapping)
	a, ok := m.Get("a")
	if !ok {
		t.Fatalf("expected key a to be created")
	}
	b, ok := a.(*node.Mapping).Get("b")
	if !ok || mustScalar(t, b) != "hello" {
		t.Fatalf("expected a::b == hello, got %+v", b)
	}
}

func TestApplyOutOfRangeIndexFails(t *testing.T) {
	root := node.NewMapping("", node.Pair{Key: "items", Value: node.NewSequence("")})
	if _, err := Apply(root, map[string]string{"items::[0]": "1"}); err == nil {
		t.Fatalf("expected out-of-range sequence index to fail")
	}
}

func TestApplyIndexIntoNonSequenceFails(t *testing.T) {
	root := node.NewMapping("", node.Pair{Key: "items", Value: node.NewScalar("x", "")})
	if _, err := Apply(root, map[string]string{"items::[0]": "1"}); err == nil {
		t.Fatalf("expected indexing into a non-sequence to fail")
	}
}

func TestApplyRoundTripsMapLiteral(t *testing.T) {
	root := node.NewMapping("")
	out, err := Apply(root, map[string]string{"cfg": `{port: 8080, host: "localhost"}`})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	cfg, _ := out.(*node.Mapping).Get("cfg")
	cm := cfg.(*node.Mapping)
	port, _ := cm.Get("port")
	host, _ := cm.Get("host")
	if mustScalar(t, port) != "8080" || mustScalar(t, host) != "localhost" {
		t.Fatalf("unexpected cfg: port=%v host=%v", port, host)
	}
}
