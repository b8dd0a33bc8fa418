// Package override implements the Override applier of spec §4.A/§4.F: a
// flat `path::subpath` → literal map is applied to a parsed Node tree
// before any Factory exists, replacing whole sub-nodes via copy-on-write.
package override

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bittoy/objectgraph/graphtypes"
	"github.com/bittoy/objectgraph/node"
)

// Apply returns a new root node with every (path, literal) pair in
// overrides applied. root is never mutated in place; every mapping on the
// affected spine is rebuilt via node.Mapping.WithSet and every affected
// sequence is rebuilt as a fresh node.Sequence (spec invariant ii: "a Node
// is immutable after parsing except through the Override applier, which
// replaces whole sub-nodes").
//
// Overrides are applied in path order so that behavior does not depend on
// map iteration order; two overrides that happen to target the same path
// leave the lexicographically-last one in effect.
func Apply(root node.Node, overrides map[string]string) (node.Node, error) {
	paths := make([]string, 0, len(overrides))
	for p := range overrides {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		literal, err := parseLiteral(overrides[path])
		if err != nil {
			return nil, err
		}
		segments := strings.Split(path, "::")
		updated, err := applyPath(root, segments, literal)
		if err != nil {
			return nil, err
		}
		root = updated
	}
	return root, nil
}

// parseIndex recognizes a "[N]" sequence-index segment.
func parseIndex(segment string) (int, bool) {
	if len(segment) < 3 || segment[0] != '[' || segment[len(segment)-1] != ']' {
		return 0, false
	}
	n, err := strconv.Atoi(segment[1 : len(segment)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isNull(n node.Node) bool {
	return n == nil || n.Kind() == node.KindNull
}

// applyPath walks segments against n, replacing the node reached at the
// end of the path with value. Each step returns a freshly built node
// rather than mutating n; missing mapping keys along the way are created
// (spec: "a path whose prefix crosses a non-existing mapping key must
// extend the mapping"), while a prefix crossing a non-existing sequence
// index fails with OverrideTargetMissing.
func applyPath(n node.Node, segments []string, value node.Node) (node.Node, error) {
	if len(segments) == 0 {
		return value, nil
	}
	seg := segments[0]
	rest := segments[1:]

	if idx, ok := parseIndex(seg); ok {
		seq, ok := n.(*node.Sequence)
		if !ok || idx < 0 || idx >= len(seq.Items) {
			return nil, graphtypes.NewOverrideTargetMissing(seg)
		}
		newChild, err := applyPath(seq.Items[idx], rest, value)
		if err != nil {
			return nil, err
		}
		newItems := make([]node.Node, len(seq.Items))
		copy(newItems, seq.Items)
		newItems[idx] = newChild
		return node.NewSequence(seq.Tag(), newItems...), nil
	}

	m, ok := n.(*node.Mapping)
	if !ok {
		if !isNull(n) {
			return nil, graphtypes.NewOverrideTargetMissing(seg)
		}
		m = node.NewMapping("")
	}
	child, exists := m.Get(seg)
	if !exists {
		child = node.NewNull("")
	}
	newChild, err := applyPath(child, rest, value)
	if err != nil {
		return nil, err
	}
	return m.WithSet(seg, newChild), nil
}
