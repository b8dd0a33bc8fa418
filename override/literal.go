package override

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dop251/goja"

	"github.com/bittoy/objectgraph/node"
)

// parseLiteral re-parses an override's literal string as a sub-document.
// Rather than hand-roll a second parser, it reuses the dop251/goja
// JavaScript engine to parse the literal as a JS expression, then walks
// the resulting value into a node.Node tree. Wrapping in parens lets a
// bare `{a: 1}` parse as an object expression instead of being misread as
// a block statement.
func parseLiteral(literal string) (node.Node, error) {
	vm := goja.New()
	v, err := vm.RunString("(" + literal + ")")
	if err != nil {
		return nil, fmt.Errorf("override literal %q: %w", literal, err)
	}
	return fromGoja(v.Export())
}

func fromGoja(v any) (node.Node, error) {
	switch val := v.(type) {
	case nil:
		return node.NewNull(""), nil
	case string:
		return node.NewScalar(val, ""), nil
	case bool:
		return node.NewScalar(strconv.FormatBool(val), ""), nil
	case int64:
		return node.NewScalar(strconv.FormatInt(val, 10), ""), nil
	case float64:
		if val == float64(int64(val)) {
			return node.NewScalar(strconv.FormatInt(int64(val), 10), ""), nil
		}
		return node.NewScalar(strconv.FormatFloat(val, 'g', -1, 64), ""), nil
	case []any:
		items := make([]node.Node, len(val))
		for i, item := range val {
			child, err := fromGoja(item)
			if err != nil {
				return nil, err
			}
			items[i] = child
		}
		return node.NewSequence("", items...), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]node.Pair, len(keys))
		for i, k := range keys {
			child, err := fromGoja(val[k])
			if err != nil {
				return nil, err
			}
			pairs[i] = node.Pair{Key: k, Value: child}
		}
		return node.NewMapping("", pairs...), nil
	default:
		return nil, fmt.Errorf("override literal: unsupported value of type %T", v)
	}
}
