package factory

import (
	"github.com/mitchellh/mapstructure"

	"github.com/bittoy/objectgraph/graphtypes"
	"github.com/bittoy/objectgraph/node"
)

// stringMapFromNode decodes a scalar-valued mapping into an ordered
// string->string map. The per-entry scalar texts are collected into a
// map[string]any; github.com/mitchellh/mapstructure then decodes that into
// a map[string]string.
func stringMapFromNode(path string, m *node.Mapping) (*graphtypes.OrderedMap[string], error) {
	raw := make(map[string]any, len(m.Keys))
	for _, k := range m.Keys {
		v, _ := m.Get(k)
		s, ok := v.(*node.Scalar)
		if !ok {
			return nil, graphtypes.NewBadConversion(path+"/"+k, "string")
		}
		raw[k] = s.Value
	}
	decoded := make(map[string]string, len(raw))
	if err := mapstructure.Decode(raw, &decoded); err != nil {
		return nil, graphtypes.NewBadConversion(path, "map<string,string>")
	}
	out := graphtypes.NewOrderedMap[string]()
	for _, k := range m.Keys {
		out.Set(k, decoded[k])
	}
	return out, nil
}
