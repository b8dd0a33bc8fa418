package node

// Equal implements the structural equality used by the instance cache
// (spec §3, §4.E): same kind, same tag, recursive content equality,
// anchors ignored. Mapping comparison is key-order independent (two
// independently authored mappings with the same entries in a different
// order are still the same configuration); sequence comparison is
// order-dependent.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Tag() != b.Tag() {
		return false
	}
	switch av := a.(type) {
	case *Scalar:
		bv := b.(*Scalar)
		return av.Value == bv.Value
	case *Null:
		return true
	case *Sequence:
		bv := b.(*Sequence)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		bv := b.(*Mapping)
		if len(av.Keys) != len(bv.Keys) {
			return false
		}
		for _, k := range av.Keys {
			aVal, _ := av.Get(k)
			bVal, ok := bv.Get(k)
			if !ok || !Equal(aVal, bVal) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
