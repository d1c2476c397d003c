package doc

// Properties is a generic formatting bag. Values are scalars, nested
// Properties/maps, or slices of those, matching what the JSON codec
// produces.
type Properties map[string]any

// Equal reports whether two property bags are structurally equal. The
// comparison is deep and independent of key order, and treats numeric values
// of different Go types (int vs float64 after a JSON round trip) as equal
// when they denote the same number.
func (p Properties) Equal(o Properties) bool {
	return propsEqual(p, o)
}

func propsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if am, ok := asMap(a); ok {
		bm, ok := asMap(b)
		return ok && propsEqual(am, bm)
	}
	if as, ok := a.([]any); ok {
		bs, ok := b.([]any)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !valueEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if af, ok := asNumber(a); ok {
		bf, ok := asNumber(b)
		return ok && af == bf
	}
	return a == b
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Properties:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Clone returns a deep copy of the property bag.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for k, mv := range m {
			out[k] = cloneValue(mv)
		}
		return out
	}
	if s, ok := v.([]any); ok {
		out := make([]any, len(s))
		for i, sv := range s {
			out[i] = cloneValue(sv)
		}
		return out
	}
	return v
}
