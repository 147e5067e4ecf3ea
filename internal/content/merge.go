package content

// Merge overlays override onto base and returns a new document.
//
// Members present in override replace or recurse into base. Members missing
// from override keep the base value. A list in override replaces the base
// value wholesale, and an explicit null replaces it as well. When the override
// is missing, null or a scalar at the top level the result is a copy of base.
func Merge(base, override Value) Value {
	if override.kind != KindMap && override.kind != KindList {
		return base.Clone()
	}
	if base.kind == KindList {
		if override.kind == KindList {
			return override.Clone()
		}
		return base.Clone()
	}
	if base.kind != KindMap {
		return override.Clone()
	}
	if override.kind != KindMap {
		return base.Clone()
	}

	out := cloneMap(base.m)
	for key, child := range override.m {
		switch {
		case child.IsUndefined():
			continue
		case child.kind == KindList:
			out[key] = child.Clone()
		case child.kind == KindMap && out[key].kind == KindMap:
			out[key] = Merge(out[key], child)
		default:
			out[key] = child.Clone()
		}
	}
	return Value{kind: KindMap, m: out}
}
