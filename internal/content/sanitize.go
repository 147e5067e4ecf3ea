package content

// listPaths are the members renderers iterate over; they must always be lists.
var listPaths = [][]string{
	{"home", "specs", "items"},
	{"hero", "meta"},
	{"timeline"},
	{"benefits"},
	{"collections"},
}

// Normalize fills doc from the defaults. A missing or non-map doc yields the defaults.
func Normalize(doc Value) Value {
	return Merge(Defaults(), doc)
}

// Sanitize normalizes doc and forces the known list members to be lists,
// substituting an empty list for anything else found there. A container on the
// way to one of them that is not a map is restored from the defaults.
func Sanitize(doc Value) Value {
	out := Normalize(doc)
	defaults := Defaults()
	for _, path := range listPaths {
		out = forceList(out, defaults, path)
	}
	return out
}

func forceList(v, fallback Value, path []string) Value {
	if v.kind != KindMap {
		if fallback.kind == KindMap {
			v = fallback.Clone()
		} else {
			v = Value{kind: KindMap, m: map[string]Value{}}
		}
	}
	key := path[0]
	child := v.m[key]
	if len(path) == 1 {
		if child.kind != KindList {
			v.m[key] = Value{kind: KindList, list: []Value{}}
		}
		return v
	}
	v.m[key] = forceList(child, fallback.Get(key), path[1:])
	return v
}
