package content

// CollectionByHandle returns the collections entry whose handle matches.
func CollectionByHandle(doc Value, handle string) (Value, bool) {
	collections := doc.Get("collections")
	if !collections.IsList() {
		return Value{}, false
	}
	for _, item := range collections.list {
		if item.Str("handle") == handle {
			return item.Clone(), true
		}
	}
	return Value{}, false
}

// Collections returns the collections list, empty when missing.
func Collections(doc Value) []Value {
	return doc.Get("collections").Items()
}
