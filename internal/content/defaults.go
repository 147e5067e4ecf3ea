package content

import (
	_ "embed"
	"sync"
)

//go:embed defaults.json
var defaultsJSON []byte

var (
	defaultsOnce  sync.Once
	defaultsValue Value
)

// Defaults returns a fresh copy of the built-in site content document.
func Defaults() Value {
	defaultsOnce.Do(func() {
		v, err := Parse(defaultsJSON)
		if err != nil {
			panic("content: embedded defaults are not valid JSON: " + err.Error())
		}
		defaultsValue = v
	})
	return defaultsValue.Clone()
}

// DefaultsJSON returns the embedded defaults exactly as shipped.
func DefaultsJSON() []byte {
	out := make([]byte, len(defaultsJSON))
	copy(out, defaultsJSON)
	return out
}
