package connector

// Values is the ephemeral key-value payload produced by a mapper and
// consumed immediately to create or update the bound local record. Keys are
// local field names. It is never persisted standalone.
type Values map[string]any

// Merge copies other into v, overwriting existing keys. Later mapping rules
// win over earlier ones.
func (v Values) Merge(other Values) {
	for k, val := range other {
		v[k] = val
	}
}

// Str returns the string value of a key, or "" when absent.
func (v Values) Str(key string) string {
	s, _ := v[key].(string)
	return s
}

// Has reports whether the key is present.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}
