package domain

// Settings is the single process-wide options row: a flat mapping of option
// name to value. The zero value is usable.
type Settings map[string]any

// Merge applies patch key-by-key. Patch values win for keys present in both.
// The receiver is returned for chaining; a nil receiver allocates.
func (s Settings) Merge(patch Settings) Settings {
	if s == nil {
		s = make(Settings, len(patch))
	}
	for k, v := range patch {
		s[k] = v
	}
	return s
}

// Clone returns a shallow copy so callers can't mutate the stored row.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
