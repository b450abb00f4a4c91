package types

import (
	"iter"
	"strings"
)

// Tags is an ordered multi-valued tag mapping in the vorbis comment
// convention: keys are case-insensitive (canonicalized to upper case),
// values are free-form UTF-8. Insertion order of keys is preserved so
// merged outputs keep the source's comment ordering.
type Tags struct {
	keys   []string
	values map[string][]string
}

// NewTags returns an empty tag mapping.
func NewTags() *Tags {
	return &Tags{values: make(map[string][]string)}
}

// CanonicalKey returns the canonical (upper-case) form of a tag key.
func CanonicalKey(key string) string {
	return strings.ToUpper(key)
}

// Add appends a value for key, preserving the key's first-insertion
// position.
func (t *Tags) Add(key, value string) {
	key = CanonicalKey(key)
	if t.values == nil {
		t.values = make(map[string][]string)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = append(t.values[key], value)
}

// Set replaces all values for key with the given value.
func (t *Tags) Set(key, value string) {
	key = CanonicalKey(key)
	if t.values == nil {
		t.values = make(map[string][]string)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = []string{value}
}

// Get returns all values for key, or nil if unset.
func (t *Tags) Get(key string) []string {
	if t == nil || t.values == nil {
		return nil
	}
	return t.values[CanonicalKey(key)]
}

// GetFirst returns the first value for key, or "" if unset.
func (t *Tags) GetFirst(key string) string {
	values := t.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Has reports whether key is set.
func (t *Tags) Has(key string) bool {
	if t == nil || t.values == nil {
		return false
	}
	_, ok := t.values[CanonicalKey(key)]
	return ok
}

// Delete removes key and its values.
func (t *Tags) Delete(key string) {
	if t == nil || t.values == nil {
		return
	}
	key = CanonicalKey(key)
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of distinct keys.
func (t *Tags) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// All returns an iterator over keys and their values, in insertion order.
// The yielded slices must not be modified.
func (t *Tags) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if t == nil {
			return
		}
		for _, key := range t.keys {
			if !yield(key, t.values[key]) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (t *Tags) Clone() *Tags {
	out := NewTags()
	if t == nil {
		return out
	}
	for key, values := range t.All() {
		for _, v := range values {
			out.Add(key, v)
		}
	}
	return out
}

// Merge overlays other on top of t and returns the result as a new
// mapping. Keys present in other replace t's values entirely; keys only
// in t keep their values and their insertion positions.
func (t *Tags) Merge(other *Tags) *Tags {
	out := t.Clone()
	if other == nil {
		return out
	}
	for key, values := range other.All() {
		if out.Has(key) {
			// Replace in place so the key keeps its original position.
			out.values[key] = append([]string(nil), values...)
			continue
		}
		for _, v := range values {
			out.Add(key, v)
		}
	}
	return out
}
