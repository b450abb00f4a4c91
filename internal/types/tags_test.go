package types

import (
	"errors"
	"reflect"
	"testing"
)

func TestTagsAddPreservesOrder(t *testing.T) {
	tags := NewTags()
	tags.Add("TITLE", "First")
	tags.Add("artist", "Someone")
	tags.Add("ALBUM", "A Record")
	tags.Add("TITLE", "Second")

	var keys []string
	for key := range tags.All() {
		keys = append(keys, key)
	}
	want := []string{"TITLE", "ARTIST", "ALBUM"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("key order = %v, want %v", keys, want)
	}
	if got := tags.Get("title"); !reflect.DeepEqual(got, []string{"First", "Second"}) {
		t.Errorf("Get(title) = %v", got)
	}
	if got := tags.GetFirst("Artist"); got != "Someone" {
		t.Errorf("GetFirst(Artist) = %q", got)
	}
}

func TestTagsSetReplaces(t *testing.T) {
	tags := NewTags()
	tags.Add("GENRE", "Rock")
	tags.Add("GENRE", "Pop")
	tags.Set("genre", "Jazz")

	if got := tags.Get("GENRE"); !reflect.DeepEqual(got, []string{"Jazz"}) {
		t.Errorf("Get(GENRE) = %v, want [Jazz]", got)
	}
}

func TestTagsMergeReplacesInPlace(t *testing.T) {
	base := NewTags()
	base.Add("ARTIST", "Band")
	base.Add("TITLE", "Album Title")
	base.Add("DATE", "1994")

	override := NewTags()
	override.Add("TITLE", "Track Title")
	override.Add("COMPOSER", "Someone Else")

	merged := base.Merge(override)

	var keys []string
	for key := range merged.All() {
		keys = append(keys, key)
	}
	// TITLE keeps its original position; new keys append.
	want := []string{"ARTIST", "TITLE", "DATE", "COMPOSER"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("merged key order = %v, want %v", keys, want)
	}
	if got := merged.GetFirst("TITLE"); got != "Track Title" {
		t.Errorf("merged TITLE = %q, want Track Title", got)
	}

	// The receiver must be untouched.
	if got := base.GetFirst("TITLE"); got != "Album Title" {
		t.Errorf("base TITLE mutated to %q", got)
	}
	if base.Has("COMPOSER") {
		t.Error("base gained COMPOSER after merge")
	}
}

func TestTagsMergeNil(t *testing.T) {
	base := NewTags()
	base.Add("ALBUM", "X")

	merged := base.Merge(nil)
	if merged.Len() != 1 || merged.GetFirst("ALBUM") != "X" {
		t.Errorf("Merge(nil) = %v entries", merged.Len())
	}
}

func TestIoFailureErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &IoFailureError{Path: "a.flac", Track: 3, Op: "write", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("IoFailureError does not unwrap to its cause")
	}
}
