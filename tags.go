package tracksplit

import (
	"strconv"
	"strings"

	"github.com/simonhull/tracksplit/internal/types"
)

// Tags is an ordered, multi-valued vorbis comment mapping. Alias of the
// internal type so the internal packages and the public API share one
// model.
type Tags = types.Tags

// NewTags returns an empty tag mapping.
func NewTags() *Tags {
	return types.NewTags()
}

// Tag keys that describe the archival source file itself and must not
// be carried into per-track outputs.
var uninterestingKeys = map[string]bool{
	"CUESHEET": true,
	"LOG":      true,
}

// TrackOverrides extracts the per-track tag side mapping from an
// archival source's album-level comments. The convention writes track
// overrides as keys suffixed with the 1-based track number in square
// brackets: "TITLE[3]=Third Song" overrides TITLE for track 3.
//
// The returned album mapping is a filtered copy with all suffixed keys
// removed, along with CUESHEET and LOG dumps, which describe the source
// file rather than its tracks.
func TrackOverrides(source *Tags) (album *Tags, perTrack map[int]*Tags) {
	album = NewTags()
	perTrack = make(map[int]*Tags)

	for key, values := range source.All() {
		if number, base, ok := splitTrackSuffix(key); ok {
			tags := perTrack[number]
			if tags == nil {
				tags = NewTags()
				perTrack[number] = tags
			}
			for _, v := range values {
				tags.Add(base, v)
			}
			continue
		}
		if uninterestingKeys[key] || strings.HasSuffix(key, "]") {
			continue
		}
		for _, v := range values {
			album.Add(key, v)
		}
	}
	return album, perTrack
}

// splitTrackSuffix recognizes keys of the form "BASE[N]" with N a
// positive track number.
func splitTrackSuffix(key string) (number int, base string, ok bool) {
	if !strings.HasSuffix(key, "]") {
		return 0, "", false
	}
	open := strings.LastIndex(key, "[")
	if open <= 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(key[open+1 : len(key)-1])
	if err != nil || n <= 0 {
		return 0, "", false
	}
	return n, key[:open], true
}
