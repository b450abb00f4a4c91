// Package types holds the shared data model for FLAC track splitting.
//
// Root package tracksplit re-exports the public pieces as aliases so that
// internal packages can share these definitions without import cycles.
package types

// StreamDescription summarizes the encoded audio's format and structural
// bounds, as read from the source STREAMINFO block. It is immutable once
// parsed; per-track descriptions are recomputed fresh by the assembler.
type StreamDescription struct {
	MinBlockSize  uint16 // samples
	MaxBlockSize  uint16 // samples
	MinFrameSize  uint32 // bytes, 0 = unknown
	MaxFrameSize  uint32 // bytes, 0 = unknown
	SampleRate    uint32 // Hz
	Channels      uint8
	BitsPerSample uint8
	TotalSamples  uint64
	MD5           [16]byte
}

// FixedBlockSize reports whether the stream uses a fixed block size.
// Frame headers of fixed-blocksize streams carry a frame number rather
// than a sample number.
func (s StreamDescription) FixedBlockSize() bool {
	return s.MinBlockSize == s.MaxBlockSize && s.MinBlockSize > 0
}

// LeadOutTrack is the cue sheet track number that marks the lead-out.
// It terminates the final audio track and never produces an output.
const LeadOutTrack = 170

// CueTrack is one track entry of an embedded cue sheet.
type CueTrack struct {
	StartSample uint64 // inclusive, relative to the whole source
	Number      int    // 1-based; LeadOutTrack for the lead-out
	ISRC        string
	IsAudio     bool
	PreEmphasis bool
	Indices     []CueIndex
}

// CueIndex is an index point within a cue track.
type CueIndex struct {
	Offset uint64 // samples, relative to the track start
	Number uint8
}

// CueSheet is the parsed CUESHEET metadata block.
type CueSheet struct {
	MediaCatalogNumber string
	LeadIn             uint64
	IsCD               bool
	Tracks             []CueTrack
}

// AudioTracks returns the audio tracks in cue order, excluding the
// lead-out and any non-audio tracks.
func (c *CueSheet) AudioTracks() []CueTrack {
	var out []CueTrack
	for _, t := range c.Tracks {
		if t.IsAudio && t.Number != LeadOutTrack {
			out = append(out, t)
		}
	}
	return out
}

// LeadOut returns the lead-out start sample and whether one is present.
func (c *CueSheet) LeadOut() (uint64, bool) {
	for _, t := range c.Tracks {
		if t.Number == LeadOutTrack {
			return t.StartSample, true
		}
	}
	return 0, false
}

// FrameIndexEntry locates one frame in the source bitstream region.
// Entries are strictly increasing in both Offset and StartSample, and for
// a well-formed source consecutive entries are sample-contiguous.
type FrameIndexEntry struct {
	Offset      int64  // bytes from the start of the frame region
	StartSample uint64 // first sample encoded by this frame
	SampleCount uint32 // samples encoded by this frame
}

// End returns the sample just past this frame.
func (e FrameIndexEntry) End() uint64 {
	return e.StartSample + uint64(e.SampleCount)
}

// ResolvedTrackRange is one track's half-open byte range into the source
// frame region, plus the nominal sample range it represents. Pure value;
// it borrows nothing from the source after resolution.
type ResolvedTrackRange struct {
	Number      int
	StartOffset int64  // inclusive, relative to the frame region
	EndOffset   int64  // exclusive
	StartSample uint64 // nominal (cue) start
	EndSample   uint64 // nominal (cue) end
}

// SeekPoint references a frame in an output file: the target frame's
// first sample relative to the output's own audio, its byte offset
// relative to the output's first frame byte, and its sample count.
type SeekPoint struct {
	Sample       uint64
	Offset       uint64
	FrameSamples uint16
}

// Picture is an embedded PICTURE metadata block, carried verbatim from
// the source into every output track.
type Picture struct {
	Type        uint32
	MIMEType    string
	Description string
	Width       uint32
	Height      uint32
	Depth       uint32
	NumColors   uint32
	Data        []byte
}

// TrackResult identifies one successfully written output track.
type TrackResult struct {
	Number  int
	Path    string
	Samples uint64 // actual sample span of the copied frames
}
