package tracksplit

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// FilenameFunc maps a track number and its merged tags to an output
// path relative to the output directory.
type FilenameFunc func(track int, tags *Tags) string

// DefaultFilename lays tracks out as
//
//	Album Artist/Date - Album/NN.Title.flac
//
// falling back to ARTIST, "Unknown Artist", and "Unknown Album" when
// tags are missing, and prefixing the track filename with the disc
// number on multi-disc releases ("02-07.Title.flac").
func DefaultFilename(track int, tags *Tags) string {
	artist := tags.GetFirst("ALBUMARTIST")
	if artist == "" {
		artist = tags.GetFirst("ARTIST")
	}
	if artist == "" {
		artist = "Unknown Artist"
	}

	album := tags.GetFirst("ALBUM")
	if album == "" {
		album = "Unknown Album"
	}
	if date := tags.GetFirst("DATE"); date != "" {
		album = date + " - " + SanitizePathComponent(album)
	} else {
		album = SanitizePathComponent(album)
	}

	title := tags.GetFirst("TITLE")
	if title == "" {
		title = fmt.Sprintf("Track %02d", track)
	}
	name := fmt.Sprintf("%s%02d.%s.flac", discPrefix(tags), track, SanitizePathComponent(title))

	return filepath.Join(SanitizePathComponent(artist), album, name)
}

// discPrefix returns "NN-" for multi-disc releases, "" otherwise.
func discPrefix(tags *Tags) string {
	total, err := strconv.Atoi(tags.GetFirst("TOTALDISCS"))
	if err != nil || total <= 1 {
		return ""
	}
	disc := tags.GetFirst("DISCNUMBER")
	if disc == "" {
		return ""
	}
	if n, err := strconv.Atoi(disc); err == nil {
		return fmt.Sprintf("%02d-", n)
	}
	return disc + "-"
}

// SanitizePathComponent replaces characters that are unsafe in
// filenames with underscores. Question marks, quotes, slashes, colons
// and other shell-escapey characters trip up downstream tools; plain
// punctuation survives.
func SanitizePathComponent(name string) string {
	return strings.Map(func(c rune) rune {
		if riskyPathChar(c) {
			return '_'
		}
		return c
	}, name)
}

func riskyPathChar(c rune) bool {
	switch c {
	case ' ', '_', '-', ',', '.', '!', '&', '(', ')', '[', ']', '{', '}', '<', '>':
		return false
	}
	return !unicode.IsLetter(c) && !unicode.IsDigit(c)
}

// PatternFilename builds a FilenameFunc from a template string with
// {artist}, {albumartist}, {album}, {date}, {title}, and {track}
// placeholders. {track} expands zero-padded to two digits; tag
// placeholders expand sanitized. Path separators in the pattern itself
// are preserved, so patterns can describe directory layouts:
//
//	{albumartist}/{date} - {album}/{track}. {title}.flac
func PatternFilename(pattern string) FilenameFunc {
	return func(track int, tags *Tags) string {
		artist := tags.GetFirst("ARTIST")
		albumArtist := tags.GetFirst("ALBUMARTIST")
		if albumArtist == "" {
			albumArtist = artist
		}
		title := tags.GetFirst("TITLE")
		if title == "" {
			title = fmt.Sprintf("Track %02d", track)
		}
		replacer := strings.NewReplacer(
			"{artist}", SanitizePathComponent(artist),
			"{albumartist}", SanitizePathComponent(albumArtist),
			"{album}", SanitizePathComponent(tags.GetFirst("ALBUM")),
			"{date}", SanitizePathComponent(tags.GetFirst("DATE")),
			"{title}", SanitizePathComponent(title),
			"{track}", fmt.Sprintf("%02d", track),
		)
		return filepath.FromSlash(replacer.Replace(pattern))
	}
}
