// Package finder declares the external FileFinder contract (spec.md §6):
// the file-finder that enumerates Match values on live or snapshot NTFS
// volumes. GetThis's core never parses NTFS structures or talks to Yara
// directly — it only calls through this interface, so a real go-ntfs/Yara
// backed finder can be substituted without touching the collection
// pipeline.
package finder

import "www.velocidex.com/golang/getthis/internal/model"

// YaraConfig carries whatever a real finder needs to initialize Yara
// scanning; the collection pipeline treats it as an opaque blob.
type YaraConfig struct {
	Rules []string
}

// Location is one scan root a finder should enumerate (e.g. a volume
// path or a drive letter); kept opaque to the core, which only passes
// locations through to the finder.
type Location struct {
	Path string
}

// MatchCallback is invoked once per Match found. stop, when set true by
// the callback, is a best-effort request to the finder to halt
// enumeration early.
type MatchCallback func(match *model.Match, stop *bool)

// FileFinder is the external collaborator contract of spec.md §6.
type FileFinder interface {
	InitializeYara(cfg YaraConfig) error
	Find(locations []Location, onMatch MatchCallback) error
}
