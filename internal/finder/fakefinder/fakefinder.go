// Package fakefinder is a minimal in-memory FileFinder used only by
// tests: it replays a fixed slice of pre-built model.Match values instead
// of walking a real NTFS volume.
package fakefinder

import (
	"www.velocidex.com/golang/getthis/internal/finder"
	"www.velocidex.com/golang/getthis/internal/model"
)

// Finder replays Matches verbatim, ignoring Locations.
type Finder struct {
	Matches []*model.Match

	YaraInitCalled bool
	LastYaraConfig finder.YaraConfig
}

func (f *Finder) InitializeYara(cfg finder.YaraConfig) error {
	f.YaraInitCalled = true
	f.LastYaraConfig = cfg
	return nil
}

func (f *Finder) Find(_ []finder.Location, onMatch finder.MatchCallback) error {
	for _, m := range f.Matches {
		stop := false
		onMatch(m, &stop)
		if stop {
			break
		}
	}
	return nil
}
