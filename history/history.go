// Package history provides the implementation for tracking and persisting playback positions.
package history

import (
	"github.com/metafates/gache"
	"github.com/recap-cli/recap/filesystem"
	"github.com/recap-cli/recap/where"
)

// cacher provides an abstracted, disk-backed registry for playback position records.
var cacher = gache.New[map[string]*Position](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of stored playback positions keyed by media URL.
func Get() (map[string]*Position, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Position), nil
	}
	return cached, nil
}

// Lookup returns the stored position for a media URL, if one exists.
func Lookup(mediaURL string) (*Position, bool, error) {
	saved, err := Get()
	if err != nil {
		return nil, false, err
	}

	pos, ok := saved[mediaURL]
	return pos, ok, nil
}

// Save persists the playback position for a media URL.
// Idempotency: the stored percent-complete only ever grows, so briefly
// rewinding before closing never regresses a mostly-watched recording.
func Save(record *Position) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if existing, ok := saved[record.MediaURL]; ok {
		if record.PercentComplete() < existing.PercentComplete() {
			record.PositionSec = existing.PositionSec
		}
	}

	saved[record.MediaURL] = record

	return cacher.Set(saved)
}

// Remove permanently deletes the stored position for a media URL.
func Remove(mediaURL string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, mediaURL)
	return cacher.Set(saved)
}
