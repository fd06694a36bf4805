// Package storage holds the artifact file store: one directory of generated
// .wav files, addressed by the owning music row's UUID.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/suwook2/project-musicgen/core/musicgen"
)

// PublicPrefix is the URL prefix under which artifacts are served.
const PublicPrefix = "/generated_music/"

// ArtifactStore writes and removes generated audio files in a single
// directory. Filenames derive from the row UUID, never from the title.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates the store, ensuring its directory exists.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// Dir returns the artifact directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Filename returns the artifact filename for an id.
func Filename(id string) string {
	return id + ".wav"
}

// PublicURL returns the URL clients use to fetch the artifact at path.
func PublicURL(path string) string {
	return PublicPrefix + filepath.Base(path)
}

// Put encodes the audio as a WAV file named after id and returns the file
// path. A failed write leaves no partial file behind.
func (s *ArtifactStore) Put(id string, audio *musicgen.Audio) (string, error) {
	path := filepath.Join(s.dir, Filename(id))
	if err := os.WriteFile(path, encodeWAV(audio.PCM, audio.SampleRate), 0644); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return path, nil
}

// Remove deletes the artifact at path. Absence is not an error.
func (s *ArtifactStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove artifact %s: %w", path, err)
	}
	return nil
}
