package recording

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chaz8081/speakerid/internal/audio"
	"github.com/chaz8081/speakerid/internal/locator"
	"github.com/google/uuid"
)

// Store writes finished captures as WAV files under a directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a Store rooted at dir. The directory is created on first Save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the directory recordings are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes clip to a new uniquely named file and returns its locator.
func (s *Store) Save(clip audio.Clip) (locator.Locator, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("creating recordings dir: %w", err)
	}

	name := fmt.Sprintf("rec-%s-%s.wav", s.now().Format("20060102-150405"), uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)

	if err := audio.WriteWAVFile(path, clip); err != nil {
		return "", err
	}
	return locator.FromPath(path)
}
