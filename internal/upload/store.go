package upload

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"
)

// Upload size ceilings, enforced at the HTTP boundary.
const (
	MaxFileSize   = 50 << 20 // 50 MB
	MaxAvatarSize = 5 << 20  // 5 MB
)

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// AllowedAvatarType reports whether the MIME type is accepted for avatars.
func AllowedAvatarType(mimeType string) bool {
	return allowedAvatarTypes[mimeType]
}

// Store writes uploads to a local directory served statically.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save stores the upload under a collision-free generated name, keeping the
// original extension, and returns the generated filename and byte count.
func (s *Store) Save(prefix, originalName string, r io.Reader) (string, int64, error) {
	name := GenerateFilename(prefix, originalName)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("writing file: %w", err)
	}

	return name, size, nil
}

// GenerateFilename builds "{prefix}-{timestamp}-{random}{ext}".
func GenerateFilename(prefix, originalName string) string {
	return fmt.Sprintf("%s-%d-%d%s",
		prefix, time.Now().UnixMilli(), rand.IntN(1_000_000_000), filepath.Ext(originalName))
}
