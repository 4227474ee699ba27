package snapshot

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Store persists the scene snapshot as a single document on disk. Writes go
// through a temp file and rename so a crash mid-write never corrupts the
// previous snapshot. Disk is a backup of the in-memory authoritative state;
// callers treat failures as retryable warnings, never as fatal.
type Store struct {
	path     string
	compress bool
}

func NewStore(path string, compress bool) *Store {
	if compress {
		path += ".zst"
	}
	return &Store{path: path, compress: compress}
}

func (s *Store) Path() string {
	return s.path
}

// Save atomically replaces the snapshot file with the given document bytes.
func (s *Store) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := s.write(tmp, data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *Store) write(f *os.File, data []byte) error {
	if !s.compress {
		_, err := f.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Load reads the snapshot document. A missing file returns os.ErrNotExist
// unwrapped so callers can fall back to a default scene.
func (s *Store) Load() ([]byte, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !s.compress {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec.IOReadCloser())
}
