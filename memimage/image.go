package memimage

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/moffa90/go-i2ceeprom/protocol"
)

// FileMode is the permission used when saving image files.
const FileMode = 0o644

// New allocates a zeroed image of g.Size bytes. Its capacity reserves one
// extra page so page-stride loops can slice a full page at the tail.
func New(g protocol.Geometry) []byte {
	return make([]byte, g.Size, g.Size+g.PageSize)
}

// Load reads the image file at path into a fresh image for g.
// It returns the image and the number of bytes taken from the file; when the
// file is shorter than the device the remainder stays 0x00 and no error is
// returned. Bytes beyond g.Size are ignored.
func Load(fs afero.Fs, path string, g protocol.Geometry) ([]byte, int, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to read %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img := New(g)
	n, err := io.ReadFull(f, img)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, n, fmt.Errorf("read %s: %w", path, err)
	}

	return img, n, nil
}

// Save writes img to path as a raw image, replacing any existing file.
func Save(fs afero.Fs, path string, img []byte) error {
	if err := afero.WriteFile(fs, path, img, FileMode); err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	return nil
}
