// Package assets loads the map and the tileset. Files with the .zst extension
// are decompressed with zstd. When no file is specified a built-in demo map
// or tileset is used.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/tileflow/flow/grid"
	"github.com/jetsetilly/tileflow/hardware/video"
	"github.com/klauspost/compress/zstd"
)

const (
	MapSize     = grid.Size
	TilesetSize = video.TilesetSize
)

// ErrSize is returned when the loaded data is not the expected size
var ErrSize = errors.New("incorrect size")

// the file extension that indicates zstd compression
const zstdExt = ".zst"

// Load reads the file at path and checks that it is the correct size.
func Load(path string, size int) ([]uint8, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), zstdExt) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("assets: %w", err)
		}
		defer dec.Close()

		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("assets: %s: %w", filepath.Base(path), err)
		}
	}

	if len(data) != size {
		return nil, fmt.Errorf("assets: %s: %w: %d bytes and should be %d bytes",
			filepath.Base(path), ErrSize, len(data), size)
	}

	return data, nil
}

// Save writes the data to the file at path. The data is compressed if the
// path has the .zst extension.
func Save(path string, data []uint8) error {
	if strings.EqualFold(filepath.Ext(path), zstdExt) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return fmt.Errorf("assets: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return fmt.Errorf("assets: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("assets: %w", err)
	}
	return nil
}

// LoadMap loads the map from the file at path. The demo map is returned if
// path is empty.
func LoadMap(path string) ([]uint8, error) {
	if path == "" {
		return DemoMap(), nil
	}
	return Load(path, MapSize)
}

// LoadTileset loads the tileset from the file at path. The demo tileset is
// returned if path is empty.
func LoadTileset(path string) ([]uint8, error) {
	if path == "" {
		return DemoTileset(), nil
	}
	return Load(path, TilesetSize)
}
