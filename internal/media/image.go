// Package media processes uploaded images and stores the results.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// ThumbnailSize is the width and height of every stored image.
	ThumbnailSize = 200
	// MaxPixels caps the declared dimensions of an upload before it is decoded.
	MaxPixels = 40_000_000
)

var ErrImageTooLarge = errors.New("image dimensions too large")

var contentTypes = map[string]string{
	"jpg": "image/jpeg",
	"png": "image/png",
}

// AllowedExtension returns the lower-cased extension of filename and whether
// uploads with that extension are accepted.
func AllowedExtension(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	_, ok := contentTypes[ext]
	return ext, ok
}

// ContentType returns the MIME type for an allowed extension.
func ContentType(ext string) string {
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Thumbnail decodes r, resizes it to exactly ThumbnailSize x ThumbnailSize and
// re-encodes it in the format named by ext. Images declaring more than
// MaxPixels are rejected with ErrImageTooLarge without being decoded.
func Thumbnail(r io.Reader, ext string) ([]byte, error) {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	thumb := imaging.Resize(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), nil
}

// NewName returns a random file name with the given extension.
func NewName(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + "." + ext
}
