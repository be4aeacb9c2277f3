package storage

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/nfnt/resize"
)

const (
	MaxImageWidth = 800
	JPEGQuality   = 80
)

var ErrUnsupportedImage = errors.New("unsupported image format, only PNG, JPG and JPEG are allowed")

// OptimizeImage decodes a PNG or JPEG upload, shrinks it to MaxImageWidth
// keeping the aspect ratio, and re-encodes it as JPEG.
func OptimizeImage(r io.Reader, ext string) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(ext) {
	case ".png":
		img, err = png.Decode(r)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(r)
	default:
		return nil, ErrUnsupportedImage
	}
	if err != nil {
		return nil, err
	}

	if img.Bounds().Dx() > MaxImageWidth {
		img = resize.Resize(MaxImageWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
