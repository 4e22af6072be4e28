package storage

import (
	"bytes"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrInvalidImage carries the message shown next to the upload field.
var ErrInvalidImage = errors.New("Upload a valid image. The file you uploaded was either not an image or a corrupted image.")

// Bounding boxes for stored images.
const (
	PhotoMaxSide = 512
	CoverMaxSide = 1024
)

// PrepareImage decodes r, shrinks it to fit maxSide x maxSide and re-encodes it
// in the format implied by filename (JPEG when unknown). It returns the encoded
// bytes and the file name to store them under.
func PrepareImage(filename string, r io.Reader, maxSide int) ([]byte, string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", ErrInvalidImage
	}
	b := img.Bounds()
	if b.Dx() > maxSide || b.Dy() > maxSide {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	format, err := imaging.FormatFromFilename(filename)
	if err != nil {
		format = imaging.JPEG
		filename = strings.TrimSuffix(filename, path.Ext(filename)) + ".jpg"
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), filename, nil
}
