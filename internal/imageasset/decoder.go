// Package imageasset resolves Lottie image-layer assets (embedded base64
// data URIs or file paths relative to the document directory) into pixel
// buffers, and scales them to fit a layer's declared size.
//
// The decode step itself is explicitly out of scope (spec: "the embedded
// image decoder (JPEG/PNG)" is an external collaborator) — ImageDecoder is
// the contract a host can satisfy with a faster or format-richer codec; the
// default implementation here only wraps the standard library.
package imageasset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when neither PNG nor JPEG could decode
// the asset bytes.
var ErrUnsupportedFormat = errors.New("imageasset: unsupported format")

// ImageDecoder decodes raw asset bytes into a Go image.Image. Implementations
// must be safe for concurrent use; the pipeline worker may decode several
// image layers from different live animations concurrently.
type ImageDecoder interface {
	Decode(data []byte) (image.Image, error)
}

// stdDecoder decodes PNG and JPEG via the standard library.
type stdDecoder struct{}

// NewStdDecoder returns the default ImageDecoder, backed entirely by
// image/png and image/jpeg.
func NewStdDecoder() ImageDecoder { return stdDecoder{} }

func (stdDecoder) Decode(data []byte) (image.Image, error) {
	if img, err := png.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := jpeg.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, ErrUnsupportedFormat
}

// Source identifies where a Lottie asset's bytes come from: an embedded
// "data:...,<base64>" URI (IsEmbedded true, Data populated) or a file name
// to resolve relative to the document's directory.
type Source struct {
	IsEmbedded bool
	Data       string // raw "u"+"p" concatenation before stripping, or base64 payload if IsEmbedded
	Dir        string // document directory, for relative resolution
	Path       string // "u" + "p" joined, if not embedded
}

// dataURIPrefix is the recognized embedded-image marker (spec §4.1): a
// base64 image value is recognized by this prefix; the parser strips up to
// the first comma and decodes the remainder.
const dataURIPrefix = "data:"

// ParseAssetPath builds a Source from a Lottie asset's u (directory) and p
// (filename) fields, recognizing the data URI convention.
func ParseAssetPath(dir, filename string) Source {
	if strings.HasPrefix(filename, dataURIPrefix) {
		if idx := strings.IndexByte(filename, ','); idx >= 0 {
			return Source{IsEmbedded: true, Data: filename[idx+1:]}
		}
		return Source{IsEmbedded: true, Data: ""}
	}
	return Source{Dir: dir, Path: filepath.Join(dir, filename)}
}

// Load resolves a Source to raw bytes, decoding the base64 payload for
// embedded assets or reading the file for path-based assets.
func Load(src Source) ([]byte, error) {
	if src.IsEmbedded {
		data, err := base64.StdEncoding.DecodeString(src.Data)
		if err != nil {
			return nil, fmt.Errorf("imageasset: decode base64: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filepath.Clean(src.Path)) //nolint:gosec // path composed from document-relative asset fields
	if err != nil {
		return nil, fmt.Errorf("imageasset: read %q: %w", src.Path, err)
	}
	return data, nil
}

// Resolve loads and decodes a Source in one step using decoder (pass nil
// for the standard-library default).
func Resolve(src Source, decoder ImageDecoder) (image.Image, error) {
	if decoder == nil {
		decoder = NewStdDecoder()
	}
	data, err := Load(src)
	if err != nil {
		return nil, err
	}
	return decoder.Decode(data)
}
