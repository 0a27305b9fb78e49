// Package jpeg extracts image dimensions and IPTC IIM metadata from
// JPEG files by walking the marker segments directly. Only the header
// is parsed; pixel data is never decoded.
package jpeg

import (
	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.MetadataReader = (*Reader)(nil)

// Reader extracts metadata from JPEG bytes.
type Reader struct{}

// New creates a new JPEG metadata reader.
func New() *Reader {
	return &Reader{}
}

// Extract parses the JPEG and returns its metadata.
// A JPEG without IPTC yields metadata with an empty IPTC map; bytes
// that are not a JPEG at all return domain.ErrNotJPEG.
func (r *Reader) Extract(data []byte) (*domain.ImageMetadata, error) {
	segments, err := scanSegments(data)
	if err != nil {
		return nil, err
	}

	meta := &domain.ImageMetadata{
		Format: "jpeg",
		IPTC:   make(map[domain.IPTCTag][]string),
	}

	for _, seg := range segments {
		switch {
		case isSOF(seg.marker):
			if width, height, ok := frameSize(seg.data); ok {
				meta.Width = width
				meta.Height = height
			}
		case seg.marker == markerAPP13:
			parseAPP13(seg.data, meta.IPTC)
		}
	}

	return meta, nil
}
