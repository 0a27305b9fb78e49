package jpeg

import (
	"encoding/binary"

	"github.com/finwatch/findetect/internal/core/domain"
)

// JPEG marker bytes relevant to metadata extraction.
const (
	markerSOI   = 0xD8 // start of image
	markerEOI   = 0xD9 // end of image
	markerSOS   = 0xDA // start of scan, entropy-coded data follows
	markerAPP13 = 0xED // Photoshop IRB, carries IPTC
)

// segment is one marker segment from the JPEG header.
type segment struct {
	marker byte
	data   []byte
}

// scanSegments walks the marker segments up to the start of scan.
// Entropy-coded image data is never parsed; dimensions and IPTC all live
// in the header segments.
func scanSegments(data []byte) ([]segment, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, domain.ErrNotJPEG
	}

	var segments []segment
	pos := 2
	for pos < len(data) {
		// Markers are preceded by one or more fill bytes
		if data[pos] != 0xFF {
			return nil, domain.ErrNotJPEG
		}
		for pos < len(data) && data[pos] == 0xFF {
			pos++
		}
		if pos >= len(data) {
			break
		}

		marker := data[pos]
		pos++

		// Standalone markers carry no payload
		if marker == markerEOI || (marker >= 0xD0 && marker <= 0xD7) {
			if marker == markerEOI {
				break
			}
			continue
		}

		if pos+2 > len(data) {
			return nil, domain.ErrNotJPEG
		}
		length := int(binary.BigEndian.Uint16(data[pos:]))
		if length < 2 || pos+length > len(data) {
			return nil, domain.ErrNotJPEG
		}
		segments = append(segments, segment{
			marker: marker,
			data:   data[pos+2 : pos+length],
		})
		pos += length

		if marker == markerSOS {
			break
		}
	}

	return segments, nil
}

// isSOF reports whether the marker is a start-of-frame carrying the
// image dimensions. C4 (DHT), C8 (JPG) and CC (DAC) share the range but
// are not frames.
func isSOF(marker byte) bool {
	if marker < 0xC0 || marker > 0xCF {
		return false
	}
	switch marker {
	case 0xC4, 0xC8, 0xCC:
		return false
	}
	return true
}

// frameSize extracts height and width from a start-of-frame payload.
func frameSize(data []byte) (width, height int, ok bool) {
	// precision byte, then height and width as big-endian uint16
	if len(data) < 5 {
		return 0, 0, false
	}
	height = int(binary.BigEndian.Uint16(data[1:]))
	width = int(binary.BigEndian.Uint16(data[3:]))
	return width, height, true
}
