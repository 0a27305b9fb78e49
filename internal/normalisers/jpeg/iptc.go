package jpeg

import (
	"bytes"
	"encoding/binary"

	"github.com/finwatch/findetect/internal/core/domain"
)

// photoshopHeader prefixes APP13 segments written by Photoshop-family
// tools. The IPTC IIM stream lives inside an image resource block.
var photoshopHeader = []byte("Photoshop 3.0\x00")

// iptcResourceID is the image resource holding the IPTC-NAA record.
const iptcResourceID = 0x0404

// resourceSignature marks each image resource block.
var resourceSignature = []byte("8BIM")

// parseAPP13 extracts IPTC datasets from one APP13 segment and merges
// them into dst. Segments without the Photoshop header or without an
// IPTC resource are ignored.
func parseAPP13(data []byte, dst map[domain.IPTCTag][]string) {
	if !bytes.HasPrefix(data, photoshopHeader) {
		return
	}
	pos := len(photoshopHeader)

	for pos+4 <= len(data) {
		if !bytes.Equal(data[pos:pos+4], resourceSignature) {
			return
		}
		pos += 4

		if pos+2 > len(data) {
			return
		}
		resourceID := binary.BigEndian.Uint16(data[pos:])
		pos += 2

		// Pascal name, padded so name length byte + name is even
		if pos >= len(data) {
			return
		}
		nameLen := int(data[pos])
		nameBytes := 1 + nameLen
		if nameBytes%2 != 0 {
			nameBytes++
		}
		pos += nameBytes

		if pos+4 > len(data) {
			return
		}
		size := int(binary.BigEndian.Uint32(data[pos:]))
		pos += 4
		if pos+size > len(data) {
			return
		}

		if resourceID == iptcResourceID {
			parseIIM(data[pos:pos+size], dst)
		}

		// Resource data is padded to even length
		pos += size
		if size%2 != 0 {
			pos++
		}
	}
}

// parseIIM walks an IPTC IIM stream, collecting application-record
// (record 2) datasets into dst keyed by dataset number.
func parseIIM(data []byte, dst map[domain.IPTCTag][]string) {
	pos := 0
	for pos+5 <= len(data) {
		if data[pos] != 0x1C {
			// Out of sync; IPTC writers occasionally pad with zeros
			pos++
			continue
		}
		record := data[pos+1]
		dataset := data[pos+2]
		length := int(binary.BigEndian.Uint16(data[pos+3:]))
		pos += 5

		if length&0x8000 != 0 {
			// Extended dataset: the low 15 bits count the length bytes
			countLen := length & 0x7FFF
			if pos+countLen > len(data) || countLen > 4 {
				return
			}
			length = 0
			for _, b := range data[pos : pos+countLen] {
				length = length<<8 | int(b)
			}
			pos += countLen
		}

		if pos+length > len(data) {
			return
		}
		if record == 2 {
			tag := domain.IPTCTag(dataset)
			value := string(data[pos : pos+length])
			dst[tag] = append(dst[tag], value)
		}
		pos += length
	}
}
