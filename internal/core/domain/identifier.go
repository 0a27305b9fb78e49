package domain

import "strings"

// ResolveIdentifier derives the catalogue identifier for an image.
//
// With IDField "folder" the identifier is the path segment at
// FolderIDIndex. Any other IDField is matched against the IPTC field
// table and the first value of the matched tag is used.
//
// A missing identifier is not an error: the empty string is returned
// when the field does not match, the tag is absent, or the metadata
// carries no IPTC block.
func ResolveIdentifier(req *ProcessRequest, meta *ImageMetadata) string {
	if req.IDField == IDFieldFolder {
		if req.FolderIDIndex == nil {
			return ""
		}
		segments := strings.Split(req.Path, "/")
		idx := *req.FolderIDIndex
		if idx < 0 || idx >= len(segments) {
			return ""
		}
		return segments[idx]
	}

	tag := TagForField(req.IDField)
	if tag == -1 {
		return ""
	}

	value, ok := meta.Field(tag)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
