package domain

import "strings"

// IPTCTag is an IPTC IIM application-record dataset number.
type IPTCTag int

// ImageMetadata is the metadata extracted from a source image.
type ImageMetadata struct {
	// Format is the detected image format (currently always "jpeg").
	Format string

	// Width and Height are the pixel dimensions, zero when unknown.
	Width  int
	Height int

	// IPTC holds the application-record datasets. Repeatable tags such
	// as Keywords carry multiple values.
	IPTC map[IPTCTag][]string
}

// Field returns the first value for a tag, and whether it was present.
func (m *ImageMetadata) Field(tag IPTCTag) (string, bool) {
	if m == nil || m.IPTC == nil {
		return "", false
	}
	values, ok := m.IPTC[tag]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// iptcTags maps IPTC application-record dataset numbers to field names.
var iptcTags = map[IPTCTag]string{
	5:   "Object Name",
	7:   "Edit Status",
	8:   "Editorial Update",
	10:  "Urgency",
	12:  "Subject Reference",
	15:  "Category",
	20:  "Supplemental Category",
	22:  "Fixture Identifier",
	25:  "Keywords",
	30:  "Release Date",
	35:  "Release Time",
	40:  "Special Instructions",
	45:  "Reference Service",
	47:  "Reference Date",
	50:  "Reference Number",
	55:  "Created Date",
	60:  "Created Time",
	65:  "Originating Program",
	70:  "Program Version",
	75:  "Object Cycle",
	80:  "Byline",
	85:  "Byline Title",
	90:  "City",
	92:  "Sublocation",
	95:  "State/Province",
	100: "Country Code",
	101: "Country Name",
	103: "Original Transmission Reference",
	105: "Headline",
	110: "Credit",
	115: "Source",
	116: "Copyright Notice",
	118: "Contact",
	120: "Caption",
	121: "Local Caption",
	122: "Writer/Editor",
	130: "Image Type",
	131: "Image Orientation",
	135: "Language Identifier",
	150: "Audio Type",
	151: "Audio Sampling Rate",
	152: "Audio Sampling Resolution",
	153: "Audio Duration",
	154: "Audio Outcue",
	184: "Job Identifier",
	187: "Master Document Identifier",
	188: "Short Document Identifier",
	189: "Unique Document Identifier",
	190: "Owner ID",
	221: "Object Preview Data",
	225: "Classified Indicator",
	230: "Person Shown",
	231: "Location Shown",
	232: "Organization Shown",
	240: "Content Description",
	242: "Data Source",
	255: "Rasterized Caption",
}

// TagName returns the field name for a tag, empty when unknown.
func TagName(tag IPTCTag) string {
	return iptcTags[tag]
}

// TagForField finds the IPTC tag whose field name contains the given
// field, case-insensitively. Returns -1 when no field matches.
// Iteration order is made deterministic by taking the lowest matching tag.
func TagForField(field string) IPTCTag {
	if field == "" {
		return -1
	}
	needle := strings.ToLower(field)

	best := IPTCTag(-1)
	for tag, name := range iptcTags {
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		if best == -1 || tag < best {
			best = tag
		}
	}
	return best
}
