package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/smarttech/storefront/internal/storefront"
)

// sniffLimit is how much of an upload is buffered for content detection.
const sniffLimit = 3072

type allowedType struct {
	mime  string
	label string
}

var allowedTypesByKind = map[storefront.FileType][]allowedType{
	storefront.FileTypeImages: {
		{mime: "image/png", label: "PNG"},
		{mime: "image/jpeg", label: "JPEG"},
		{mime: "image/webp", label: "WebP"},
		{mime: "image/gif", label: "GIF"},
	},
	storefront.FileTypeVideos: {
		{mime: "video/mp4", label: "MP4"},
		{mime: "video/webm", label: "WebM"},
		{mime: "video/quicktime", label: "MOV"},
	},
}

// detect sniffs header and returns the detected type when kind accepts it.
func detect(kind storefront.FileType, header []byte) (*mimetype.MIME, error) {
	mtype := mimetype.Detect(header)
	for _, allowed := range allowedTypesByKind[kind] {
		if mtype.Is(allowed.mime) {
			return mtype, nil
		}
	}
	return nil, fmt.Errorf("%s is not an accepted %s format", mtype.String(), strings.TrimSuffix(string(kind), "s"))
}

func allowedDescription(kind storefront.FileType) string {
	labels := make([]string, 0, len(allowedTypesByKind[kind]))
	for _, allowed := range allowedTypesByKind[kind] {
		labels = append(labels, allowed.label)
	}
	return humanReadableList(labels)
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
