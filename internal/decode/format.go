package decode

import (
	"path/filepath"
	"strings"
)

// Format is the closed set of document kinds the decoder understands.
type Format int

const (
	FormatPlain Format = iota
	FormatPDF
	FormatDOC
	FormatImage
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatDOC:
		return "doc"
	case FormatImage:
		return "image"
	default:
		return "plain"
	}
}

// FormatOf maps a filename to its Format by extension, ignoring case.
// Unknown or missing extensions are plain text.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".doc", ".docx":
		return FormatDOC
	case ".png", ".jpg", ".jpeg":
		return FormatImage
	default:
		return FormatPlain
	}
}
