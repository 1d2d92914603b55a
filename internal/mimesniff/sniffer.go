// Package mimesniff determines a best-guess media type for fetched content
// using, in priority order, the HTTP Content-Type header, the URL's file
// extension and finally binary magic-number inspection. All functions are
// pure and deterministic.
package mimesniff

import (
	"bytes"
	"mime"
	"net/url"
	"path"
	"strings"
)

// Identify resolves the MIME type of a generic file fetch. The header hint is
// trusted when present; otherwise the URL extension and then the payload's
// magic numbers decide, with application/octet-stream as the last resort.
func Identify(contentType, sourceURL string, data []byte) string {
	if ct := cleanContentType(contentType); ct != "" {
		return ct
	}
	if byExt := fromExtension(sourceURL); byExt != "" {
		return byExt
	}
	if byMagic := FromMagic(data); byMagic != "" {
		return byMagic
	}
	return FallbackBinary
}

// IdentifyImage resolves the MIME type of an image fetch. Header values that
// are not image/* are rejected so a mislabeled upstream cannot poison the
// inline data, and image/jpeg is the family default.
func IdentifyImage(contentType, sourceURL string) string {
	if ct := cleanContentType(contentType); strings.HasPrefix(ct, "image/") {
		return ct
	}
	if byExt := fromExtension(sourceURL); strings.HasPrefix(byExt, "image/") {
		return byExt
	}
	return FallbackImage
}

// IdentifyAudio resolves the MIME type of an audio fetch. A non-audio header
// is rejected; the URL suffix is checked against a small table of common
// audio extensions before giving up to the generic fallback.
func IdentifyAudio(contentType, sourceURL string) string {
	if ct := cleanContentType(contentType); strings.HasPrefix(ct, "audio/") {
		return ct
	}
	if ext := urlExtension(sourceURL); ext != "" {
		if mt, ok := audioExtensions[ext]; ok {
			return mt
		}
	}
	return FallbackBinary
}

// FromMagic inspects the first bytes of a payload against known binary
// signatures. Returns "" when nothing matches.
func FromMagic(data []byte) string {
	if len(data) < 4 {
		return ""
	}

	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "image/bmp"
	case bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	case bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("AVI ")):
		return "video/x-msvideo"
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0x01, 0xBA}) || bytes.HasPrefix(data, []byte{0x00, 0x00, 0x01, 0xB3}):
		return "video/mpeg"
	case len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")):
		return "video/mp4"
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "video/webm"
	case bytes.HasPrefix(data, []byte("FLV")):
		return "video/x-flv"
	case bytes.HasPrefix(data, []byte(".RMF")):
		return "application/vnd.rn-realmedia"
	case bytes.HasPrefix(data, []byte("%PDF")):
		return "application/pdf"
	case bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}):
		return classifyZip(data)
	case bytes.HasPrefix(data, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}):
		return classifyCompound(data)
	}

	return ""
}

// classifyZip distinguishes the Office Open XML formats by locating their
// internal path markers in the archive's entry names, falling back to a
// generic ZIP type when undetermined.
func classifyZip(data []byte) string {
	switch {
	case bytes.Contains(data, []byte("word/")):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case bytes.Contains(data, []byte("ppt/")):
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case bytes.Contains(data, []byte("xl/")):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/zip"
	}
}

// classifyCompound distinguishes legacy Office compound-binary files by their
// stream names. Compound-file stream names are UTF-16LE encoded, so both the
// raw and interleaved forms are checked.
func classifyCompound(data []byte) string {
	switch {
	case containsStreamName(data, "WordDocument"):
		return "application/msword"
	case containsStreamName(data, "Workbook"):
		return "application/vnd.ms-excel"
	case containsStreamName(data, "PowerPoint"):
		return "application/vnd.ms-powerpoint"
	default:
		return FallbackBinary
	}
}

func containsStreamName(data []byte, name string) bool {
	if bytes.Contains(data, []byte(name)) {
		return true
	}
	// UTF-16LE: each ASCII character followed by a zero byte.
	wide := make([]byte, 0, len(name)*2)
	for i := 0; i < len(name); i++ {
		wide = append(wide, name[i], 0x00)
	}
	return bytes.Contains(data, wide)
}

func cleanContentType(contentType string) string {
	ct := strings.TrimSpace(contentType)
	if ct == "" {
		return ""
	}
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return strings.ToLower(ct)
}

func fromExtension(sourceURL string) string {
	ext := urlExtension(sourceURL)
	if ext == "" {
		return ""
	}
	if mt, ok := extensionTypes[ext]; ok {
		return mt
	}
	if mt := mime.TypeByExtension("." + ext); mt != "" {
		return cleanContentType(mt)
	}
	return ""
}

func urlExtension(sourceURL string) string {
	if sourceURL == "" {
		return ""
	}
	p := sourceURL
	if u, err := url.Parse(sourceURL); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	return strings.ToLower(ext)
}
