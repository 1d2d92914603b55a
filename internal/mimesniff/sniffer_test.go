package mimesniff

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMagic(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"png signature", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "image/png"},
		{"jpeg signature", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, "image/jpeg"},
		{"gif89", []byte("GIF89a...."), "image/gif"},
		{"bmp", []byte("BM......"), "image/bmp"},
		{"webp riff", append([]byte("RIFF\x00\x00\x00\x00"), []byte("WEBP")...), "image/webp"},
		{"avi riff", append([]byte("RIFF\x00\x00\x00\x00"), []byte("AVI ")...), "video/x-msvideo"},
		{"mp4 ftyp", []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}, "video/mp4"},
		{"webm ebml", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x00, 0x00}, "video/webm"},
		{"flv", []byte("FLV\x01...."), "video/x-flv"},
		{"mpeg ps", []byte{0x00, 0x00, 0x01, 0xBA, 0x44}, "video/mpeg"},
		{"realmedia", []byte(".RMF\x00\x00"), "application/vnd.rn-realmedia"},
		{"pdf", []byte("%PDF-1.7\n"), "application/pdf"},
		{"unknown", []byte{0x01, 0x02, 0x03, 0x04, 0x05}, ""},
		{"too short", []byte{0x89}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromMagic(tt.data))
		})
	}
}

func TestFromMagicDeterministic(t *testing.T) {
	sig := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	for i := 0; i < 100; i++ {
		require.Equal(t, "image/png", FromMagic(sig))
	}
}

func buildZip(t *testing.T, entry string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create(entry)
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestClassifyZipOfficeFormats(t *testing.T) {
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		FromMagic(buildZip(t, "word/document.xml")))
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		FromMagic(buildZip(t, "ppt/slides/slide1.xml")))
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		FromMagic(buildZip(t, "xl/workbook.xml")))
	assert.Equal(t, "application/zip", FromMagic(buildZip(t, "plain.txt")))
}

func TestClassifyCompoundOfficeFormats(t *testing.T) {
	ole := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

	doc := append(append([]byte{}, ole...), []byte("....WordDocument....")...)
	assert.Equal(t, "application/msword", FromMagic(doc))

	// stream names are stored UTF-16LE inside real compound files
	var wide []byte
	for _, ch := range []byte("Workbook") {
		wide = append(wide, ch, 0x00)
	}
	xls := append(append([]byte{}, ole...), wide...)
	assert.Equal(t, "application/vnd.ms-excel", FromMagic(xls))

	ppt := append(append([]byte{}, ole...), []byte("..PowerPoint Document..")...)
	assert.Equal(t, "application/vnd.ms-powerpoint", FromMagic(ppt))

	unknown := append(append([]byte{}, ole...), []byte("nothing here")...)
	assert.Equal(t, FallbackBinary, FromMagic(unknown))
}

func TestIdentify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		url         string
		data        []byte
		want        string
	}{
		{"header wins", "application/pdf", "https://x.test/file.bin", nil, "application/pdf"},
		{"header with params", "text/plain; charset=utf-8", "", nil, "text/plain"},
		{"extension fallback", "", "https://x.test/report.docx", nil,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"magic fallback", "", "https://x.test/mystery", []byte("%PDF-1.4"), "application/pdf"},
		{"generic fallback", "", "https://x.test/mystery", []byte{0x00, 0x01, 0x02, 0x03}, FallbackBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Identify(tt.contentType, tt.url, tt.data))
		})
	}
}

func TestIdentifyImage(t *testing.T) {
	assert.Equal(t, "image/png", IdentifyImage("image/png", ""))
	// mismatched header family is rejected, extension decides
	assert.Equal(t, "image/webp", IdentifyImage("text/html", "https://x.test/photo.webp"))
	// nothing usable: family default
	assert.Equal(t, "image/jpeg", IdentifyImage("text/html", "https://x.test/photo"))
	assert.Equal(t, "image/jpeg", IdentifyImage("", ""))
}

func TestIdentifyAudio(t *testing.T) {
	assert.Equal(t, "audio/ogg", IdentifyAudio("audio/ogg", ""))
	assert.Equal(t, "audio/mpeg", IdentifyAudio("application/binary", "https://x.test/song.mp3?sig=abc"))
	assert.Equal(t, FallbackBinary, IdentifyAudio("", "https://x.test/song"))
}
