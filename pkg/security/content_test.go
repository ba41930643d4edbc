package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	pngHead  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifHead  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	pdfHead  = []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")
	peHead   = append([]byte("MZ\x90\x00\x03\x00\x00\x00"), make([]byte, 64)...)
)

func TestValidateFileContent(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		head     []byte
		wantErr  string
	}{
		{name: "real pdf", declared: MIMEPDF, head: pdfHead},
		{name: "real png", declared: MIMEPNG, head: pngHead},
		{name: "real jpeg", declared: MIMEJPEG, head: jpegHead},
		{name: "real gif", declared: MIMEGIF, head: gifHead},
		{
			name:     "executable renamed to pdf",
			declared: MIMEPDF,
			head:     peHead,
			wantErr:  "Le fichier ne semble pas être un PDF valide",
		},
		{
			name:     "executable declared as image",
			declared: MIMEPNG,
			head:     peHead,
			wantErr:  "Fichier potentiellement dangereux détecté",
		},
		{
			name:     "elf declared as word document",
			declared: MIMEDOCX,
			head:     []byte("\x7fELF\x02\x01\x01\x00"),
			wantErr:  "Fichier potentiellement dangereux détecté",
		},
		{
			name:     "gif declared as png",
			declared: MIMEPNG,
			head:     gifHead,
			wantErr:  "Le contenu du fichier ne correspond pas à son type déclaré",
		},
		{
			name:     "plain text declared as jpeg",
			declared: MIMEJPEG,
			head:     []byte("hello there"),
			wantErr:  "Le contenu du fichier ne correspond pas à son type déclaré",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateFileContent(tt.declared, tt.head)
			if tt.wantErr == "" {
				assert.True(t, res.Valid, res.Error)
				return
			}
			assert.False(t, res.Valid)
			assert.Equal(t, tt.wantErr, res.Error)
		})
	}
}

func TestValidateFileContent_OnlyHeadIsInspected(t *testing.T) {
	data := append(append([]byte{}, pdfHead...), make([]byte, 4096)...)
	copy(data[2000:], "MZ")
	assert.True(t, ValidateFileContent(MIMEPDF, data).Valid)
}

func TestValidateFileContent_MetadataPassesSniffFails(t *testing.T) {
	meta := FileMeta{Name: "cv.pdf", Size: int64(len(peHead)), ContentType: MIMEPDF}
	assert.True(t, ValidateFile(meta, CVPolicy).Valid)
	assert.False(t, ValidateFileContent(meta.ContentType, peHead).Valid)
}
