package security

import (
	"bytes"

	"github.com/gabriel-vasile/mimetype"
)

// ContentSniffBytes is how much of a file the content check looks at.
const ContentSniffBytes = 1024

var (
	pdfSignature = []byte("%PDF")

	// Windows PE and ELF executables
	dangerousSignatures = [][]byte{
		{0x4D, 0x5A},
		{0x7F, 0x45, 0x4C, 0x46},
	}

	// declared type -> MIME that the detected type (or one of its parents) must match
	contentFamilies = map[string]string{
		MIMEJPEG: "image/jpeg",
		MIMEPNG:  "image/png",
		MIMEGIF:  "image/gif",
		MIMEDOC:  "application/x-ole-storage",
		MIMEDOCX: "application/zip",
	}
)

// ValidateFileContent inspects the first ContentSniffBytes of a file. A file
// declared as PDF must carry the %PDF magic, executables are always rejected,
// and images or Word documents must look like what they claim to be.
func ValidateFileContent(declaredType string, head []byte) FileValidationResult {
	if len(head) > ContentSniffBytes {
		head = head[:ContentSniffBytes]
	}

	if declaredType == MIMEPDF && !bytes.HasPrefix(head, pdfSignature) {
		return invalid("Le fichier ne semble pas être un PDF valide")
	}

	for _, sig := range dangerousSignatures {
		if bytes.HasPrefix(head, sig) {
			return invalid("Fichier potentiellement dangereux détecté")
		}
	}

	if family, ok := contentFamilies[declaredType]; ok {
		if !inFamily(mimetype.Detect(head), family) {
			return invalid("Le contenu du fichier ne correspond pas à son type déclaré")
		}
	}

	return valid()
}

func inFamily(detected *mimetype.MIME, family string) bool {
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(family) {
			return true
		}
	}
	return false
}
