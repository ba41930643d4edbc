package security

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEGIF  = "image/gif"

	// MaxFilenameLength is the longest original filename accepted.
	MaxFilenameLength = 255
	// MaxStoredNameLength caps sanitized filenames used in storage keys.
	MaxStoredNameLength = 100

	megabyte = 1024 * 1024
)

// FilePolicy names the limits applied to one kind of attachment.
type FilePolicy struct {
	Name              string
	MaxSizeBytes      int64
	AllowedMIMETypes  []string
	AllowedExtensions []string
}

var (
	// CVPolicy accepts PDF résumés up to 10 MB.
	CVPolicy = FilePolicy{
		Name:              "cv",
		MaxSizeBytes:      10 * megabyte,
		AllowedMIMETypes:  []string{MIMEPDF},
		AllowedExtensions: []string{".pdf"},
	}

	// ContactFilePolicy accepts documents and images up to 5 MB.
	ContactFilePolicy = FilePolicy{
		Name:              "contact",
		MaxSizeBytes:      5 * megabyte,
		AllowedMIMETypes:  []string{MIMEPDF, MIMEDOC, MIMEDOCX, MIMEJPEG, MIMEPNG, MIMEGIF},
		AllowedExtensions: []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png", ".gif"},
	}
)

// PolicyFor returns the attachment policy of a form type ("job" or "contact").
func PolicyFor(formType string) (FilePolicy, bool) {
	switch formType {
	case "job":
		return CVPolicy, true
	case "contact":
		return ContactFilePolicy, true
	default:
		return FilePolicy{}, false
	}
}

// FileMeta is what the client declares about an attachment.
type FileMeta struct {
	Name        string
	Size        int64
	ContentType string
}

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid bool
	Error string
}

func valid() FileValidationResult { return FileValidationResult{Valid: true} }

func invalid(msg string) FileValidationResult { return FileValidationResult{Error: msg} }

// ValidateFile checks declared metadata against policy, stopping at the first
// failure: size, MIME type, extension, then filename length.
func ValidateFile(meta FileMeta, policy FilePolicy) FileValidationResult {
	if meta.Size > policy.MaxSizeBytes {
		maxMB := (policy.MaxSizeBytes + megabyte/2) / megabyte
		return invalid(fmt.Sprintf("Fichier trop volumineux. Taille maximum: %dMB", maxMB))
	}

	if !slices.Contains(policy.AllowedMIMETypes, meta.ContentType) {
		return invalid("Type de fichier non autorisé: " + meta.ContentType)
	}

	ext := Extension(meta.Name)
	if !slices.Contains(policy.AllowedExtensions, ext) {
		return invalid("Extension non autorisée: " + ext)
	}

	if utf8.RuneCountInString(meta.Name) > MaxFilenameLength {
		return invalid(fmt.Sprintf("Nom de fichier trop long (max %d caractères)", MaxFilenameLength))
	}

	return valid()
}

// Extension returns the lowercased suffix after the last dot, dot included.
// A name without a dot yields "." followed by the whole lowercased name.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	return "." + strings.ToLower(name[idx+1:])
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
	repeatedUnderscores = regexp.MustCompile(`_{2,}`)
)

// SanitizeFilename makes name safe for a storage key: every character outside
// [A-Za-z0-9._-] becomes "_", runs of "_" collapse, and the result is capped
// at MaxStoredNameLength bytes.
func SanitizeFilename(name string) string {
	s := unsafeFilenameChars.ReplaceAllString(name, "_")
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	if len(s) > MaxStoredNameLength {
		s = s[:MaxStoredNameLength]
	}
	return s
}
