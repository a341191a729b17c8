package domain

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOC  = "application/msword"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MaxResumeBytes is inclusive: a file of exactly this size is accepted.
const MaxResumeBytes int64 = 5 * 1024 * 1024

var ErrSessionNotFound = errors.New("intake session not found")

var allowedMediaTypes = map[string]struct{}{
	MediaTypePDF:  {},
	MediaTypeDOC:  {},
	MediaTypeDOCX: {},
}

var extensionMediaTypes = map[string]string{
	".pdf":  MediaTypePDF,
	".doc":  MediaTypeDOC,
	".docx": MediaTypeDOCX,
}

// CandidateFile carries only the metadata a caller declared for a document.
// The intake path never reads file contents.
type CandidateFile struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	ByteSize  int64  `json:"byte_size"`
}

type RejectionReason string

const (
	RejectionNone            RejectionReason = ""
	RejectionUnsupportedType RejectionReason = "UnsupportedType"
	RejectionTooLarge        RejectionReason = "TooLarge"
)

func (r RejectionReason) Message() string {
	switch r {
	case RejectionUnsupportedType:
		return "Please upload a PDF or Word document."
	case RejectionTooLarge:
		return "File size should be less than 5MB."
	default:
		return ""
	}
}

func AllowedMediaTypes() []string {
	return []string{MediaTypePDF, MediaTypeDOC, MediaTypeDOCX}
}

func IsAllowedMediaType(mediaType string) bool {
	_, ok := allowedMediaTypes[mediaType]
	return ok
}

// MediaTypeForFilename mirrors what a browser puts in File.type for a picked
// file. Unknown extensions fall back to the platform MIME table and may be "".
func MediaTypeForFilename(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if mt, ok := extensionMediaTypes[ext]; ok {
		return mt
	}
	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return ""
	}
	if base, _, err := mime.ParseMediaType(mt); err == nil {
		return base
	}
	return mt
}
