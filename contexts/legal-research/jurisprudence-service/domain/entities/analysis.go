package entities

import (
	"regexp"
	"strings"

	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"
)

const (
	MaxUploadBytes    = 10 << 20
	MaxExtractedChars = 5000
	// MinUsefulTextChars is the shortest extraction worth sending for analysis.
	MinUsefulTextChars = 10
)

type AnalysisMode string

const (
	ModePeticao  AnalysisMode = "peticao"
	ModeSentenca AnalysisMode = "sentenca"
	ModeRaioX    AnalysisMode = "raiox"
)

func ParseMode(raw string) (AnalysisMode, error) {
	switch mode := AnalysisMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case ModePeticao, ModeSentenca, ModeRaioX:
		return mode, nil
	default:
		return "", domainerrors.ErrUnsupportedMode
	}
}

// Activity is the progression action credited for an analysis in this mode.
func (m AnalysisMode) Activity() string {
	switch m {
	case ModePeticao:
		return "petition"
	case ModeSentenca:
		return "sentence"
	default:
		return "raiox"
	}
}

type DocumentUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

type FileKind string

const (
	FileKindPDF  FileKind = "pdf"
	FileKindWord FileKind = "word"
	FileKindText FileKind = "text"
)

// Kind classifies the upload by content type, falling back to the file
// extension when the content type is generic.
func (u DocumentUpload) Kind() (FileKind, error) {
	contentType := strings.ToLower(strings.TrimSpace(u.ContentType))
	name := strings.ToLower(strings.TrimSpace(u.FileName))
	switch {
	case strings.Contains(contentType, "pdf"):
		return FileKindPDF, nil
	case contentType == "application/msword", strings.Contains(contentType, "word"):
		return FileKindWord, nil
	case strings.HasPrefix(contentType, "text/"):
		return FileKindText, nil
	}
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return FileKindPDF, nil
	case strings.HasSuffix(name, ".doc"), strings.HasSuffix(name, ".docx"):
		return FileKindWord, nil
	case strings.HasSuffix(name, ".txt"):
		return FileKindText, nil
	}
	return "", domainerrors.ErrUnsupportedFileType
}

func (u DocumentUpload) Validate() error {
	if strings.TrimSpace(u.FileName) == "" || len(u.Data) == 0 {
		return domainerrors.ErrInvalidInput
	}
	if len(u.Data) > MaxUploadBytes {
		return domainerrors.ErrFileTooLarge
	}
	_, err := u.Kind()
	return err
}

type Analysis struct {
	Terms            string       `json:"terms"`
	FileName         string       `json:"file_name"`
	Mode             AnalysisMode `json:"mode"`
	HasExtractedText bool         `json:"has_extracted_text"`
	FromFileName     bool         `json:"from_file_name"`
}

var regexMeta = regexp.MustCompile(`[*+?^${}()|\[\]\\]`)

// SanitizeTerms removes regex metacharacters the search backend rejects.
func SanitizeTerms(terms string) string {
	return strings.TrimSpace(regexMeta.ReplaceAllString(terms, ""))
}

// TruncateRunes caps text at limit characters.
func TruncateRunes(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
