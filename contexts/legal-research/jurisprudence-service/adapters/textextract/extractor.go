// Package textextract pulls plain text out of uploaded PDF, Word and text
// files. Extraction is best effort: unreadable files yield an empty string.
package textextract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"

	"rsc.io/pdf"
)

var (
	unreadable       = regexp.MustCompile(`[^\x20-\x7E\x{00C0}-\x{017F}]`)
	whitespace       = regexp.MustCompile(`\s+`)
	wordNoise        = regexp.MustCompile(`[^\w\s\x{00C0}-\x{017F}.,;:!?()"-]`)
	pdfStringLiteral = regexp.MustCompile(`\(([^()]*)\)`)
	hasLetter        = regexp.MustCompile(`[a-zA-Z\x{00C0}-\x{00FF}]`)
	xmlTag           = regexp.MustCompile(`<[^>]*>`)
	xmlParagraphEnd  = regexp.MustCompile(`</w:p>`)
)

type Extractor struct {
	Logger *slog.Logger
}

func (e Extractor) ExtractText(_ context.Context, upload entities.DocumentUpload) (string, error) {
	kind, err := upload.Kind()
	if err != nil {
		return "", err
	}
	var text string
	switch kind {
	case entities.FileKindPDF:
		text = e.pdfText(upload.Data)
	case entities.FileKindWord:
		text = e.wordText(upload.Data)
	default:
		text = strings.ToValidUTF8(string(upload.Data), " ")
	}
	e.logger().Debug("document text extracted",
		"event", "jurisprudence_text_extracted",
		"module", "legal-research/jurisprudence-service",
		"layer", "adapter",
		"kind", string(kind),
		"chars", len([]rune(text)),
	)
	return strings.TrimSpace(text), nil
}

// pdfText reads the page content streams and falls back to scanning raw
// string literals when the file cannot be parsed.
func (e Extractor) pdfText(data []byte) string {
	text, err := parsePDF(data)
	if err != nil {
		e.logger().Debug("pdf parse failed, scanning raw bytes",
			"event", "jurisprudence_pdf_parse_failed",
			"module", "legal-research/jurisprudence-service",
			"layer", "adapter",
			"error", err.Error(),
		)
	}
	if strings.TrimSpace(text) != "" {
		return text
	}
	return scanPDFLiterals(data)
}

func parsePDF(data []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			text, err = "", fmt.Errorf("pdf reader panic: %v", recovered)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var out strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, run := range page.Content().Text {
			out.WriteString(run.S)
		}
		out.WriteString(" ")
		if out.Len() > entities.MaxExtractedChars*4 {
			break
		}
	}
	return whitespace.ReplaceAllString(out.String(), " "), nil
}

func scanPDFLiterals(data []byte) string {
	raw := strings.ToValidUTF8(string(data), " ")
	matches := pdfStringLiteral.FindAllStringSubmatch(raw, -1)
	parts := make([]string, 0, len(matches))
	for _, match := range matches {
		if len(match[1]) > 2 && hasLetter.MatchString(match[1]) {
			parts = append(parts, match[1])
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return readable(raw)
}

// wordText reads document.xml from .docx archives. Legacy .doc files keep
// only their readable characters.
func (e Extractor) wordText(data []byte) string {
	if text, err := docxText(data); err == nil && text != "" {
		return text
	}
	return wordNoise.ReplaceAllString(readable(strings.ToValidUTF8(string(data), " ")), "")
}

func docxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	for _, file := range archive.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		body, err := io.ReadAll(io.LimitReader(rc, entities.MaxUploadBytes))
		if err != nil {
			return "", err
		}
		xml := xmlParagraphEnd.ReplaceAllString(string(body), " ")
		xml = xmlTag.ReplaceAllString(xml, "")
		return strings.TrimSpace(whitespace.ReplaceAllString(unescapeXML(xml), " ")), nil
	}
	return "", fmt.Errorf("docx without word/document.xml")
}

func unescapeXML(text string) string {
	return strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'", "&amp;", "&").Replace(text)
}

func readable(text string) string {
	text = unreadable.ReplaceAllString(text, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

func (e Extractor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
