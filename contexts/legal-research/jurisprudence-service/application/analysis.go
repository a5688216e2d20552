package application

import (
	"context"
	"path/filepath"
	"strings"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"
	"ijus/contexts/legal-research/jurisprudence-service/ports"
)

// AnalyzeDocument extracts search terms from an uploaded petition or decision.
// When extraction or the term model fails, the file name becomes the query.
func (s Service) AnalyzeDocument(ctx context.Context, input ports.AnalyzeInput) (entities.Analysis, error) {
	mode, err := entities.ParseMode(input.Mode)
	if err != nil {
		return entities.Analysis{}, err
	}
	upload := input.Upload
	upload.FileName = filepath.Base(strings.TrimSpace(upload.FileName))
	if err := upload.Validate(); err != nil {
		return entities.Analysis{}, err
	}
	logger := s.logger()

	text := ""
	if s.Extractor != nil {
		extracted, err := s.Extractor.ExtractText(ctx, upload)
		if err != nil {
			logger.Warn("document text extraction failed",
				"event", "jurisprudence_analysis_extract_failed",
				"module", "legal-research/jurisprudence-service",
				"layer", "application",
				"file_name", upload.FileName,
				"error", err.Error(),
			)
		}
		text = entities.TruncateRunes(strings.TrimSpace(extracted), entities.MaxExtractedChars)
	}
	hasText := len([]rune(text)) > entities.MinUsefulTextChars

	analysis := entities.Analysis{
		FileName:         upload.FileName,
		Mode:             mode,
		HasExtractedText: hasText,
	}

	if s.Terms != nil {
		request := ports.TermRequest{
			Mode:        mode,
			FileName:    upload.FileName,
			ContentType: upload.ContentType,
		}
		if hasText {
			request.ExtractedText = text
		}
		terms, err := s.Terms.ExtractTerms(ctx, request)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return entities.Analysis{}, ctxErr
			}
			logger.Warn("term extraction failed",
				"event", "jurisprudence_analysis_terms_failed",
				"module", "legal-research/jurisprudence-service",
				"layer", "application",
				"file_name", upload.FileName,
				"mode", string(mode),
				"error", err.Error(),
			)
		}
		if sanitized := entities.SanitizeTerms(terms); sanitized != "" {
			analysis.Terms = sanitized
			logger.Info("document analyzed",
				"event", "jurisprudence_analysis_completed",
				"module", "legal-research/jurisprudence-service",
				"layer", "application",
				"file_name", upload.FileName,
				"mode", string(mode),
				"has_extracted_text", hasText,
			)
			return analysis, nil
		}
	}

	analysis.Terms = fileNameQuery(upload.FileName)
	analysis.FromFileName = true
	if analysis.Terms == "" {
		return entities.Analysis{}, domainerrors.ErrInvalidInput
	}
	s.observeFallback("analysis")
	return analysis, nil
}

// fileNameQuery turns "peticao_inicial-dano.moral.pdf" into
// "peticao inicial dano moral".
func fileNameQuery(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	return entities.SanitizeTerms(strings.Join(strings.Fields(base), " "))
}
