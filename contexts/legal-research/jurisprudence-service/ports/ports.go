package ports

import (
	"context"
	"time"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
)

// DocumentBackend is the jurisprudence search API. Implementations translate
// status codes into domain errors: not found, quota exhausted, credentials
// missing, or upstream unavailable for everything else.
type DocumentBackend interface {
	Search(ctx context.Context, query string, filters entities.SearchFilters) (entities.SearchPage, error)
	FetchDocument(ctx context.Context, documentType string, id string) (entities.DocumentPayload, error)
	FetchPDF(ctx context.Context, documentType string, id string) (PDFFile, error)
}

type PDFFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// BooleanQueryGenerator turns a case description into a boolean search
// string.
type BooleanQueryGenerator interface {
	GenerateBooleanQuery(ctx context.Context, text string) (string, error)
}

type SynonymGenerator interface {
	GenerateSynonyms(ctx context.Context, text string) ([]string, error)
}

// TermExtractor reads document text and returns comma separated search terms.
type TermExtractor interface {
	ExtractTerms(ctx context.Context, request TermRequest) (string, error)
}

type TermRequest struct {
	Mode          entities.AnalysisMode
	FileName      string
	ContentType   string
	ExtractedText string
}

type TextExtractor interface {
	ExtractText(ctx context.Context, upload entities.DocumentUpload) (string, error)
}

// SampleSource is the bundled dataset served while the backend is degraded.
type SampleSource interface {
	SearchSamples(query string) []entities.SearchResultItem
	SampleDocument(id string) (entities.DocumentPayload, bool)
}

type DocumentCache interface {
	GetDocument(ctx context.Context, key string) (entities.DocumentPayload, bool, error)
	PutDocument(ctx context.Context, key string, document entities.DocumentPayload, ttl time.Duration) error
}

type Metrics interface {
	ObserveProbe(documentType string, outcome string)
	ObserveFallback(operation string)
}

type CredentialStatus struct {
	Escavador bool `json:"escavador"`
	OpenAI    bool `json:"openai"`
	Gemini    bool `json:"gemini"`
	Ready     bool `json:"ready"`
}

type SearchInput struct {
	Query   string
	Filters entities.SearchFilters
	Expand  bool
}

type AnalyzeInput struct {
	Mode   string
	Upload entities.DocumentUpload
}
