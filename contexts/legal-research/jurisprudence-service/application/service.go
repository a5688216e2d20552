package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"
	"ijus/contexts/legal-research/jurisprudence-service/ports"

	"golang.org/x/sync/errgroup"
)

const maxSynonyms = 5

type Service struct {
	Backend           ports.DocumentBackend
	QueryGenerator    ports.BooleanQueryGenerator
	Synonyms          ports.SynonymGenerator
	Terms             ports.TermExtractor
	Extractor         ports.TextExtractor
	Samples           ports.SampleSource
	Cache             ports.DocumentCache
	CacheTTL          time.Duration
	Metrics           ports.Metrics
	ProbeConcurrently bool
	PageSize          int
	Logger            *slog.Logger
}

// ExpandQuery prefers a generated boolean query, then the text OR-joined with
// synonyms, then the text unchanged. Provider failures never surface.
func (s Service) ExpandQuery(ctx context.Context, text string) (entities.Expansion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entities.Expansion{}, domainerrors.ErrInvalidInput
	}
	logger := s.logger()

	if s.QueryGenerator != nil {
		query, err := s.QueryGenerator.GenerateBooleanQuery(ctx, text)
		query = cleanGeneratedQuery(query)
		switch {
		case err != nil:
			logger.Warn("boolean query generation failed",
				"event", "jurisprudence_expand_boolean_failed",
				"module", "legal-research/jurisprudence-service",
				"layer", "application",
				"error", err.Error(),
			)
		case query != "":
			return entities.Expansion{Query: query, Strategy: entities.StrategyBoolean}, nil
		}
	}

	if s.Synonyms != nil {
		synonyms, err := s.Synonyms.GenerateSynonyms(ctx, text)
		if err != nil {
			logger.Warn("synonym generation failed",
				"event", "jurisprudence_expand_synonyms_failed",
				"module", "legal-research/jurisprudence-service",
				"layer", "application",
				"error", err.Error(),
			)
		}
		if terms := filterSynonyms(text, synonyms); len(terms) > 0 {
			return entities.Expansion{
				Query:    text + " OR " + strings.Join(terms, " OR "),
				Strategy: entities.StrategySynonyms,
			}, nil
		}
	}

	return entities.Expansion{Query: text, Strategy: entities.StrategyOriginal}, nil
}

// Search runs one backend lookup. When the backend cannot answer, the bundled
// samples matching the original query are returned instead.
func (s Service) Search(ctx context.Context, input ports.SearchInput) (entities.SearchResult, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" || input.Filters.Size > entities.MaxPageSize {
		return entities.SearchResult{}, domainerrors.ErrInvalidInput
	}
	if s.Backend == nil {
		return entities.SearchResult{}, domainerrors.ErrCredentialsMissing
	}

	expansion := entities.Expansion{Query: query, Strategy: entities.StrategyOriginal}
	if input.Expand {
		expanded, err := s.ExpandQuery(ctx, query)
		if err != nil {
			return entities.SearchResult{}, err
		}
		expansion = expanded
	}

	filters := input.Filters
	if filters.Size <= 0 {
		filters.Size = s.pageSize()
	}

	page, err := s.Backend.Search(ctx, expansion.Query, filters)
	if err != nil {
		if errors.Is(err, domainerrors.ErrCredentialsMissing) {
			return entities.SearchResult{}, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return entities.SearchResult{}, ctxErr
		}
		samples := s.searchSamples(query)
		s.observeFallback("search")
		s.logger().Warn("search backend degraded, serving samples",
			"event", "jurisprudence_search_fallback",
			"module", "legal-research/jurisprudence-service",
			"layer", "application",
			"query", query,
			"samples", len(samples),
			"error", err.Error(),
		)
		return entities.SearchResult{
			Query:          expansion.Query,
			Strategy:       expansion.Strategy,
			Results:        samples,
			DynamicFilters: []entities.DynamicFilter{},
			Total:          len(samples),
			Source:         entities.SourceSample,
		}, nil
	}

	items := page.Items
	if items == nil {
		items = []entities.SearchResultItem{}
	}
	dynamicFilters := page.Filters
	if dynamicFilters == nil {
		dynamicFilters = []entities.DynamicFilter{}
	}
	total := page.Total
	if total < len(items) {
		total = len(items)
	}
	s.logger().Info("search completed",
		"event", "jurisprudence_search_completed",
		"module", "legal-research/jurisprudence-service",
		"layer", "application",
		"strategy", string(expansion.Strategy),
		"results", len(items),
	)
	return entities.SearchResult{
		Query:          expansion.Query,
		Strategy:       expansion.Strategy,
		Results:        items,
		DynamicFilters: dynamicFilters,
		Total:          total,
		Source:         entities.SourceBackend,
	}, nil
}

// ResolveDocument probes the candidate document types for id and returns the
// first success by priority, annotated with the type that worked.
func (s Service) ResolveDocument(ctx context.Context, requestedType string, id string) (entities.DocumentPayload, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.DocumentPayload{}, domainerrors.ErrInvalidInput
	}
	if s.Backend == nil {
		return entities.DocumentPayload{}, domainerrors.ErrCredentialsMissing
	}
	requestedType = strings.ToLower(strings.TrimSpace(requestedType))
	cacheKey := documentCacheKey(requestedType, id)

	if cached, ok := s.cachedDocument(ctx, cacheKey); ok {
		cached.Source = entities.SourceCache
		return cached, nil
	}

	candidates := entities.CandidateTypes(requestedType)
	var outcome probeOutcome
	if s.ProbeConcurrently {
		outcome = s.probeConcurrently(ctx, candidates, id)
	} else {
		outcome = s.probeSequentially(ctx, candidates, id)
	}

	if outcome.found {
		document := outcome.document
		document.DocumentType = outcome.documentType
		document.Source = entities.SourceBackend
		if document.ID == "" {
			document.ID = entities.ID(id)
		}
		s.storeDocument(ctx, cacheKey, document)
		s.logger().Info("document resolved",
			"event", "jurisprudence_document_resolved",
			"module", "legal-research/jurisprudence-service",
			"layer", "application",
			"document_id", id,
			"requested_type", requestedType,
			"document_type", outcome.documentType,
			"attempts", len(outcome.tried),
		)
		return document, nil
	}
	if outcome.fatal != nil {
		return entities.DocumentPayload{}, outcome.fatal
	}

	if s.Samples != nil {
		if sample, ok := s.Samples.SampleDocument(id); ok {
			sample.Source = entities.SourceSample
			s.observeFallback("document")
			s.logger().Warn("document probes exhausted, serving sample",
				"event", "jurisprudence_document_fallback",
				"module", "legal-research/jurisprudence-service",
				"layer", "application",
				"document_id", id,
				"tried", strings.Join(outcome.tried, ","),
				"degraded", outcome.degraded,
			)
			return sample, nil
		}
	}
	return entities.DocumentPayload{}, fmt.Errorf("%w: id %s, tried %s",
		domainerrors.ErrDocumentNotFound, id, strings.Join(outcome.tried, ", "))
}

// DownloadPDF fetches the rendered PDF for a document type already known to
// resolve, or probes when documentType is empty.
func (s Service) DownloadPDF(ctx context.Context, documentType string, id string) (ports.PDFFile, error) {
	id = strings.TrimSpace(id)
	documentType = strings.ToLower(strings.TrimSpace(documentType))
	if id == "" {
		return ports.PDFFile{}, domainerrors.ErrInvalidInput
	}
	if s.Backend == nil {
		return ports.PDFFile{}, domainerrors.ErrCredentialsMissing
	}
	if documentType == "" {
		document, err := s.ResolveDocument(ctx, "", id)
		if err != nil {
			return ports.PDFFile{}, err
		}
		if document.Source == entities.SourceSample {
			return ports.PDFFile{}, fmt.Errorf("%w: no pdf for sample %s", domainerrors.ErrDocumentNotFound, id)
		}
		documentType = document.DocumentType
	}
	file, err := s.Backend.FetchPDF(ctx, documentType, id)
	if err != nil {
		return ports.PDFFile{}, err
	}
	if file.FileName == "" {
		file.FileName = fmt.Sprintf("jurisprudencia-%s.pdf", id)
	}
	if file.ContentType == "" {
		file.ContentType = "application/pdf"
	}
	return file, nil
}

func (s Service) CredentialStatus() ports.CredentialStatus {
	status := ports.CredentialStatus{
		Escavador: s.Backend != nil,
		OpenAI:    s.Terms != nil,
		Gemini:    s.QueryGenerator != nil,
	}
	status.Ready = status.Escavador && status.OpenAI
	return status
}

type probeOutcome struct {
	document     entities.DocumentPayload
	documentType string
	found        bool
	tried        []string
	degraded     bool
	fatal        error
}

type probeResult struct {
	document entities.DocumentPayload
	err      error
	done     bool
}

func (s Service) probeSequentially(ctx context.Context, candidates []string, id string) probeOutcome {
	results := make([]probeResult, len(candidates))
	for i, tag := range candidates {
		document, err := s.Backend.FetchDocument(ctx, tag, id)
		results[i] = probeResult{document: document, err: err, done: true}
		if stopsProbing(ctx, err) {
			break
		}
	}
	return s.settle(ctx, candidates, results)
}

// probeConcurrently issues every candidate lookup at once. The winner is still
// chosen by candidate order.
func (s Service) probeConcurrently(ctx context.Context, candidates []string, id string) probeOutcome {
	results := make([]probeResult, len(candidates))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, tag := range candidates {
		group.Go(func() error {
			document, err := s.Backend.FetchDocument(groupCtx, tag, id)
			results[i] = probeResult{document: document, err: err, done: true}
			if errors.Is(err, domainerrors.ErrCredentialsMissing) {
				return err
			}
			return nil
		})
	}
	_ = group.Wait()
	return s.settle(ctx, candidates, results)
}

// settle walks probe results in priority order applying the sequential rules:
// success wins, not-found and transport failures move on, quota stops.
func (s Service) settle(ctx context.Context, candidates []string, results []probeResult) probeOutcome {
	var outcome probeOutcome
	for i, result := range results {
		if !result.done {
			break
		}
		tag := candidates[i]
		outcome.tried = append(outcome.tried, tag)
		err := result.err
		switch {
		case err == nil:
			s.observeProbe(tag, "found")
			outcome.document = result.document
			outcome.documentType = tag
			outcome.found = true
			return outcome
		case errors.Is(err, domainerrors.ErrCredentialsMissing):
			outcome.fatal = err
			return outcome
		case errors.Is(err, domainerrors.ErrDocumentNotFound):
			s.observeProbe(tag, "not_found")
		case errors.Is(err, domainerrors.ErrQuotaExhausted):
			s.observeProbe(tag, "quota")
			outcome.degraded = true
			return outcome
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				outcome.fatal = ctxErr
				return outcome
			}
			s.observeProbe(tag, "error")
			outcome.degraded = true
			s.logger().Warn("document probe failed",
				"event", "jurisprudence_document_probe_failed",
				"module", "legal-research/jurisprudence-service",
				"layer", "application",
				"document_type", tag,
				"error", err.Error(),
			)
		}
	}
	return outcome
}

func stopsProbing(ctx context.Context, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, domainerrors.ErrQuotaExhausted) || errors.Is(err, domainerrors.ErrCredentialsMissing) {
		return true
	}
	return ctx.Err() != nil
}

func (s Service) searchSamples(query string) []entities.SearchResultItem {
	if s.Samples == nil {
		return []entities.SearchResultItem{}
	}
	items := s.Samples.SearchSamples(query)
	if items == nil {
		return []entities.SearchResultItem{}
	}
	return items
}

func (s Service) cachedDocument(ctx context.Context, key string) (entities.DocumentPayload, bool) {
	if s.Cache == nil {
		return entities.DocumentPayload{}, false
	}
	document, ok, err := s.Cache.GetDocument(ctx, key)
	if err != nil {
		s.logger().Warn("document cache read failed",
			"event", "jurisprudence_cache_read_failed",
			"module", "legal-research/jurisprudence-service",
			"layer", "application",
			"key", key,
			"error", err.Error(),
		)
		return entities.DocumentPayload{}, false
	}
	return document, ok
}

func (s Service) storeDocument(ctx context.Context, key string, document entities.DocumentPayload) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.PutDocument(ctx, key, document, s.cacheTTL()); err != nil {
		s.logger().Warn("document cache write failed",
			"event", "jurisprudence_cache_write_failed",
			"module", "legal-research/jurisprudence-service",
			"layer", "application",
			"key", key,
			"error", err.Error(),
		)
	}
}

func (s Service) observeProbe(documentType string, outcome string) {
	if s.Metrics != nil {
		s.Metrics.ObserveProbe(documentType, outcome)
	}
}

func (s Service) observeFallback(operation string) {
	if s.Metrics != nil {
		s.Metrics.ObserveFallback(operation)
	}
}

func documentCacheKey(requestedType string, id string) string {
	if requestedType == "" {
		requestedType = "_"
	}
	return "jurisprudence:document:" + requestedType + ":" + id
}

// cleanGeneratedQuery keeps the first non-empty line and drops code fences
// models sometimes wrap around the answer.
func cleanGeneratedQuery(query string) string {
	query = strings.TrimSpace(query)
	query = strings.TrimPrefix(query, "```")
	query = strings.TrimSuffix(query, "```")
	for _, line := range strings.Split(query, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && line != "text" {
			return line
		}
	}
	return ""
}

func filterSynonyms(text string, synonyms []string) []string {
	out := make([]string, 0, maxSynonyms)
	seen := map[string]struct{}{strings.ToLower(text): {}}
	for _, synonym := range synonyms {
		synonym = strings.Trim(strings.TrimSpace(synonym), ".\"'")
		key := strings.ToLower(synonym)
		if synonym == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, synonym)
		if len(out) == maxSynonyms {
			break
		}
	}
	return out
}

func (s Service) pageSize() int {
	if s.PageSize <= 0 {
		return entities.DefaultPageSize
	}
	return s.PageSize
}

func (s Service) cacheTTL() time.Duration {
	if s.CacheTTL <= 0 {
		return time.Hour
	}
	return s.CacheTTL
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
