package application_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"ijus/contexts/legal-research/jurisprudence-service/adapters/cache"
	"ijus/contexts/legal-research/jurisprudence-service/adapters/samples"
	"ijus/contexts/legal-research/jurisprudence-service/application"
	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"
	"ijus/contexts/legal-research/jurisprudence-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeBackend struct {
	mu        sync.Mutex
	documents map[string]error
	found     map[string]entities.DocumentPayload
	searchErr error
	page      entities.SearchPage
	calls     []string
	queries   []string
	filters   []entities.SearchFilters
}

func (f *fakeBackend) Search(_ context.Context, query string, filters entities.SearchFilters) (entities.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.filters = append(f.filters, filters)
	if f.searchErr != nil {
		return entities.SearchPage{}, f.searchErr
	}
	return f.page, nil
}

func (f *fakeBackend) FetchDocument(_ context.Context, documentType string, id string) (entities.DocumentPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, documentType)
	if document, ok := f.found[documentType]; ok {
		return document, nil
	}
	if err, ok := f.documents[documentType]; ok {
		return entities.DocumentPayload{}, err
	}
	return entities.DocumentPayload{}, domainerrors.ErrDocumentNotFound
}

func (f *fakeBackend) FetchPDF(_ context.Context, documentType string, id string) (ports.PDFFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "pdf:"+documentType)
	return ports.PDFFile{Data: []byte("%PDF")}, nil
}

func (f *fakeBackend) probed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type stubQueryGenerator struct {
	query string
	err   error
}

func (s stubQueryGenerator) GenerateBooleanQuery(context.Context, string) (string, error) {
	return s.query, s.err
}

type stubSynonyms struct {
	terms []string
	err   error
}

func (s stubSynonyms) GenerateSynonyms(context.Context, string) ([]string, error) {
	return s.terms, s.err
}

type recordingMetrics struct {
	mu        sync.Mutex
	probes    []string
	fallbacks []string
}

func (m *recordingMetrics) ObserveProbe(documentType string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes = append(m.probes, documentType+"="+outcome)
}

func (m *recordingMetrics) ObserveFallback(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbacks = append(m.fallbacks, operation)
}

func newService(t *testing.T, backend *fakeBackend) application.Service {
	t.Helper()
	dataset, err := samples.Default()
	require.NoError(t, err)
	return application.Service{Backend: backend, Samples: dataset}
}

func TestResolveDocumentFallsThroughTypes(t *testing.T) {
	backend := &fakeBackend{
		found: map[string]entities.DocumentPayload{
			"decisoes": {Titulo: "Acórdão"},
		},
	}
	service := newService(t, backend)

	document, err := service.ResolveDocument(context.Background(), "acordao", "777")
	require.NoError(t, err)
	assert.Equal(t, "decisoes", document.DocumentType)
	assert.Equal(t, entities.ID("777"), document.ID)
	assert.Equal(t, entities.SourceBackend, document.Source)
	assert.Equal(t, []string{"acordao", "decisoes"}, backend.probed())
}

func TestResolveDocumentConcurrentKeepsPriority(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeBackend{
		found: map[string]entities.DocumentPayload{
			"decisao":  {Titulo: "later"},
			"sentenca": {Titulo: "last"},
		},
		documents: map[string]error{
			"decisoes": domainerrors.ErrUpstreamUnavailable,
		},
	}
	metrics := &recordingMetrics{}
	service := newService(t, backend)
	service.ProbeConcurrently = true
	service.Metrics = metrics

	document, err := service.ResolveDocument(context.Background(), "", "1")
	require.NoError(t, err)
	assert.Equal(t, "decisao", document.DocumentType)
	assert.Equal(t, "later", document.Titulo)
	assert.ElementsMatch(t, []string{"decisoes", "acordao", "decisao", "sentenca"}, backend.probed())
	assert.Equal(t, []string{"decisoes=error", "acordao=not_found", "decisao=found"}, metrics.probes)
}

func TestResolveDocumentQuotaServesSample(t *testing.T) {
	backend := &fakeBackend{documents: map[string]error{"decisoes": domainerrors.ErrQuotaExhausted}}
	metrics := &recordingMetrics{}
	service := newService(t, backend)
	service.Metrics = metrics

	document, err := service.ResolveDocument(context.Background(), "", "11632147")
	require.NoError(t, err)
	assert.Equal(t, entities.SourceSample, document.Source)
	assert.Equal(t, "decisoes", document.DocumentType)
	assert.NotEmpty(t, document.Conteudo)
	assert.Equal(t, []string{"decisoes"}, backend.probed())
	assert.Equal(t, []string{"document"}, metrics.fallbacks)
}

func TestResolveDocumentUnknownIDIsNotFound(t *testing.T) {
	backend := &fakeBackend{}
	service := newService(t, backend)

	_, err := service.ResolveDocument(context.Background(), "acordao", "999")
	require.ErrorIs(t, err, domainerrors.ErrDocumentNotFound)
	assert.Contains(t, err.Error(), "acordao, decisoes, decisao, sentenca")
	assert.Len(t, backend.probed(), 4)
}

func TestResolveDocumentCredentialsAreFatal(t *testing.T) {
	backend := &fakeBackend{documents: map[string]error{"decisoes": domainerrors.ErrCredentialsMissing}}
	service := newService(t, backend)

	_, err := service.ResolveDocument(context.Background(), "", "11632147")
	require.ErrorIs(t, err, domainerrors.ErrCredentialsMissing)

	_, err = application.Service{}.ResolveDocument(context.Background(), "", "1")
	require.ErrorIs(t, err, domainerrors.ErrCredentialsMissing)
}

func TestResolveDocumentUsesCache(t *testing.T) {
	backend := &fakeBackend{found: map[string]entities.DocumentPayload{"acordao": {Titulo: "cached"}}}
	service := newService(t, backend)
	service.Cache = cache.NewMemory()

	first, err := service.ResolveDocument(context.Background(), "acordao", "5")
	require.NoError(t, err)
	assert.Equal(t, entities.SourceBackend, first.Source)

	second, err := service.ResolveDocument(context.Background(), "acordao", "5")
	require.NoError(t, err)
	assert.Equal(t, entities.SourceCache, second.Source)
	assert.Equal(t, "acordao", second.DocumentType)
	assert.Equal(t, []string{"acordao"}, backend.probed())
}

func TestResolveDocumentAlwaysReturnsPayloadOrNotFound(t *testing.T) {
	failures := []error{
		domainerrors.ErrDocumentNotFound,
		domainerrors.ErrQuotaExhausted,
		domainerrors.ErrUpstreamUnavailable,
		errors.New("connection reset"),
	}
	for _, failure := range failures {
		for _, id := range []string{"11632148", "42"} {
			backend := &fakeBackend{documents: map[string]error{
				"decisoes": failure, "acordao": failure, "decisao": failure, "sentenca": failure,
			}}
			document, err := newService(t, backend).ResolveDocument(context.Background(), "", id)
			if err != nil {
				if !errors.Is(err, domainerrors.ErrDocumentNotFound) {
					t.Fatalf("failure %v id %s: unexpected error %v", failure, id, err)
				}
				continue
			}
			if document.ID == "" || document.Source == "" {
				t.Fatalf("failure %v id %s: empty payload returned", failure, id)
			}
		}
	}
}

func TestSearchFallsBackToSamples(t *testing.T) {
	backend := &fakeBackend{searchErr: domainerrors.ErrQuotaExhausted}
	metrics := &recordingMetrics{}
	service := newService(t, backend)
	service.Metrics = metrics

	result, err := service.Search(context.Background(), ports.SearchInput{
		Query:   "dano moral",
		Filters: entities.SearchFilters{Tribunal: "TJSP"},
	})
	require.NoError(t, err)
	assert.Equal(t, entities.SourceSample, result.Source)
	require.Len(t, result.Results, 1)
	assert.Equal(t, entities.ID("11632150"), result.Results[0].ID)
	assert.NotNil(t, result.DynamicFilters)
	assert.Empty(t, result.DynamicFilters)
	assert.Equal(t, []string{"search"}, metrics.fallbacks)
	assert.Equal(t, entities.DefaultPageSize, backend.filters[0].Size)
}

func TestSearchFallbackOnlyContainsMatches(t *testing.T) {
	for _, query := range []string{"civil", "ICMS", "tutela", "inexistente"} {
		backend := &fakeBackend{searchErr: errors.New("timeout")}
		result, err := newService(t, backend).Search(context.Background(), ports.SearchInput{Query: query})
		require.NoError(t, err)
		for _, item := range result.Results {
			assert.True(t, item.Matches(query), "query %q returned %s", query, item.ID)
		}
	}
}

func TestSearchPassesBackendResults(t *testing.T) {
	backend := &fakeBackend{page: entities.SearchPage{
		Items:   []entities.SearchResultItem{{ID: "2"}, {ID: "1"}},
		Filters: []entities.DynamicFilter{{Name: "tribunal"}},
		Total:   40,
	}}
	service := newService(t, backend)
	service.PageSize = 10
	service.QueryGenerator = stubQueryGenerator{query: "```\n\"dano moral\" AND banco*\n```"}

	result, err := service.Search(context.Background(), ports.SearchInput{Query: "dano moral banco", Expand: true})
	require.NoError(t, err)
	assert.Equal(t, entities.SourceBackend, result.Source)
	assert.Equal(t, entities.StrategyBoolean, result.Strategy)
	assert.Equal(t, []entities.ID{"2", "1"}, []entities.ID{result.Results[0].ID, result.Results[1].ID})
	assert.Equal(t, 40, result.Total)
	assert.Equal(t, []string{`"dano moral" AND banco*`}, backend.queries)
	assert.Equal(t, 10, backend.filters[0].Size)
}

func TestSearchRejectsPageAboveMax(t *testing.T) {
	backend := &fakeBackend{}
	_, err := newService(t, backend).Search(context.Background(), ports.SearchInput{
		Query:   "dano",
		Filters: entities.SearchFilters{Size: entities.MaxPageSize + 1},
	})
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	assert.Empty(t, backend.queries)
}

func TestSearchWithoutBackendIsConfigurationError(t *testing.T) {
	_, err := application.Service{}.Search(context.Background(), ports.SearchInput{Query: "x"})
	require.ErrorIs(t, err, domainerrors.ErrCredentialsMissing)

	backend := &fakeBackend{searchErr: domainerrors.ErrCredentialsMissing}
	_, err = newService(t, backend).Search(context.Background(), ports.SearchInput{Query: "x"})
	require.ErrorIs(t, err, domainerrors.ErrCredentialsMissing)
}

func TestExpandQueryStrategies(t *testing.T) {
	cases := []struct {
		name      string
		generator ports.BooleanQueryGenerator
		synonyms  ports.SynonymGenerator
		want      entities.Expansion
	}{
		{
			name:      "boolean",
			generator: stubQueryGenerator{query: "(rh OR \"recursos humanos\")"},
			want:      entities.Expansion{Query: "(rh OR \"recursos humanos\")", Strategy: entities.StrategyBoolean},
		},
		{
			name:      "synonyms after boolean failure",
			generator: stubQueryGenerator{err: errors.New("quota")},
			synonyms:  stubSynonyms{terms: []string{"recursos humanos", "RH", " recursos humanos ", "gestão de pessoas"}},
			want:      entities.Expansion{Query: "rh OR recursos humanos OR gestão de pessoas", Strategy: entities.StrategySynonyms},
		},
		{
			name:     "synonyms capped at five",
			synonyms: stubSynonyms{terms: []string{"a", "b", "c", "d", "e", "f"}},
			want:     entities.Expansion{Query: "rh OR a OR b OR c OR d OR e", Strategy: entities.StrategySynonyms},
		},
		{
			name:      "everything fails",
			generator: stubQueryGenerator{query: "   "},
			synonyms:  stubSynonyms{err: errors.New("down")},
			want:      entities.Expansion{Query: "rh", Strategy: entities.StrategyOriginal},
		},
		{
			name: "no providers",
			want: entities.Expansion{Query: "rh", Strategy: entities.StrategyOriginal},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := application.Service{QueryGenerator: tc.generator, Synonyms: tc.synonyms}
			got, err := service.ExpandQuery(context.Background(), " rh ")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := application.Service{}.ExpandQuery(context.Background(), "  ")
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestExpandQueryWithThesaurus(t *testing.T) {
	dataset, err := samples.Default()
	require.NoError(t, err)

	got, err := application.Service{Synonyms: dataset}.ExpandQuery(context.Background(), "trabalhista")
	require.NoError(t, err)
	assert.Equal(t, entities.StrategySynonyms, got.Strategy)
	assert.True(t, strings.HasPrefix(got.Query, "trabalhista OR direito do trabalho"))
}

func TestDownloadPDFResolvesType(t *testing.T) {
	backend := &fakeBackend{found: map[string]entities.DocumentPayload{"acordao": {}}}
	service := newService(t, backend)

	file, err := service.DownloadPDF(context.Background(), "", "3")
	require.NoError(t, err)
	assert.Equal(t, "jurisprudencia-3.pdf", file.FileName)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, []string{"decisoes", "acordao", "pdf:acordao"}, backend.probed())

	_, err = newService(t, &fakeBackend{}).DownloadPDF(context.Background(), "", "11632147")
	require.ErrorIs(t, err, domainerrors.ErrDocumentNotFound)
}

func TestCredentialStatus(t *testing.T) {
	status := application.Service{Backend: &fakeBackend{}}.CredentialStatus()
	assert.Equal(t, ports.CredentialStatus{Escavador: true}, status)
}
