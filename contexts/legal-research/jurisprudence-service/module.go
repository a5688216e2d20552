package jurisprudenceservice

import (
	"log/slog"
	"time"

	httpadapter "ijus/contexts/legal-research/jurisprudence-service/adapters/http"
	"ijus/contexts/legal-research/jurisprudence-service/application"
	"ijus/contexts/legal-research/jurisprudence-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
}

type Dependencies struct {
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

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Backend:           deps.Backend,
		QueryGenerator:    deps.QueryGenerator,
		Synonyms:          deps.Synonyms,
		Terms:             deps.Terms,
		Extractor:         deps.Extractor,
		Samples:           deps.Samples,
		Cache:             deps.Cache,
		CacheTTL:          deps.CacheTTL,
		Metrics:           deps.Metrics,
		ProbeConcurrently: deps.ProbeConcurrently,
		PageSize:          deps.PageSize,
		Logger:            deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}
