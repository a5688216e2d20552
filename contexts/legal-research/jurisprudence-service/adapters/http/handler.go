package httpadapter

import (
	"context"
	"log/slog"

	"ijus/contexts/legal-research/jurisprudence-service/application"
	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
	"ijus/contexts/legal-research/jurisprudence-service/ports"
	httptransport "ijus/contexts/legal-research/jurisprudence-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ExpandHandler(ctx context.Context, req httptransport.ExpandRequest) (httptransport.ExpandResponse, error) {
	expansion, err := h.Service.ExpandQuery(ctx, req.Text)
	if err != nil {
		return httptransport.ExpandResponse{}, err
	}
	resp := httptransport.ExpandResponse{Status: "success"}
	resp.Data.Query = expansion.Query
	resp.Data.Strategy = string(expansion.Strategy)
	return resp, nil
}

func (h Handler) SearchHandler(ctx context.Context, req httptransport.SearchRequest) (httptransport.SearchResponse, error) {
	result, err := h.Service.Search(ctx, ports.SearchInput{
		Query: req.Query,
		Filters: entities.SearchFilters{
			Tribunal:      req.Tribunal,
			TipoDocumento: req.TipoDocumento,
			Relator:       req.Relator,
			DeData:        req.DeData,
			AteData:       req.AteData,
			OrdenaPor:     req.OrdenaPor,
			Size:          req.Size,
		},
		Expand: req.Expand,
	})
	if err != nil {
		return httptransport.SearchResponse{}, err
	}

	resp := httptransport.SearchResponse{Status: "success"}
	resp.Data.Query = result.Query
	resp.Data.Strategy = string(result.Strategy)
	resp.Data.Source = string(result.Source)
	resp.Data.Total = result.Total
	resp.Data.Results = make([]httptransport.SearchResultDTO, 0, len(result.Results))
	for _, item := range result.Results {
		dto := httptransport.SearchResultDTO{
			ID:             string(item.ID),
			Titulo:         item.Titulo,
			Ementa:         string(item.Ementa),
			Tribunal:       item.Tribunal.String(),
			OrgaoJulgador:  item.OrgaoJulgador,
			Relator:        item.Relator,
			DataJulgamento: item.DataJulgamento,
			NumeroProcesso: item.NumeroProcesso,
			Tags:           nonNil(item.Tags),
			Score:          item.Score,
			TipoDocumento:  item.TipoDocumento,
		}
		if percent, ok := item.RelevancePercent(); ok {
			dto.RelevancePercent = &percent
		}
		resp.Data.Results = append(resp.Data.Results, dto)
	}
	resp.Data.DynamicFilters = make([]httptransport.DynamicFilterDTO, 0, len(result.DynamicFilters))
	for _, filter := range result.DynamicFilters {
		dto := httptransport.DynamicFilterDTO{
			Name:    filter.Name,
			Options: make([]httptransport.FilterOptionDTO, 0, len(filter.Options)),
		}
		for _, option := range filter.Options {
			dto.Options = append(dto.Options, httptransport.FilterOptionDTO{Value: option.Value, Count: option.Count})
		}
		resp.Data.DynamicFilters = append(resp.Data.DynamicFilters, dto)
	}
	return resp, nil
}

func (h Handler) GetDocumentHandler(ctx context.Context, documentType string, id string) (httptransport.DocumentResponse, error) {
	document, err := h.Service.ResolveDocument(ctx, documentType, id)
	if err != nil {
		return httptransport.DocumentResponse{}, err
	}
	return httptransport.DocumentResponse{
		Status: "success",
		Data: httptransport.DocumentDTO{
			ID:                   string(document.ID),
			DocumentType:         document.DocumentType,
			Titulo:               document.Titulo,
			Ementa:               string(document.Ementa),
			Tribunal:             document.Tribunal.String(),
			Relator:              document.Relator,
			DataJulgamento:       document.DataJulgamento,
			DataDisponibilizacao: document.DataDisponibilizacao,
			NumeroProcesso:       document.NumeroProcesso,
			OrgaoJulgador:        document.OrgaoJulgador,
			Origem:               document.Origem,
			Tags:                 nonNil(document.Tags),
			Conteudo:             string(document.Conteudo),
			Source:               string(document.Source),
		},
	}, nil
}

func (h Handler) DownloadPDFHandler(ctx context.Context, documentType string, id string) (ports.PDFFile, error) {
	return h.Service.DownloadPDF(ctx, documentType, id)
}

func (h Handler) AnalyzeHandler(ctx context.Context, req httptransport.AnalyzeRequest) (httptransport.AnalyzeResponse, error) {
	analysis, err := h.Service.AnalyzeDocument(ctx, ports.AnalyzeInput{
		Mode: req.Mode,
		Upload: entities.DocumentUpload{
			FileName:    req.FileName,
			ContentType: req.ContentType,
			Data:        req.Data,
		},
	})
	if err != nil {
		return httptransport.AnalyzeResponse{}, err
	}
	resp := httptransport.AnalyzeResponse{Status: "success"}
	resp.Data.ExtractedTerms = analysis.Terms
	resp.Data.FileName = analysis.FileName
	resp.Data.Mode = string(analysis.Mode)
	resp.Data.HasExtractedText = analysis.HasExtractedText
	resp.Data.FromFileName = analysis.FromFileName
	return resp, nil
}

func (h Handler) CredentialsHandler(context.Context) httptransport.CredentialsResponse {
	status := h.Service.CredentialStatus()
	resp := httptransport.CredentialsResponse{Status: "success"}
	resp.Data.Escavador = status.Escavador
	resp.Data.OpenAI = status.OpenAI
	resp.Data.Gemini = status.Gemini
	resp.Data.Ready = status.Ready
	return resp
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
