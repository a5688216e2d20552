// Package escavador talks to the Escavador jurisprudence API.
package escavador

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"
	"ijus/contexts/legal-research/jurisprudence-service/ports"
)

const (
	DefaultBaseURL = "https://api.escavador.com"
	maxBodyBytes   = 16 << 20
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type searchResponse struct {
	Items   []entities.SearchResultItem `json:"items"`
	Total   int                         `json:"total"`
	Filtros json.RawMessage             `json:"filtros"`
}

func (c *Client) Search(ctx context.Context, query string, filters entities.SearchFilters) (entities.SearchPage, error) {
	params := url.Values{}
	params.Set("q", query)
	size := filters.Size
	if size <= 0 {
		size = entities.DefaultPageSize
	}
	params.Set("size", strconv.Itoa(size))
	for key, value := range map[string]string{
		"tribunal":       filters.Tribunal,
		"tipo_documento": filters.TipoDocumento,
		"relator":        filters.Relator,
		"de_data":        filters.DeData,
		"ate_data":       filters.AteData,
		"ordena_por":     filters.OrdenaPor,
	} {
		if value = strings.TrimSpace(value); value != "" {
			params.Set(key, value)
		}
	}

	body, _, err := c.get(ctx, "/api/v1/jurisprudencias/busca?"+params.Encode(), "application/json")
	if err != nil {
		return entities.SearchPage{}, err
	}
	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return entities.SearchPage{}, fmt.Errorf("%w: decode search response: %v", domainerrors.ErrUpstreamUnavailable, err)
	}
	items := decoded.Items
	if items == nil {
		items = []entities.SearchResultItem{}
	}
	return entities.SearchPage{
		Items:   items,
		Filters: decodeFilters(decoded.Filtros),
		Total:   decoded.Total,
	}, nil
}

func (c *Client) FetchDocument(ctx context.Context, documentType string, id string) (entities.DocumentPayload, error) {
	path := "/api/v1/jurisprudencias/documento/" + url.PathEscape(documentType) + "/" + url.PathEscape(id)
	body, _, err := c.get(ctx, path, "application/json")
	if err != nil {
		return entities.DocumentPayload{}, err
	}
	document, err := entities.DecodeDocument(body)
	if err != nil {
		return entities.DocumentPayload{}, fmt.Errorf("%w: %v", domainerrors.ErrUpstreamUnavailable, err)
	}
	return document, nil
}

func (c *Client) FetchPDF(ctx context.Context, documentType string, id string) (ports.PDFFile, error) {
	path := "/api/v1/jurisprudencias/documento/pdf/" + url.PathEscape(documentType) + "/" + url.PathEscape(id)
	body, header, err := c.get(ctx, path, "application/pdf")
	if err != nil {
		return ports.PDFFile{}, err
	}
	file := ports.PDFFile{
		ContentType: header.Get("Content-Type"),
		Data:        body,
	}
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil {
		file.FileName = params["filename"]
	}
	return file, nil
}

func (c *Client) get(ctx context.Context, path string, accept string) ([]byte, http.Header, error) {
	if c.apiKey == "" {
		return nil, nil, domainerrors.ErrCredentialsMissing
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build escavador request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept", accept)

	startedAt := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: %v", domainerrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read body: %v", domainerrors.ErrUpstreamUnavailable, err)
	}
	c.logger.Debug("escavador request completed",
		"event", "escavador_request_completed",
		"module", "legal-research/jurisprudence-service",
		"layer", "adapter",
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)
	if err := statusError(resp.StatusCode, body); err != nil {
		return nil, nil, err
	}
	return body, resp.Header, nil
}

func statusError(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return domainerrors.ErrDocumentNotFound
	case status == http.StatusPaymentRequired:
		return domainerrors.ErrQuotaExhausted
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%w: escavador rejected the api key (%d)", domainerrors.ErrCredentialsMissing, status)
	default:
		return fmt.Errorf("%w: escavador status %d: %s", domainerrors.ErrUpstreamUnavailable, status, snippet(body))
	}
}

func snippet(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		return text[:200]
	}
	return text
}

type filterOptionWire struct {
	Valor      string `json:"valor"`
	Value      string `json:"value"`
	Nome       string `json:"nome"`
	Quantidade int    `json:"quantidade"`
	Count      int    `json:"count"`
}

func (o filterOptionWire) option() entities.FilterOption {
	value := o.Valor
	if value == "" {
		value = o.Value
	}
	if value == "" {
		value = o.Nome
	}
	count := o.Quantidade
	if count == 0 {
		count = o.Count
	}
	return entities.FilterOption{Value: value, Count: count}
}

type filterWire struct {
	Nome    string             `json:"nome"`
	Name    string             `json:"name"`
	Opcoes  []filterOptionWire `json:"opcoes"`
	Options []filterOptionWire `json:"options"`
}

// decodeFilters accepts facets either keyed by name or as a list of named
// groups. Unknown shapes yield no filters.
func decodeFilters(raw json.RawMessage) []entities.DynamicFilter {
	out := []entities.DynamicFilter{}
	if len(raw) == 0 || string(raw) == "null" {
		return out
	}

	var keyed map[string][]filterOptionWire
	if err := json.Unmarshal(raw, &keyed); err == nil {
		names := make([]string, 0, len(keyed))
		for name := range keyed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, entities.DynamicFilter{Name: name, Options: options(keyed[name])})
		}
		return out
	}

	var listed []filterWire
	if err := json.Unmarshal(raw, &listed); err == nil {
		for _, group := range listed {
			name := group.Nome
			if name == "" {
				name = group.Name
			}
			opts := group.Opcoes
			if len(opts) == 0 {
				opts = group.Options
			}
			out = append(out, entities.DynamicFilter{Name: name, Options: options(opts)})
		}
	}
	return out
}

func options(items []filterOptionWire) []entities.FilterOption {
	out := make([]entities.FilterOption, 0, len(items))
	for _, item := range items {
		if option := item.option(); option.Value != "" {
			out = append(out, option)
		}
	}
	return out
}
