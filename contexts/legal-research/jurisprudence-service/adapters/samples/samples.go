// Package samples serves the jurisprudence bundled with the binary. It backs
// search and document lookups while the backend is degraded and doubles as
// an offline thesaurus.
package samples

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"

	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var defaultSamples []byte

type document struct {
	Items     []itemRecord        `yaml:"items"`
	Documents []detailRecord      `yaml:"documents"`
	Synonyms  map[string][]string `yaml:"synonyms"`
}

type itemRecord struct {
	ID             string   `yaml:"id"`
	Titulo         string   `yaml:"titulo"`
	Ementa         string   `yaml:"ementa"`
	Tribunal       string   `yaml:"tribunal"`
	OrgaoJulgador  string   `yaml:"orgao_julgador"`
	Relator        string   `yaml:"relator"`
	DataJulgamento string   `yaml:"data_julgamento"`
	NumeroProcesso string   `yaml:"numero_processo"`
	Tags           []string `yaml:"tags"`
	Score          *float64 `yaml:"score"`
	TipoDocumento  string   `yaml:"tipo_documento"`
}

type detailRecord struct {
	ID                   string `yaml:"id"`
	DataDisponibilizacao string `yaml:"data_disponibilizacao"`
	OrgaoJulgador        string `yaml:"orgao_julgador"`
	Origem               string `yaml:"origem"`
	Conteudo             string `yaml:"conteudo"`
}

type Dataset struct {
	items     []entities.SearchResultItem
	documents map[string]entities.DocumentPayload
	synonyms  map[string][]string
}

func Default() (*Dataset, error) {
	return Parse(defaultSamples)
}

func Parse(raw []byte) (*Dataset, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode jurisprudence samples: %w", err)
	}

	dataset := &Dataset{
		items:     make([]entities.SearchResultItem, 0, len(doc.Items)),
		documents: make(map[string]entities.DocumentPayload, len(doc.Documents)),
		synonyms:  make(map[string][]string, len(doc.Synonyms)),
	}
	byID := make(map[string]entities.SearchResultItem, len(doc.Items))
	for _, record := range doc.Items {
		id := strings.TrimSpace(record.ID)
		if id == "" {
			return nil, fmt.Errorf("jurisprudence samples: item without id")
		}
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("jurisprudence samples: duplicate item %q", id)
		}
		item := entities.SearchResultItem{
			ID:             entities.ID(id),
			Titulo:         record.Titulo,
			Ementa:         entities.Text(record.Ementa),
			Tribunal:       entities.Court{Name: record.Tribunal},
			OrgaoJulgador:  record.OrgaoJulgador,
			Relator:        record.Relator,
			DataJulgamento: record.DataJulgamento,
			NumeroProcesso: record.NumeroProcesso,
			Tags:           append([]string{}, record.Tags...),
			Score:          record.Score,
			TipoDocumento:  record.TipoDocumento,
		}
		byID[id] = item
		dataset.items = append(dataset.items, item)
	}

	for _, record := range doc.Documents {
		id := strings.TrimSpace(record.ID)
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("jurisprudence samples: document %q has no matching item", id)
		}
		orgao := record.OrgaoJulgador
		if orgao == "" {
			orgao = item.OrgaoJulgador
		}
		dataset.documents[id] = entities.DocumentPayload{
			ID:                   item.ID,
			DocumentType:         item.TipoDocumento,
			Titulo:               item.Titulo,
			Ementa:               item.Ementa,
			Tribunal:             item.Tribunal,
			Relator:              item.Relator,
			DataJulgamento:       item.DataJulgamento,
			DataDisponibilizacao: record.DataDisponibilizacao,
			NumeroProcesso:       item.NumeroProcesso,
			OrgaoJulgador:        orgao,
			Origem:               record.Origem,
			Tags:                 append([]string{}, item.Tags...),
			Conteudo:             entities.Text(strings.TrimSpace(record.Conteudo)),
			Source:               entities.SourceSample,
		}
	}

	for key, terms := range doc.Synonyms {
		dataset.synonyms[strings.ToLower(strings.TrimSpace(key))] = append([]string(nil), terms...)
	}
	return dataset, nil
}

// SearchSamples returns the items matching query in bundle order.
func (d *Dataset) SearchSamples(query string) []entities.SearchResultItem {
	out := make([]entities.SearchResultItem, 0, len(d.items))
	for _, item := range d.items {
		if item.Matches(query) {
			item.Tags = append([]string{}, item.Tags...)
			out = append(out, item)
		}
	}
	return out
}

func (d *Dataset) SampleDocument(id string) (entities.DocumentPayload, bool) {
	document, ok := d.documents[strings.TrimSpace(id)]
	if !ok {
		return entities.DocumentPayload{}, false
	}
	document.Tags = append([]string{}, document.Tags...)
	return document, true
}

// GenerateSynonyms looks up every word of text in the bundled thesaurus.
func (d *Dataset) GenerateSynonyms(_ context.Context, text string) ([]string, error) {
	key := strings.ToLower(strings.TrimSpace(text))
	if terms, ok := d.synonyms[key]; ok {
		return append([]string(nil), terms...), nil
	}
	var out []string
	for _, word := range strings.Fields(key) {
		out = append(out, d.synonyms[word]...)
	}
	return out, nil
}
