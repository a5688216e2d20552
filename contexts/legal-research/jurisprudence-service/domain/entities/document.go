package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FallbackDocumentTypes is the probe order tried after the requested type.
var FallbackDocumentTypes = []string{"decisoes", "acordao", "decisao", "sentenca"}

// CandidateTypes lists the document-type tags to probe for a document, in
// priority order and without duplicates.
func CandidateTypes(requested string) []string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	out := make([]string, 0, len(FallbackDocumentTypes)+1)
	seen := make(map[string]struct{}, len(FallbackDocumentTypes)+1)
	add := func(tag string) {
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	add(requested)
	for _, tag := range FallbackDocumentTypes {
		add(tag)
	}
	return out
}

type DocumentPayload struct {
	ID                   ID              `json:"id"`
	DocumentType         string          `json:"document_type"`
	Titulo               string          `json:"titulo"`
	Ementa               Text            `json:"ementa"`
	Tribunal             Court           `json:"tribunal"`
	Relator              string          `json:"relator"`
	DataJulgamento       string          `json:"data_julgamento"`
	DataDisponibilizacao string          `json:"data_disponibilizacao,omitempty"`
	NumeroProcesso       string          `json:"numero_processo"`
	OrgaoJulgador        string          `json:"orgao_julgador,omitempty"`
	Origem               string          `json:"origem,omitempty"`
	Tags                 []string        `json:"tags"`
	Conteudo             Text            `json:"conteudo"`
	Source               ResultSource    `json:"source"`
	Raw                  json.RawMessage `json:"raw,omitempty"`
}

type documentWire struct {
	ID                   ID              `json:"id"`
	Titulo               string          `json:"titulo"`
	Ementa               Text            `json:"ementa"`
	Tribunal             Court           `json:"tribunal"`
	Relator              string          `json:"relator"`
	DataJulgamento       string          `json:"data_julgamento"`
	DataDisponibilizacao string          `json:"data_disponibilizacao"`
	NumeroProcesso       string          `json:"numero_processo"`
	OrgaoJulgador        string          `json:"orgao_julgador"`
	Origem               string          `json:"origem"`
	Tags                 []string        `json:"tags"`
	TipoDocumento        string          `json:"tipo_documento"`
	InteiroTeor          json.RawMessage `json:"inteiro_teor"`
	ConteudoCompleto     json.RawMessage `json:"conteudo_completo"`
	Decisao              json.RawMessage `json:"decisao"`
	Conteudo             json.RawMessage `json:"conteudo"`
}

// DecodeDocument normalizes a backend document body. The full text is taken
// from the first non-empty of inteiro_teor, conteudo_completo, decisao and
// conteudo.
func DecodeDocument(raw []byte) (DocumentPayload, error) {
	var wire documentWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return DocumentPayload{}, fmt.Errorf("decode document: %w", err)
	}
	content := ""
	for _, candidate := range []json.RawMessage{wire.InteiroTeor, wire.ConteudoCompleto, wire.Decisao, wire.Conteudo} {
		if text := strings.TrimSpace(NormalizeContent(candidate)); text != "" {
			content = text
			break
		}
	}
	tags := wire.Tags
	if tags == nil {
		tags = []string{}
	}
	return DocumentPayload{
		ID:                   wire.ID,
		DocumentType:         strings.TrimSpace(wire.TipoDocumento),
		Titulo:               strings.TrimSpace(wire.Titulo),
		Ementa:               wire.Ementa,
		Tribunal:             wire.Tribunal,
		Relator:              strings.TrimSpace(wire.Relator),
		DataJulgamento:       wire.DataJulgamento,
		DataDisponibilizacao: wire.DataDisponibilizacao,
		NumeroProcesso:       wire.NumeroProcesso,
		OrgaoJulgador:        wire.OrgaoJulgador,
		Origem:               wire.Origem,
		Tags:                 tags,
		Conteudo:             Text(content),
		Raw:                  append(json.RawMessage(nil), raw...),
	}, nil
}
