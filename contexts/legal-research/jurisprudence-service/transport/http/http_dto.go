package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ExpandRequest struct {
	Text string `json:"text"`
}

type ExpandResponse struct {
	Status string `json:"status"`
	Data   struct {
		Query    string `json:"query"`
		Strategy string `json:"strategy"`
	} `json:"data"`
}

// SearchRequest carries the query string parameters of a search.
type SearchRequest struct {
	Query         string
	Tribunal      string
	TipoDocumento string
	Relator       string
	DeData        string
	AteData       string
	OrdenaPor     string
	Size          int
	Expand        bool
}

type SearchResultDTO struct {
	ID               string   `json:"id"`
	Titulo           string   `json:"titulo"`
	Ementa           string   `json:"ementa"`
	Tribunal         string   `json:"tribunal"`
	OrgaoJulgador    string   `json:"orgao_julgador,omitempty"`
	Relator          string   `json:"relator"`
	DataJulgamento   string   `json:"data_julgamento"`
	NumeroProcesso   string   `json:"numero_processo"`
	Tags             []string `json:"tags"`
	Score            *float64 `json:"score,omitempty"`
	RelevancePercent *int     `json:"relevance_percent,omitempty"`
	TipoDocumento    string   `json:"tipo_documento,omitempty"`
}

type FilterOptionDTO struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type DynamicFilterDTO struct {
	Name    string            `json:"name"`
	Options []FilterOptionDTO `json:"options"`
}

type SearchResponse struct {
	Status string `json:"status"`
	Data   struct {
		Query          string             `json:"query"`
		Strategy       string             `json:"strategy"`
		Source         string             `json:"source"`
		Total          int                `json:"total"`
		Results        []SearchResultDTO  `json:"results"`
		DynamicFilters []DynamicFilterDTO `json:"dynamic_filters"`
	} `json:"data"`
}

type DocumentDTO struct {
	ID                   string   `json:"id"`
	DocumentType         string   `json:"document_type"`
	Titulo               string   `json:"titulo"`
	Ementa               string   `json:"ementa"`
	Tribunal             string   `json:"tribunal"`
	Relator              string   `json:"relator"`
	DataJulgamento       string   `json:"data_julgamento"`
	DataDisponibilizacao string   `json:"data_disponibilizacao,omitempty"`
	NumeroProcesso       string   `json:"numero_processo"`
	OrgaoJulgador        string   `json:"orgao_julgador,omitempty"`
	Origem               string   `json:"origem,omitempty"`
	Tags                 []string `json:"tags"`
	Conteudo             string   `json:"conteudo"`
	Source               string   `json:"source"`
}

type DocumentResponse struct {
	Status string      `json:"status"`
	Data   DocumentDTO `json:"data"`
}

// AnalyzeRequest is the decoded multipart form of an analysis upload.
type AnalyzeRequest struct {
	Mode        string
	FileName    string
	ContentType string
	Data        []byte
}

type AnalyzeResponse struct {
	Status string `json:"status"`
	Data   struct {
		ExtractedTerms   string `json:"extracted_terms"`
		FileName         string `json:"file_name"`
		Mode             string `json:"mode"`
		HasExtractedText bool   `json:"has_extracted_text"`
		FromFileName     bool   `json:"from_file_name"`
	} `json:"data"`
}

type CredentialsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Escavador bool `json:"escavador"`
		OpenAI    bool `json:"openai"`
		Gemini    bool `json:"gemini"`
		Ready     bool `json:"ready"`
	} `json:"data"`
}
