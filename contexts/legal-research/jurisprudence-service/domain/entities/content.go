package entities

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripHTML drops markup tags and non-breaking space entities.
func StripHTML(text string) string {
	if text == "" {
		return ""
	}
	return strings.ReplaceAll(htmlTag.ReplaceAllString(text, ""), "&nbsp;", " ")
}

// NormalizeContent flattens the shapes the backend uses for long text into
// plain text. Strings pass through, objects yield their "conteudo" field or
// their "secoes" joined by blank lines, and anything else is rendered as
// indented JSON.
func NormalizeContent(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return StripHTML(string(raw))
	}
	return StripHTML(contentString(value))
}

func contentString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if text, ok := v["conteudo"].(string); ok {
			return text
		}
		if sections, ok := v["secoes"].([]any); ok {
			parts := make([]string, 0, len(sections))
			for _, section := range sections {
				parts = append(parts, contentString(section))
			}
			return strings.Join(parts, "\n\n")
		}
	}
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return ""
	}
	return string(out)
}

// Text is backend prose normalized to plain text while decoding.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text(NormalizeContent(data))
	return nil
}

// ID accepts both numeric and string identifiers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Court is the judging court. The backend sends either a bare name or an
// object with name and acronym. Numbers are kept as the name; other shapes
// decode to an empty court.
type Court struct {
	Name    string
	Acronym string
}

func (c Court) String() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Acronym
}

func (c Court) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Court) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = Court{}
		return nil
	case data[0] == '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = Court{Name: strings.TrimSpace(name)}
		return nil
	case data[0] == '{':
		var obj struct {
			Nome  json.RawMessage `json:"nome"`
			Sigla json.RawMessage `json:"sigla"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*c = Court{Name: looseString(obj.Nome), Acronym: looseString(obj.Sigla)}
		return nil
	}
	*c = Court{Name: looseString(data)}
	return nil
}

// looseString renders a scalar JSON value as trimmed text. Objects, arrays
// and null yield "".
func looseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '{', '[', 'n', 't', 'f':
		return ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}
