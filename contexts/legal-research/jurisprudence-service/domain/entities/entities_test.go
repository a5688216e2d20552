package entities

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeContentShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"null", `null`, ""},
		{"empty", ``, ""},
		{"string with markup", `"<p>Dano&nbsp;moral</p>"`, "Dano moral"},
		{"conteudo field", `{"conteudo": "<b>Voto</b>"}`, "Voto"},
		{"sections", `{"secoes": ["Relatório", {"conteudo": "Voto"}]}`, "Relatório\n\nVoto"},
		{"other object", `{"a": 1}`, "{\n  \"a\": 1\n}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeContent(json.RawMessage(tc.raw)))
		})
	}
}

func TestIDAndCourtDecoding(t *testing.T) {
	var item SearchResultItem
	require.NoError(t, json.Unmarshal([]byte(`{"id": 11632147, "tribunal": {"nome": "", "sigla": "STJ"}}`), &item))
	assert.Equal(t, ID("11632147"), item.ID)
	assert.Equal(t, "STJ", item.Tribunal.String())

	require.NoError(t, json.Unmarshal([]byte(`{"id": " abc ", "tribunal": "TJSP"}`), &item))
	assert.Equal(t, ID("abc"), item.ID)
	assert.Equal(t, Court{Name: "TJSP"}, item.Tribunal)

	out, err := json.Marshal(Court{Name: "Tribunal de Justiça", Acronym: "TJ"})
	require.NoError(t, err)
	assert.JSONEq(t, `"Tribunal de Justiça"`, string(out))
}

func TestCandidateTypes(t *testing.T) {
	assert.Equal(t, []string{"acordao", "decisoes", "decisao", "sentenca"}, CandidateTypes(" Acordao "))
	assert.Equal(t, []string{"decisoes", "acordao", "decisao", "sentenca"}, CandidateTypes(""))
	assert.Equal(t, []string{"sumula", "decisoes", "acordao", "decisao", "sentenca"}, CandidateTypes("sumula"))
}

func TestDecodeDocumentPrefersFullText(t *testing.T) {
	document, err := DecodeDocument([]byte(`{
		"id": 9,
		"titulo": " Acórdão ",
		"inteiro_teor": "",
		"conteudo_completo": {"secoes": ["A", "B"]},
		"conteudo": "resumo"
	}`))
	require.NoError(t, err)
	assert.Equal(t, ID("9"), document.ID)
	assert.Equal(t, "Acórdão", document.Titulo)
	assert.Equal(t, Text("A\n\nB"), document.Conteudo)
	assert.Equal(t, []string{}, document.Tags)

	_, err = DecodeDocument([]byte(`not json`))
	assert.Error(t, err)
}

func TestRelevancePercent(t *testing.T) {
	score := func(v float64) SearchResultItem { return SearchResultItem{Score: &v} }
	_, ok := SearchResultItem{}.RelevancePercent()
	assert.False(t, ok)

	percent, ok := score(0.876).RelevancePercent()
	assert.True(t, ok)
	assert.Equal(t, 88, percent)

	percent, _ = score(1.4).RelevancePercent()
	assert.Equal(t, 100, percent)
	percent, _ = score(-0.2).RelevancePercent()
	assert.Equal(t, 0, percent)
}

func TestSearchItemToleratesOddScoreAndCourt(t *testing.T) {
	var items []SearchResultItem
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 1, "score": "0.75", "tribunal": 12},
		{"id": 2, "score": "alta", "tribunal": ["STJ"]},
		{"id": 3, "score": {"value": 1}, "tribunal": {"nome": 7, "sigla": "TJSP"}},
		{"id": 4, "score": 0.5, "tribunal": true},
		{"id": 5, "score": null, "tribunal": null}
	]`), &items))
	require.Len(t, items, 5)

	require.NotNil(t, items[0].Score)
	assert.InDelta(t, 0.75, *items[0].Score, 1e-9)
	assert.Equal(t, "12", items[0].Tribunal.String())

	assert.Nil(t, items[1].Score)
	assert.Equal(t, Court{}, items[1].Tribunal)

	assert.Nil(t, items[2].Score)
	assert.Equal(t, Court{Name: "7", Acronym: "TJSP"}, items[2].Tribunal)

	require.NotNil(t, items[3].Score)
	assert.InDelta(t, 0.5, *items[3].Score, 1e-9)
	assert.Equal(t, Court{}, items[3].Tribunal)

	assert.Nil(t, items[4].Score)
	assert.Equal(t, ID("5"), items[4].ID)
}

func TestMatches(t *testing.T) {
	item := SearchResultItem{Titulo: "Responsabilidade Civil", Ementa: "Indenização", Tags: []string{"Dano Moral"}}
	assert.True(t, item.Matches("dano moral"))
	assert.True(t, item.Matches("CIVIL"))
	assert.True(t, item.Matches(" "))
	assert.False(t, item.Matches("tributário"))
}

func TestUploadKindAndValidation(t *testing.T) {
	cases := []struct {
		upload DocumentUpload
		want   FileKind
		err    error
	}{
		{DocumentUpload{FileName: "a.bin", ContentType: "application/pdf", Data: []byte("x")}, FileKindPDF, nil},
		{DocumentUpload{FileName: "a.docx", ContentType: "application/octet-stream", Data: []byte("x")}, FileKindWord, nil},
		{DocumentUpload{FileName: "a", ContentType: "application/msword", Data: []byte("x")}, FileKindWord, nil},
		{DocumentUpload{FileName: "a.txt", Data: []byte("x")}, FileKindText, nil},
		{DocumentUpload{FileName: "a.png", ContentType: "image/png", Data: []byte("x")}, "", domainerrors.ErrUnsupportedFileType},
	}
	for _, tc := range cases {
		kind, err := tc.upload.Kind()
		if !errors.Is(err, tc.err) {
			t.Fatalf("%s: expected %v, got %v", tc.upload.FileName, tc.err, err)
		}
		if kind != tc.want {
			t.Fatalf("%s: expected kind %q, got %q", tc.upload.FileName, tc.want, kind)
		}
	}

	big := DocumentUpload{FileName: "a.pdf", Data: make([]byte, MaxUploadBytes+1)}
	assert.ErrorIs(t, big.Validate(), domainerrors.ErrFileTooLarge)
	assert.ErrorIs(t, DocumentUpload{FileName: "a.pdf"}.Validate(), domainerrors.ErrInvalidInput)
}

func TestParseModeAndActivity(t *testing.T) {
	mode, err := ParseMode(" RaioX ")
	require.NoError(t, err)
	assert.Equal(t, ModeRaioX, mode)
	assert.Equal(t, "raiox", mode.Activity())
	assert.Equal(t, "petition", ModePeticao.Activity())
	assert.Equal(t, "sentence", ModeSentenca.Activity())

	_, err = ParseMode("resumo")
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedMode)
}

func TestSanitizeAndTruncate(t *testing.T) {
	assert.Equal(t, "dano moral, nexo causal", SanitizeTerms(" [dano moral], *nexo causal* "))
	assert.Equal(t, "ação", TruncateRunes("ação civil", 4))
	assert.Equal(t, "", TruncateRunes("x", 0))
	assert.Len(t, []rune(TruncateRunes(strings.Repeat("é", 6000), MaxExtractedChars)), MaxExtractedChars)
}
