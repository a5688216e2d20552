package textextract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextPassesThrough(t *testing.T) {
	text, err := Extractor{}.ExtractText(context.Background(), entities.DocumentUpload{
		FileName:    "notas.txt",
		ContentType: "text/plain",
		Data:        []byte("  responsabilidade civil objetiva \n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "responsabilidade civil objetiva", text)
}

func TestBrokenPDFFallsBackToLiterals(t *testing.T) {
	data := []byte("%PDF-1.4\nBT (Dano moral coletivo) Tj (ab) Tj (12) Tj (nexo causal) Tj ET\n")
	text, err := Extractor{}.ExtractText(context.Background(), entities.DocumentUpload{
		FileName:    "peticao.pdf",
		ContentType: "application/pdf",
		Data:        data,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dano moral coletivo nexo causal", text)
}

func TestPDFWithoutLiteralsKeepsReadableBytes(t *testing.T) {
	data := append([]byte("%PDF garbage "), 0x00, 0x01, 'f', 'i', 'm')
	text, err := Extractor{}.ExtractText(context.Background(), entities.DocumentUpload{
		FileName: "x.pdf",
		Data:     data,
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF garbage fim", text)
}

func TestDocxReadsDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	archive := zip.NewWriter(&buf)
	w, err := archive.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Contestação</w:t></w:r></w:p><w:p><w:r><w:t>culpa &amp; nexo</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	text, err := Extractor{}.ExtractText(context.Background(), entities.DocumentUpload{
		FileName:    "contestacao.docx",
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        buf.Bytes(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Contestação culpa & nexo", text)
}

func TestLegacyWordKeepsReadableText(t *testing.T) {
	data := append([]byte{0xD0, 0xCF, 0x11}, []byte("Ação de #cobrança {x}")...)
	text, err := Extractor{}.ExtractText(context.Background(), entities.DocumentUpload{
		FileName:    "antigo.doc",
		ContentType: "application/msword",
		Data:        data,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ação de cobrança x", text)
}

func TestUnsupportedKind(t *testing.T) {
	_, err := Extractor{}.ExtractText(context.Background(), entities.DocumentUpload{FileName: "foto.png", ContentType: "image/png", Data: []byte{1}})
	if !errors.Is(err, domainerrors.ErrUnsupportedFileType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
}
