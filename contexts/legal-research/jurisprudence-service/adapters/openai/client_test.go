package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"
	"ijus/contexts/legal-research/jurisprudence-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionServer(t *testing.T, answer string, inspect func(chatRequest)) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if inspect != nil {
			inspect(req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": answer}}},
		})
	}))
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "key", BaseURL: server.URL}, nil)
}

func TestGenerateSynonymsSplitsCommaList(t *testing.T) {
	client := completionServer(t, " recursos humanos, gestão de pessoas ,, departamento pessoal ", func(req chatRequest) {
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, 100, req.MaxTokens)
		assert.InDelta(t, 0.3, req.Temperature, 1e-9)
		if !assert.Len(t, req.Messages, 2) {
			return
		}
		assert.Equal(t, synonymSystemPrompt, req.Messages[0].Content)
		assert.Equal(t, "Gere sinônimos jurídicos para: rh", req.Messages[1].Content)
	})

	synonyms, err := client.GenerateSynonyms(context.Background(), "rh")
	require.NoError(t, err)
	assert.Equal(t, []string{"recursos humanos", "gestão de pessoas", "departamento pessoal"}, synonyms)
}

func TestExtractTermsUsesModePrompt(t *testing.T) {
	client := completionServer(t, "dano moral, nexo causal", func(req chatRequest) {
		assert.Equal(t, 500, req.MaxTokens)
		assert.True(t, strings.HasPrefix(req.Messages[0].Content, analysisPrompts[entities.ModeRaioX].system))
		assert.True(t, strings.HasSuffix(req.Messages[0].Content, termSafetySuffix))
		assert.Contains(t, req.Messages[1].Content, "Nome do arquivo: contestacao.pdf\nTipo: application/pdf")
		assert.Contains(t, req.Messages[1].Content, "Texto extraído do documento:\nculpa exclusiva")
	})

	terms, err := client.ExtractTerms(context.Background(), ports.TermRequest{
		Mode:          entities.ModeRaioX,
		FileName:      "contestacao.pdf",
		ContentType:   "application/pdf",
		ExtractedText: "culpa exclusiva da vítima",
	})
	require.NoError(t, err)
	assert.Equal(t, "dano moral, nexo causal", terms)
}

func TestExtractTermsWithoutTextFallsBackToName(t *testing.T) {
	client := completionServer(t, "x", func(req chatRequest) {
		assert.Contains(t, req.Messages[1].Content, "Não foi possível extrair texto do documento.")
	})
	_, err := client.ExtractTerms(context.Background(), ports.TermRequest{Mode: entities.ModePeticao, FileName: "a.pdf"})
	require.NoError(t, err)
}

func TestUpstreamFailureIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "key", BaseURL: server.URL}, nil)
	_, err := client.GenerateSynonyms(context.Background(), "rh")
	if !errors.Is(err, domainerrors.ErrUpstreamUnavailable) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	_, err = NewClient(Config{}, nil).GenerateSynonyms(context.Background(), "rh")
	if !errors.Is(err, domainerrors.ErrCredentialsMissing) {
		t.Fatalf("expected credentials error, got %v", err)
	}
}
