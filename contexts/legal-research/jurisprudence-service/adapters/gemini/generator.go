// Package gemini converts case descriptions into boolean search strings with
// the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	domainerrors "ijus/contexts/legal-research/jurisprudence-service/domain/errors"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

const booleanSystemPrompt = `Você é um especialista em pesquisa jurídica e sua única função é converter a descrição de um caso ou um termo de busca em uma query de busca booleana avançada e altamente eficiente. Seu objetivo é criar a string de busca mais precisa possível para ser usada em um motor de busca de jurisprudência.

Regras e Operadores Disponíveis:

- AND: Use para garantir que múltiplos termos essenciais estejam presentes.
- OR: Use para agrupar sinônimos ou conceitos alternativos.
- NOT: Use para excluir termos que possam gerar resultados irrelevantes.
- Parênteses (): Use para agrupar expressões e controlar a ordem de prioridade. A lógica dentro dos parênteses é resolvida primeiro.
- Aspas "": Use para buscar uma frase exata. Essencial para termos jurídicos compostos como "dano moral" ou "justa causa".
- Proximidade W/n: Use para encontrar termos que aparecem próximos um do outro (a 'n' palavras de distância). É mais preciso que AND. Use um número pequeno para n, como 5 ou 10. Exemplo: vício W/5 veículo.
- Coringa *: Use no final de um radical para buscar todas as suas variações (plural, conjugações, etc.). Exemplo: contrat* buscará por contrato, contratos, contratual, etc.

Instruções de Saída:

Retorne APENAS a string da query final.
Não inclua explicações, títulos, ou qualquer formatação como json ou markdown. A sua saída deve ser uma única linha de texto pronta para ser enviada a uma API.

Exemplos de Excelência:

Input: "demissão por justa causa por abandono de emprego, mas o funcionário estava de atestado"
Output: ("justa causa" AND demiss*) AND ("abandono de emprego") AND (atestado OR licença W/5 médica) NOT (improcedente)

Input: "vício oculto em carro comprado de concessionária, mas que não seja problema no câmbio"
Output: ("vício oculto" OR "vício redibitório") AND (veículo* OR automóvel*) AND concessionária NOT (câmbio OR transmissão)`

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Generator struct {
	models contentGenerator
	model  string
}

func NewGenerator(ctx context.Context, apiKey string, model string) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, domainerrors.ErrCredentialsMissing
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGenerator(client.Models, model), nil
}

func newGenerator(models contentGenerator, model string) *Generator {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &Generator{models: models, model: model}
}

func (g *Generator) GenerateBooleanQuery(ctx context.Context, text string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(booleanSystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
		MaxOutputTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate: %v", domainerrors.ErrUpstreamUnavailable, err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: gemini returned no response", domainerrors.ErrUpstreamUnavailable)
	}
	return strings.TrimSpace(resp.Text()), nil
}
