package openai

import "ijus/contexts/legal-research/jurisprudence-service/domain/entities"

const synonymSystemPrompt = "Você é um especialista em pesquisa jurídica. Gere até 5 sinônimos ou termos relacionados para expandir a busca jurídica. Responda apenas com uma lista de palavras separadas por vírgula, sem explicações."

const termSafetySuffix = " IMPORTANTE: Não use asteriscos, colchetes ou outros caracteres especiais nos termos. Use apenas letras, números, espaços e vírgulas."

type analysisPrompt struct {
	system string
	task   string
}

var analysisPrompts = map[entities.AnalysisMode]analysisPrompt{
	entities.ModePeticao: {
		system: "Você é um especialista em análise de petições iniciais e contestações. Sua tarefa é extrair os principais argumentos jurídicos e teses apresentadas.",
		task: `Analise este documento jurídico e extraia:
1. Principais teses e argumentos apresentados
2. Termos jurídicos relevantes para pesquisa de jurisprudências
3. Contexto geral do caso
4. Palavras-chave específicas do direito

Retorne uma lista de termos de pesquisa separados por vírgula, focando nos aspectos mais importantes para encontrar jurisprudências relacionadas.
Formato: "termo1, termo2, termo3, etc"

Exemplo: "responsabilidade civil, dano moral, nexo de causalidade, acidente de trabalho"`,
	},
	entities.ModeSentenca: {
		system: "Você é um especialista em análise de sentenças e acórdãos. Sua tarefa é identificar as teses adotadas pelo julgador para encontrar precedentes contrários.",
		task: `Analise esta sentença/acórdão e identifique:
1. Principais fundamentos e teses adotadas pelo julgador
2. Argumentos centrais da decisão
3. Doutrinas e precedentes citados
4. Pontos controvertidos que podem ter entendimentos divergentes

Retorne termos de pesquisa que ajudem a encontrar jurisprudências que questionem ou contradizem as teses adotadas.
Formato: "termo1, termo2, termo3, etc"

Exemplo: "prescrição quinquenal, não incidência, relação de emprego, vínculo trabalhista"`,
	},
	entities.ModeRaioX: {
		system: "Você é um especialista em análise estratégica de petições adversárias. Sua tarefa é identificar as teses do adversário para preparar a defesa.",
		task: `Analise esta petição adversária e identifique:
1. Todas as teses e argumentos apresentados pela parte contrária
2. Fundamentos jurídicos utilizados
3. Precedentes e doutrinas citados
4. Pontos de vulnerabilidade dos argumentos

Retorne termos de pesquisa para encontrar jurisprudências que possam contradizer ou enfraquecer os argumentos adversários.
Formato: "termo1, termo2, termo3, etc"

Exemplo: "culpa exclusiva da vítima, excludente de responsabilidade, ausência de nexo causal"`,
	},
}

var genericAnalysisPrompt = analysisPrompt{
	system: "Você é um especialista em análise de documentos jurídicos.",
	task:   "Analise este documento e extraia os principais termos jurídicos para pesquisa.",
}

func promptFor(mode entities.AnalysisMode) analysisPrompt {
	if prompt, ok := analysisPrompts[mode]; ok {
		return prompt
	}
	return genericAnalysisPrompt
}
