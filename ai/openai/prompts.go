package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/domus/ai"
)

const cypherPromptTemplate = `%s

Below are a few similar examples (retrieved by semantic search):
%s

User question:
%s

Return ONLY a single code block containing a valid Cypher query. Do not include
any explanation, preamble, or text outside the code block.`

const fewShotTemplate = `(Example %d)
Question (semantically similar): %s
Corresponding Cypher query:
%s`

// buildCypherPrompt assembles the full NL-to-Cypher prompt from the schema
// description, retrieved few-shot examples, and the user question.
func buildCypherPrompt(question, schema string, examples []ai.FewShotExample) string {
	shots := make([]string, 0, len(examples))
	for i, ex := range examples {
		shots = append(shots, fmt.Sprintf(fewShotTemplate, i+1, ex.Question, ex.Cypher))
	}
	return fmt.Sprintf(cypherPromptTemplate, schema, strings.Join(shots, "\n\n"), question)
}

const synthesisPromptTemplate = `%s

Input data:
%s

User question:
%s
`

// buildSynthesisPrompt assembles the answer-synthesis prompt from the rule
// text, the structured evidence payload, and the user question.
func buildSynthesisPrompt(question, rule, payload string) string {
	return fmt.Sprintf(synthesisPromptTemplate, rule, payload, question)
}
