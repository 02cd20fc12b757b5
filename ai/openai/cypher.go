// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/domus/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// CypherGenerator implements ai.CypherGenerator using OpenAI-compatible chat APIs.
type CypherGenerator struct {
	client llms.Model
	logger *slog.Logger
}

// newCypherGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCypherGenerator(config *ai.Config) (*CypherGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &CypherGenerator{
		client: client,
		logger: slog.Default().With("component", "openai-cypher"),
	}, nil
}

// NewCypherGenerator creates a new Cypher generator using the provided configuration.
//
// Returns ai.CypherGenerator interface to enforce abstraction.
func NewCypherGenerator(config *ai.Config) (ai.CypherGenerator, error) {
	return newCypherGenerator(config)
}

// GenerateCypher produces a Cypher query for the question using an LLM.
// The low temperature keeps generation close to the retrieved examples.
func (g *CypherGenerator) GenerateCypher(ctx context.Context, question, schema string, examples []ai.FewShotExample) (string, error) {
	prompt := buildCypherPrompt(question, schema, examples)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.1))
	if err != nil {
		g.logger.Error("failed to generate cypher", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", errors.New("cypher generation returned no choices")
	}

	cypher := CleanCypher(response.Choices[0].Content)
	g.logger.Debug("generated cypher", "cypher", cypher)
	return cypher, nil
}

// CleanCypher strips markdown code fences and surrounding whitespace from an
// LLM response, leaving only the query text.
func CleanCypher(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "```cypher", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}
