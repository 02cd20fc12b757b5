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


// Package graph implements the natural-language-to-Cypher retrieval branch.
//
// The pipeline turns a user question into a Cypher query and executes it
// against a Neo4j knowledge graph:
//
//  1. Embed the question and retrieve the most semantically similar
//     question/Cypher example pairs from the example store.
//  2. Assemble a prompt from the graph schema description and the retrieved
//     few-shot examples, and ask an LLM to generate a Cypher query.
//  3. Strip markdown fences from the response and run the query through a
//     QueryExecutor, returning the raw records.
//
// The Neo4jExecutor is the production QueryExecutor. Tests substitute a fake
// executor so the pipeline logic can be exercised without a live database.
package graph
