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


package graph

import "errors"

var (
	// ErrEmptyQuestion indicates a search was attempted with a blank question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyCypher indicates the LLM produced no usable Cypher query.
	ErrEmptyCypher = errors.New("generated cypher query is empty")

	// ErrExecutorClosed indicates an operation on a closed executor.
	ErrExecutorClosed = errors.New("graph executor is closed")

	// ErrEmbedderRequired indicates pipeline construction without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrGeneratorRequired indicates pipeline construction without a Cypher generator.
	ErrGeneratorRequired = errors.New("cypher generator is required")

	// ErrExecutorRequired indicates pipeline construction without a query executor.
	ErrExecutorRequired = errors.New("query executor is required")

	// ErrExamplesRequired indicates pipeline construction without an example repository.
	ErrExamplesRequired = errors.New("example repository is required")
)
