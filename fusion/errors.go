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


package fusion

import "errors"

var (
	// ErrEmptyQuestion indicates a search was attempted with a blank question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrInvalidTopK indicates a non-positive vector result count.
	ErrInvalidTopK = errors.New("top-k must be positive")

	// ErrGraphSearcherRequired indicates engine construction without a graph searcher.
	ErrGraphSearcherRequired = errors.New("graph searcher is required")

	// ErrVectorSearcherRequired indicates engine construction without a vector searcher.
	ErrVectorSearcherRequired = errors.New("vector searcher is required")

	// ErrGraphTimeout indicates the graph branch exceeded the search deadline.
	ErrGraphTimeout = errors.New("graph search timed out")

	// ErrVectorTimeout indicates the vector branch exceeded the search deadline.
	ErrVectorTimeout = errors.New("vector search timed out")

	// ErrAllBackendsFailed indicates both retrieval branches failed, leaving
	// no evidence to fuse.
	ErrAllBackendsFailed = errors.New("all retrieval backends failed")
)
