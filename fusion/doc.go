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


// Package fusion implements the hybrid retrieval fusion engine.
//
// The engine dispatches a graph search and a vector search concurrently for
// each question, joins both results, and selects a bounded candidate list
// under a three-tier priority policy:
//
//  1. Overlap: ids present in both branches, taken in graph order.
//  2. Backfill: graph ids missing from the ranked vector result, fetched by
//     exact key from the document store.
//  3. Fallback: remaining slots filled from the vector ranking, including
//     candidates without an id.
//
// Selected candidates are annotated with a reproducible confidence score
// combining semantic similarity, graph-match hop distance, and graph record
// richness, then reranked by descending confidence.
//
// Branch failures are isolated: a single failing backend degrades the result
// to the surviving branch's evidence and is reported on the Result, not as a
// call error. Only when both branches fail does Search return an error.
package fusion
