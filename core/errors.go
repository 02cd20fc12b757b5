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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidListing indicates a Listing failed validation.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrInvalidQueryExample indicates a QueryExample failed validation.
	ErrInvalidQueryExample = errors.New("invalid query example")

	// ErrEmptyListingKey indicates the listing Key field is empty after normalization.
	ErrEmptyListingKey = errors.New("listing key cannot be empty")

	// ErrEmptyListingText indicates the listing Text field is empty.
	ErrEmptyListingText = errors.New("listing text cannot be empty")

	// ErrEmptyQuestion indicates the example Question field is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrEmptyCypher indicates the example Cypher field is empty.
	ErrEmptyCypher = errors.New("cypher cannot be empty")
)
