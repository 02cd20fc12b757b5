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

import "fmt"

// ValidateListing validates a Listing according to domain rules.
//
// Validation rules:
//   - Key must not be empty after normalization
//   - Text must not be empty
//
// NOT validated (populated by processors):
//   - Vector (can be empty until the embedding pass runs)
//   - Metadata (optional source attributes)
func ValidateListing(listing *Listing) error {
	if listing == nil {
		return fmt.Errorf("%w: listing is nil", ErrInvalidListing)
	}

	if NormalizeKey(listing.Key) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyListingKey)
	}

	if listing.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyListingText)
	}

	return nil
}

// ValidateQueryExample validates a QueryExample according to domain rules.
//
// Validation rules:
//   - Question must not be empty
//   - Cypher must not be empty
//
// NOT validated (populated by processors):
//   - Vector (can be empty until embedded)
//   - ID (derived from the question content on store)
func ValidateQueryExample(example *QueryExample) error {
	if example == nil {
		return fmt.Errorf("%w: example is nil", ErrInvalidQueryExample)
	}

	if example.Question == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQueryExample, ErrEmptyQuestion)
	}

	if example.Cypher == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQueryExample, ErrEmptyCypher)
	}

	return nil
}
