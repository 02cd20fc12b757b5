package ingest

import "errors"

var (
	// ErrListingRepositoryRequired indicates construction without a listing repository.
	ErrListingRepositoryRequired = errors.New("listing repository is required")

	// ErrExampleRepositoryRequired indicates construction without an example repository.
	ErrExampleRepositoryRequired = errors.New("example repository is required")

	// ErrEmbedderRequired indicates construction without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrMissingColumns indicates an input file without the required header columns.
	ErrMissingColumns = errors.New("input file is missing required columns")
)
