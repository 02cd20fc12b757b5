package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NormalizeKey converts a raw identifier value to its canonical form: the text
// representation with surrounding whitespace removed. An empty result means the
// value carries no usable identifier. Every component that compares listing
// identifiers must go through this function; the graph side, the vector side,
// and fetch-by-key lookups all normalize the same way.
func NormalizeKey(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

// Candidate is a retrievable text unit flowing through the fusion pipeline.
// Key is the normalized listing identifier; it may be empty, in which case the
// candidate can never participate in identifier-based matching. Score is the
// raw similarity value reported by the vector backend (not guaranteed to be
// normalized to [0,1]). Attributes is an open map that the confidence scorer
// annotates with diagnostic fields.
type Candidate struct {
	Key        string
	Text       string
	Score      float64
	Attributes map[string]any
}

// GraphRecord is an attribute map returned by the graph backend for a single
// matched entity. Records that represent fusable listings expose an "id" field.
type GraphRecord map[string]any

// Key returns the record's normalized listing identifier, or "" if the record
// carries none.
func (r GraphRecord) Key() string {
	return NormalizeKey(r["id"])
}

// Listing is a stored real-estate listing: the retrievable text, its embedding
// vector, and the source attributes carried along for synthesis and debugging.
type Listing struct {
	Key        string
	Text       string
	Vector     []float32
	Metadata   map[string]string
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Candidate converts the listing into a fusion candidate with the given
// similarity score.
func (l *Listing) Candidate(score float64) Candidate {
	attrs := make(map[string]any, len(l.Metadata))
	for k, v := range l.Metadata {
		attrs[k] = v
	}
	return Candidate{
		Key:        NormalizeKey(l.Key),
		Text:       l.Text,
		Score:      score,
		Attributes: attrs,
	}
}

// QueryExample is a stored natural-language question paired with the Cypher
// query that answers it. Examples are retrieved by semantic similarity to
// build few-shot prompts for query generation.
type QueryExample struct {
	Id         ID
	Question   string
	Cypher     string
	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// ListingMatch is a listing returned from vector similarity search.
type ListingMatch struct {
	Listing *Listing
	Score   float32
}

// ExampleMatch is a query example returned from vector similarity search.
type ExampleMatch struct {
	Example *QueryExample
	Score   float32
}
