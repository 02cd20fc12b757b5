// Package vector implements the semantic retrieval branch over the listing
// store. The Searcher embeds a question and runs similarity search against
// stored listing vectors, and also serves exact-key fetches used to backfill
// fusion results for graph hits the similarity search missed.
package vector
