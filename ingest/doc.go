// Package ingest builds the retrieval indexes: it embeds listing texts and
// question/Cypher example pairs concurrently and writes them to storage.
// Ingestion is an offline, batch-oriented path; query-time components only
// read what this package writes.
package ingest
