// Package eval runs batches of questions through the full question-answering
// pipeline and records the outcomes. It reads questions from a CSV file,
// answers them concurrently on a worker pool, and writes a results CSV. Per-
// question failures are recorded as outcomes, not fatal errors, so one bad
// question never aborts a batch.
package eval
