// Package synthesis turns a fused candidate set into a final natural-language
// answer. It serializes each candidate together with its matched graph
// attributes into a structured evidence payload and hands the payload, the
// synthesis rule, and the original question to a text-generation service.
package synthesis
