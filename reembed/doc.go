// Package reembed regenerates the embedding vectors of stored summaries.
//
// Use it after switching embedding models: every summary in a local
// repository is visited in ID order, its content is embedded again, and
// the normalized vector replaces the old one. Embedding calls are retried
// with exponential backoff and progress is reported to an io.Writer.
package reembed
