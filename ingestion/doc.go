// Package ingestion summarizes a directory of documents into a vector store.
//
// For every matching file, in name order, the Pipeline prints the file name,
// loads the page text, asks the chat model for a retrieval summary and adds
// that summary to a freshly created vector store client, tagged with the
// file's source path. Processing is sequential and stops at the first error;
// summaries already written stay written.
package ingestion
