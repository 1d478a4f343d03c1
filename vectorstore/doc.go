// Package vectorstore provides the vector index backends summaries are
// written to.
//
// Both backends implement langchaingo's vectorstores.VectorStore:
//
//   - Pinecone, through langchaingo's vectorstores/pinecone. The index host is
//     looked up with go-pinecone when it is not configured.
//   - LocalStore, over the BadgerDB summary repository, for development and
//     offline tests.
//
// Pipelines do not hold a store. They take a Factory and ask it for a store
// each time they need to write.
package vectorstore
