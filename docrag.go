// Package docrag provides a retrieval-augmented generation pipeline for
// documentation sites. It crawls documentation pages, splits them into
// token-bounded chunks, embeds the chunks, stores them in a vector index,
// and answers natural language questions grounded in the retrieved chunks.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, gemini/, trafilatura/).
package docrag
