// Package config reads libris settings from the environment.
//
// A dotenv file is loaded first without overriding variables that are
// already set. The resulting Config converts into the per-package configs
// consumed by ai, vectorstore and tracing.
package config
