// Package binder decodes HTTP requests into typed structs for pkg/api
// handlers.
//
// Each binder has the signature func(r *http.Request, v any) error and fills
// only the fields it owns:
//
//   - JSON decodes the body strictly (unknown fields and trailing data are
//     errors) up to a size limit.
//   - Path fills `path:"name"` fields from a router extractor such as
//     chi.URLParam.
//   - Query fills `query:"name"` fields from the URL query.
//
// Field types supported by Path and Query: string, bool, the int kinds,
// pointers to those and slices (repeated or comma-separated values).
// Failures wrap one of the sentinel errors in errors.go.
package binder
