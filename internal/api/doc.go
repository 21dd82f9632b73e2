// Package api defines transport DTOs and the application facade over the
// matching pipeline, catalog, and search-request lifecycle. It translates
// internal models into JSON-friendly views so CLI and HTTP consumers never
// couple to internal types.
//
// DTOs use camelCase JSON tags. Internal enums are exposed as their stored
// uppercase strings. Timestamps use RFC3339.
package api
