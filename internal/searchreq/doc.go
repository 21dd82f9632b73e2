// Package searchreq implements the search-request lifecycle. Submitted
// requests start pending and are computed lazily, exactly once, on the first
// results fetch; the matches are cached on the request row from then on.
package searchreq
