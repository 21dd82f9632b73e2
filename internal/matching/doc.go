// Package matching implements the image-matching pipeline: candidate
// selection from the catalog, subprocess invocation of the external matcher
// script, confidence scoring, ranking, and notification dispatch.
//
// The oracle subprocess is the only component that inspects pixels. Everything
// else works with its line-oriented output, so the pipeline stays testable
// without image fixtures.
package matching
