// Package catalog persists registry items and answers the candidate queries
// the matching pipeline runs against them.
package catalog
