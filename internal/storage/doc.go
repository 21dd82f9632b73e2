// Package storage owns the SQLite handle shared by the registry stores.
//
// It applies the WAL pragmas, initializes the versioned schema, and provides
// busy-retry execution plus the nullable/time helpers the stores use for
// scanning. Individual stores (catalog, users, searchreq, notify) layer their
// queries on top of the DB type.
package storage
