// Package typebuild composes not-yet-committed composite types and commits
// them to a type catalog.
//
// A builder is configured through chained calls (no external effect), then
// submitted with Build, which validates the configuration locally, issues a
// bounded sequence of catalog calls and returns a Handle to the committed
// type. Builders are single-use: a builder that has been submitted (even
// unsuccessfully) refuses further submissions.
//
// The catalog offers no rollback. When a submission fails after the shell
// has been created, the shell may remain registered in a partial,
// unfinalized state; the rest of the catalog is unaffected.
package typebuild

import "typeforge/internal/catalog"

// Handle is an opaque reference to a type committed to a catalog. Handles
// are freely copyable; the referenced type's lifetime is owned by the
// catalog, not by the handle.
type Handle struct {
	ord catalog.Ordinal
}

// HandleFromOrdinal wraps a previously obtained ordinal. It does not check
// that the ordinal refers to a committed type.
func HandleFromOrdinal(ord catalog.Ordinal) Handle {
	return Handle{ord: ord}
}

// Ordinal returns the catalog ordinal behind the handle.
func (h Handle) Ordinal() catalog.Ordinal {
	return h.ord
}

// Valid reports whether the handle refers to a committed type.
func (h Handle) Valid() bool {
	return h.ord != catalog.NoOrdinal
}
