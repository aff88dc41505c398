// Package catalog defines the narrow operation set exposed by an external
// type catalog and provides an in-memory reference implementation.
//
// Every operation works on unsigned ordinal identifiers. Failure is signaled
// by returning NoOrdinal (for ordinal-producing operations) or false (for
// boolean-result operations); no operation panics or returns an error value.
package catalog

// Ordinal identifies a type committed to a catalog.
type Ordinal uint32

// NoOrdinal marks an invalid ordinal. It is returned by every failing
// catalog operation and is never allocated to a real type.
const NoOrdinal Ordinal = 0

// Valid reports whether the ordinal could refer to a committed type.
func (o Ordinal) Valid() bool {
	return o != NoOrdinal
}

// Catalog is the capability boundary to an external type registry.
//
// Implementations allocate ordinals, persist committed types and compute
// sizes for already-registered types. Callers must keep at most one mutation
// in flight at a time; Catalog itself exposes no transactional rollback, so
// a failed multi-step commit may leave a partially populated shell behind.
type Catalog interface {
	// CreateAggregate registers an empty struct or union shell.
	CreateAggregate(name string, isUnion bool) Ordinal
	// AddField appends a field to an aggregate shell at a byte offset.
	AddField(owner Ordinal, name string, fieldType Ordinal, byteOffset uint64) bool
	// AddBitfield appends a bit-packed field to a struct shell.
	AddBitfield(owner Ordinal, name string, bitOffset, bitWidth uint32, unsigned bool) bool
	// Finalize marks a shell as fully populated.
	Finalize(ord Ordinal) bool

	// PrimitiveOrdinal resolves a basic-kind code to a (possibly shared)
	// primitive ordinal.
	PrimitiveOrdinal(code uint32) Ordinal
	// TypeSize reports the byte size of a committed type, 0 when unknown.
	TypeSize(ord Ordinal) uint64

	// CreateEnum registers an empty enumeration shell of the given width.
	CreateEnum(name string, widthBytes uint32) Ordinal
	// AddEnumMember appends a named constant to an enumeration shell.
	AddEnumMember(ord Ordinal, name string, value int64) bool

	// CreateArray registers an array type over an existing element type.
	CreateArray(elem Ordinal, count uint32) Ordinal
	// CreatePointer registers a pointer type over an existing target type.
	CreatePointer(target Ordinal) Ordinal

	// CreateFunction registers a function-signature shell. A zero return
	// ordinal means void; this is the one place NoOrdinal is a legal input.
	CreateFunction(ret Ordinal, ccCode uint32, vararg bool) Ordinal
	// AddParameter appends a parameter to a function shell.
	AddParameter(fn Ordinal, name string, paramType Ordinal, hidden bool) bool
	// SetFunctionAttributes applies the full attribute set in one call.
	SetFunctionAttributes(fn Ordinal, noreturn, pure, static, virtual, constFn, ctor, dtor bool) bool
	// CreateFunctionPointer wraps a finalized function signature in a pointer.
	CreateFunctionPointer(fn Ordinal) Ordinal
}
