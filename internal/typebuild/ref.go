package typebuild

import "fmt"

// refKind tags the variants of a Ref.
type refKind uint8

const (
	refInvalid refKind = iota
	refPrimitive
	refExisting
	refSelf
)

// Ref names the type of a field, parameter, array element or return value:
// a primitive, a handle to an already-committed type, or a self-reference to
// the aggregate under construction. The variant set is closed — forward
// references to arbitrary not-yet-built types are unrepresentable.
type Ref struct {
	kind refKind
	prim Kind
	typ  Handle
}

// Primitive references a primitive type.
func Primitive(k Kind) Ref {
	return Ref{kind: refPrimitive, prim: k}
}

// Existing references a type already committed to the catalog.
func Existing(h Handle) Ref {
	return Ref{kind: refExisting, typ: h}
}

// Self references the aggregate currently being built. It resolves to a
// pointer to that aggregate during submission and is only legal in aggregate
// field positions.
func Self() Ref {
	return Ref{kind: refSelf}
}

// IsSelf reports whether the reference is a self-reference.
func (r Ref) IsSelf() bool {
	return r.kind == refSelf
}

func (r Ref) String() string {
	switch r.kind {
	case refPrimitive:
		return r.prim.String()
	case refExisting:
		return fmt.Sprintf("type#%d", r.typ.Ordinal())
	case refSelf:
		return "self"
	default:
		return "invalid"
	}
}
