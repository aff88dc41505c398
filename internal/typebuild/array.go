package typebuild

import "typeforge/internal/catalog"

// ArrayBuilder wraps an element type into a fixed-count array. The count is
// caller-supplied and unchecked; zero-length arrays are permitted (the
// flexible-array-member idiom).
type ArrayBuilder struct {
	elem  Ref
	count uint32
	built bool
}

// NewArray starts an array builder over the element reference.
func NewArray(elem Ref, count uint32) *ArrayBuilder {
	return &ArrayBuilder{elem: elem, count: count}
}

// Build resolves the element type and commits the array. Self-references
// are rejected: arrays over a type still under construction are unsupported.
func (b *ArrayBuilder) Build(cat catalog.Catalog) (Handle, error) {
	if b.built {
		return Handle{}, &BuildError{Kind: ErrBuilderConsumed, Type: "array"}
	}
	b.built = true

	var elem catalog.Ordinal
	switch b.elem.kind {
	case refPrimitive:
		elem = cat.PrimitiveOrdinal(b.elem.prim.Code())
	case refExisting:
		elem = b.elem.typ.Ordinal()
	case refSelf:
		return Handle{}, &BuildError{Kind: ErrSelfReference, Detail: "array element types"}
	default:
		return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: "array", Detail: "element"}
	}
	if elem == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: "array", Detail: "element"}
	}

	ord := cat.CreateArray(elem, b.count)
	if ord == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: "array", Op: "create_array"}
	}
	return Handle{ord: ord}, nil
}

// PointerBuilder wraps a target type into a pointer.
type PointerBuilder struct {
	target Ref
	built  bool
}

// NewPointer starts a pointer builder over the target reference.
func NewPointer(target Ref) *PointerBuilder {
	return &PointerBuilder{target: target}
}

// Build resolves the target type and commits the pointer. Self-references
// are rejected here; aggregate fields are the only place they resolve.
func (b *PointerBuilder) Build(cat catalog.Catalog) (Handle, error) {
	if b.built {
		return Handle{}, &BuildError{Kind: ErrBuilderConsumed, Type: "pointer"}
	}
	b.built = true

	var target catalog.Ordinal
	switch b.target.kind {
	case refPrimitive:
		target = cat.PrimitiveOrdinal(b.target.prim.Code())
	case refExisting:
		target = b.target.typ.Ordinal()
	case refSelf:
		return Handle{}, &BuildError{Kind: ErrSelfReference, Detail: "pointer target types"}
	default:
		return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: "pointer", Detail: "target"}
	}
	if target == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: "pointer", Detail: "target"}
	}

	ord := cat.CreatePointer(target)
	if ord == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: "pointer", Op: "create_pointer"}
	}
	return Handle{ord: ord}, nil
}
