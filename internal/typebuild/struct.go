package typebuild

import "typeforge/internal/catalog"

// unknownSizeStride is the cursor advance for auto-offset fields whose size
// the catalog cannot report. A fixed constant with no architecture
// awareness; layouts on 32-bit targets are approximate.
const unknownSizeStride = 8

type structField struct {
	name   string
	ref    Ref
	offset *uint64 // nil means sequential placement
}

type bitfieldInfo struct {
	name      string
	bitOffset uint32
	bitWidth  uint32
	unsigned  bool
}

// StructBuilder accumulates fields and bit-packed sub-fields for a struct or
// union and commits the aggregate in one Build call.
type StructBuilder struct {
	name      string
	fields    []structField
	bitfields []bitfieldInfo
	isUnion   bool
	built     bool
}

// NewStruct starts a struct builder.
func NewStruct(name string) *StructBuilder {
	return &StructBuilder{name: name}
}

// NewUnion starts a union builder.
func NewUnion(name string) *StructBuilder {
	return &StructBuilder{name: name, isUnion: true}
}

// Field appends a field placed at the running offset cursor (structs) or at
// offset 0 (unions).
func (b *StructBuilder) Field(name string, ref Ref) *StructBuilder {
	b.fields = append(b.fields, structField{name: name, ref: ref})
	return b
}

// FieldAt appends a field at an explicit byte offset. Unions carry no
// per-field offsets, so on a union this degrades to Field.
func (b *StructBuilder) FieldAt(name string, ref Ref, offset uint64) *StructBuilder {
	if b.isUnion {
		return b.Field(name, ref)
	}
	b.fields = append(b.fields, structField{name: name, ref: ref, offset: &offset})
	return b
}

// UnsignedBitfield appends an unsigned bit-packed field. Ignored on unions.
func (b *StructBuilder) UnsignedBitfield(name string, bitOffset, bitWidth uint32) *StructBuilder {
	return b.bitfield(name, bitOffset, bitWidth, true)
}

// SignedBitfield appends a signed bit-packed field. Ignored on unions.
func (b *StructBuilder) SignedBitfield(name string, bitOffset, bitWidth uint32) *StructBuilder {
	return b.bitfield(name, bitOffset, bitWidth, false)
}

func (b *StructBuilder) bitfield(name string, bitOffset, bitWidth uint32, unsigned bool) *StructBuilder {
	if b.isUnion {
		return b
	}
	b.bitfields = append(b.bitfields, bitfieldInfo{
		name:      name,
		bitOffset: bitOffset,
		bitWidth:  bitWidth,
		unsigned:  unsigned,
	})
	return b
}

// SelfRef appends a field referencing the aggregate itself. The field
// resolves to a pointer to this aggregate during submission; linked lists
// and trees are the usual customers.
func (b *StructBuilder) SelfRef(name string) *StructBuilder {
	return b.Field(name, Self())
}

func (b *StructBuilder) validate() *BuildError {
	if b.name == "" {
		return &BuildError{Kind: ErrEmptyName}
	}

	// Fields and bitfields share one name namespace.
	names := make(map[string]struct{}, len(b.fields)+len(b.bitfields))
	for _, f := range b.fields {
		if _, dup := names[f.name]; dup {
			return &BuildError{Kind: ErrDuplicateName, Type: b.name, Detail: f.name}
		}
		names[f.name] = struct{}{}
	}
	for _, bf := range b.bitfields {
		if _, dup := names[bf.name]; dup {
			return &BuildError{Kind: ErrDuplicateName, Type: b.name, Detail: bf.name}
		}
		names[bf.name] = struct{}{}
	}

	// Bit ranges [offset, offset+width) must be pairwise disjoint. Adjacent
	// ranges are fine; equal starts, partial overlap and containment in
	// either direction are not.
	type bitRange struct{ start, end uint32 }
	ranges := make([]bitRange, 0, len(b.bitfields))
	for _, bf := range b.bitfields {
		start := bf.bitOffset
		end := bf.bitOffset + bf.bitWidth
		for _, r := range ranges {
			if start < r.end && r.start < end {
				return &BuildError{Kind: ErrBitfieldOverlap, Type: b.name, Detail: bf.name}
			}
		}
		ranges = append(ranges, bitRange{start: start, end: end})
	}
	return nil
}

// Build validates the configuration, commits the aggregate to the catalog
// and returns its handle. The builder is consumed whether or not the commit
// succeeds.
func (b *StructBuilder) Build(cat catalog.Catalog) (Handle, error) {
	if b.built {
		return Handle{}, &BuildError{Kind: ErrBuilderConsumed, Type: b.name}
	}
	if err := b.validate(); err != nil {
		return Handle{}, err
	}
	b.built = true

	shell := cat.CreateAggregate(b.name, b.isUnion)
	if shell == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: b.name, Op: "create_aggregate"}
	}

	var cursor uint64
	for _, f := range b.fields {
		var fieldType catalog.Ordinal
		switch f.ref.kind {
		case refPrimitive:
			fieldType = cat.PrimitiveOrdinal(f.ref.prim.Code())
		case refExisting:
			fieldType = f.ref.typ.Ordinal()
		case refSelf:
			fieldType = cat.CreatePointer(shell)
		default:
			return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: b.name, Detail: f.name}
		}
		if fieldType == catalog.NoOrdinal {
			return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: b.name, Detail: f.name}
		}

		offset := cursor
		if f.offset != nil {
			offset = *f.offset
		}
		if !cat.AddField(shell, f.name, fieldType, offset) {
			return Handle{}, &BuildError{Kind: ErrCatalog, Type: b.name, Detail: f.name, Op: "add_field"}
		}

		if !b.isUnion && f.offset == nil {
			size := cat.TypeSize(fieldType)
			if size == 0 {
				size = unknownSizeStride
			}
			cursor += size
		}
	}

	for _, bf := range b.bitfields {
		if !cat.AddBitfield(shell, bf.name, bf.bitOffset, bf.bitWidth, bf.unsigned) {
			return Handle{}, &BuildError{Kind: ErrCatalog, Type: b.name, Detail: bf.name, Op: "add_bitfield"}
		}
	}

	if !cat.Finalize(shell) {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: b.name, Op: "finalize"}
	}
	return Handle{ord: shell}, nil
}
