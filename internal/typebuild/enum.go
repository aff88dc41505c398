package typebuild

import (
	"strconv"

	"typeforge/internal/catalog"
)

type enumMember struct {
	name  string
	value int64
}

// EnumBuilder accumulates named members with explicit or auto-incremented
// values for an enumeration of fixed byte width.
type EnumBuilder struct {
	name    string
	width   uint32
	members []enumMember
	built   bool
}

// NewEnum starts an enum builder. Width is the storage size in bytes and
// must be 1, 2, 4 or 8.
func NewEnum(name string, width uint32) *EnumBuilder {
	return &EnumBuilder{name: name, width: width}
}

// Member appends a member with an explicit value.
func (b *EnumBuilder) Member(name string, value int64) *EnumBuilder {
	b.members = append(b.members, enumMember{name: name, value: value})
	return b
}

// AutoMember appends a member valued one past the previous member, or 0 when
// it is the first. The increment is plain two's-complement arithmetic over
// the stored 64-bit value, independent of the enum width.
func (b *EnumBuilder) AutoMember(name string) *EnumBuilder {
	var next int64
	if n := len(b.members); n > 0 {
		next = b.members[n-1].value + 1
	}
	b.members = append(b.members, enumMember{name: name, value: next})
	return b
}

func (b *EnumBuilder) validate() *BuildError {
	if b.name == "" {
		return &BuildError{Kind: ErrEmptyName}
	}
	switch b.width {
	case 1, 2, 4, 8:
	default:
		return &BuildError{
			Kind:   ErrInvalidEnumWidth,
			Type:   b.name,
			Detail: strconv.FormatUint(uint64(b.width), 10),
		}
	}
	names := make(map[string]struct{}, len(b.members))
	for _, m := range b.members {
		if _, dup := names[m.name]; dup {
			return &BuildError{Kind: ErrDuplicateName, Type: b.name, Detail: m.name}
		}
		names[m.name] = struct{}{}
	}
	return nil
}

// Build validates the configuration, commits the enum and returns its
// handle. The builder is consumed.
func (b *EnumBuilder) Build(cat catalog.Catalog) (Handle, error) {
	if b.built {
		return Handle{}, &BuildError{Kind: ErrBuilderConsumed, Type: b.name}
	}
	if err := b.validate(); err != nil {
		return Handle{}, err
	}
	b.built = true

	shell := cat.CreateEnum(b.name, b.width)
	if shell == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: b.name, Op: "create_enum"}
	}
	for _, m := range b.members {
		if !cat.AddEnumMember(shell, m.name, m.value) {
			return Handle{}, &BuildError{Kind: ErrCatalog, Type: b.name, Detail: m.name, Op: "add_enum_member"}
		}
	}
	if !cat.Finalize(shell) {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: b.name, Op: "finalize"}
	}
	return Handle{ord: shell}, nil
}
