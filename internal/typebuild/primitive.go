package typebuild

import (
	"fmt"

	"typeforge/internal/catalog"
)

// Kind enumerates the primitive types the catalog understands.
type Kind uint8

const (
	KindVoid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUInt8
	KindUInt16
	KindUInt32
	KindUInt64
	KindFloat
	KindDouble
	KindChar
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUInt8:
		return "uint8"
	case KindUInt16:
		return "uint16"
	case KindUInt32:
		return "uint32"
	case KindUInt64:
		return "uint64"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Code returns the catalog's basic-kind code for the primitive. Char maps to
// the signed byte code and Bool shares the engine's 0x08 encoding.
func (k Kind) Code() uint32 {
	switch k {
	case KindVoid:
		return 0x00
	case KindInt8, KindChar:
		return 0x01
	case KindInt16:
		return 0x02
	case KindInt32:
		return 0x03
	case KindInt64:
		return 0x04
	case KindUInt8:
		return 0x05
	case KindUInt16:
		return 0x06
	case KindUInt32:
		return 0x07
	case KindUInt64, KindBool:
		return 0x08
	case KindFloat:
		return 0x09
	case KindDouble:
		return 0x0A
	default:
		return 0x00
	}
}

// Type resolves the primitive to a committed Handle.
func (k Kind) Type(cat catalog.Catalog) (Handle, error) {
	ord := cat.PrimitiveOrdinal(k.Code())
	if ord == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrCatalog, Op: "primitive_ordinal", Detail: k.String()}
	}
	return Handle{ord: ord}, nil
}
