package typebuild_test

import (
	"typeforge/internal/catalog"
)

// countingCatalog wraps a memory catalog, counts mutating calls and can be
// told to fail one named operation or to report every size as unknown.
type countingCatalog struct {
	inner     *catalog.Memory
	mutations int
	failOp    string
	zeroSizes bool

	fieldOffsets  []uint64          // byte offsets seen by AddField, in call order
	pointersMade  []catalog.Ordinal // ordinals returned by CreatePointer
	bitfieldCalls int
}

func newCountingCatalog() *countingCatalog {
	return &countingCatalog{inner: catalog.NewMemory(catalog.X86_64LinuxGNU())}
}

func (c *countingCatalog) CreateAggregate(name string, isUnion bool) catalog.Ordinal {
	c.mutations++
	if c.failOp == "create_aggregate" {
		return catalog.NoOrdinal
	}
	return c.inner.CreateAggregate(name, isUnion)
}

func (c *countingCatalog) AddField(owner catalog.Ordinal, name string, fieldType catalog.Ordinal, byteOffset uint64) bool {
	c.mutations++
	if c.failOp == "add_field" {
		return false
	}
	c.fieldOffsets = append(c.fieldOffsets, byteOffset)
	return c.inner.AddField(owner, name, fieldType, byteOffset)
}

func (c *countingCatalog) AddBitfield(owner catalog.Ordinal, name string, bitOffset, bitWidth uint32, unsigned bool) bool {
	c.mutations++
	c.bitfieldCalls++
	if c.failOp == "add_bitfield" {
		return false
	}
	return c.inner.AddBitfield(owner, name, bitOffset, bitWidth, unsigned)
}

func (c *countingCatalog) Finalize(ord catalog.Ordinal) bool {
	c.mutations++
	if c.failOp == "finalize" {
		return false
	}
	return c.inner.Finalize(ord)
}

func (c *countingCatalog) PrimitiveOrdinal(code uint32) catalog.Ordinal {
	return c.inner.PrimitiveOrdinal(code)
}

func (c *countingCatalog) TypeSize(ord catalog.Ordinal) uint64 {
	if c.zeroSizes {
		return 0
	}
	return c.inner.TypeSize(ord)
}

func (c *countingCatalog) CreateEnum(name string, widthBytes uint32) catalog.Ordinal {
	c.mutations++
	if c.failOp == "create_enum" {
		return catalog.NoOrdinal
	}
	return c.inner.CreateEnum(name, widthBytes)
}

func (c *countingCatalog) AddEnumMember(ord catalog.Ordinal, name string, value int64) bool {
	c.mutations++
	if c.failOp == "add_enum_member" {
		return false
	}
	return c.inner.AddEnumMember(ord, name, value)
}

func (c *countingCatalog) CreateArray(elem catalog.Ordinal, count uint32) catalog.Ordinal {
	c.mutations++
	if c.failOp == "create_array" {
		return catalog.NoOrdinal
	}
	return c.inner.CreateArray(elem, count)
}

func (c *countingCatalog) CreatePointer(target catalog.Ordinal) catalog.Ordinal {
	c.mutations++
	if c.failOp == "create_pointer" {
		return catalog.NoOrdinal
	}
	ord := c.inner.CreatePointer(target)
	c.pointersMade = append(c.pointersMade, ord)
	return ord
}

func (c *countingCatalog) CreateFunction(ret catalog.Ordinal, ccCode uint32, vararg bool) catalog.Ordinal {
	c.mutations++
	if c.failOp == "create_function" {
		return catalog.NoOrdinal
	}
	return c.inner.CreateFunction(ret, ccCode, vararg)
}

func (c *countingCatalog) AddParameter(fn catalog.Ordinal, name string, paramType catalog.Ordinal, hidden bool) bool {
	c.mutations++
	if c.failOp == "add_parameter" {
		return false
	}
	return c.inner.AddParameter(fn, name, paramType, hidden)
}

func (c *countingCatalog) SetFunctionAttributes(fn catalog.Ordinal, noreturn, pure, static, virtual, constFn, ctor, dtor bool) bool {
	c.mutations++
	if c.failOp == "set_function_attributes" {
		return false
	}
	return c.inner.SetFunctionAttributes(fn, noreturn, pure, static, virtual, constFn, ctor, dtor)
}

func (c *countingCatalog) CreateFunctionPointer(fn catalog.Ordinal) catalog.Ordinal {
	c.mutations++
	if c.failOp == "create_function_pointer" {
		return catalog.NoOrdinal
	}
	return c.inner.CreateFunctionPointer(fn)
}

var _ catalog.Catalog = (*countingCatalog)(nil)
