package catalog

import (
	"fmt"
	"sync"

	"fortio.org/safecast"
)

// entryKind enumerates the shapes the memory catalog stores.
type entryKind uint8

const (
	entryInvalid entryKind = iota
	entryPrimitive
	entryStruct
	entryUnion
	entryEnum
	entryArray
	entryPointer
	entryFunction
)

func (k entryKind) String() string {
	switch k {
	case entryPrimitive:
		return "primitive"
	case entryStruct:
		return "struct"
	case entryUnion:
		return "union"
	case entryEnum:
		return "enum"
	case entryArray:
		return "array"
	case entryPointer:
		return "pointer"
	case entryFunction:
		return "function"
	default:
		return fmt.Sprintf("entryKind(%d)", k)
	}
}

type fieldEntry struct {
	Name       string
	Type       Ordinal
	ByteOffset uint64
}

type bitfieldEntry struct {
	Name      string
	BitOffset uint32
	BitWidth  uint32
	Unsigned  bool
}

type enumMemberEntry struct {
	Name  string
	Value int64
}

type paramEntry struct {
	Name   string
	Type   Ordinal
	Hidden bool
}

type funcAttrEntry struct {
	NoReturn    bool
	Pure        bool
	Static      bool
	Virtual     bool
	Const       bool
	Constructor bool
	Destructor  bool
}

// entry is one committed type record. Exported fields keep it msgpack-visible
// for snapshots.
type entry struct {
	Kind entryKind
	Name string

	Code  uint32  // primitives: basic-kind code
	Width uint32  // enums: byte width
	Elem  Ordinal // arrays, pointers: element/target
	Count uint32  // arrays: element count

	Ret    Ordinal // functions
	CC     uint32
	Vararg bool

	Fields    []fieldEntry
	Bitfields []bitfieldEntry
	Members   []enumMemberEntry
	Params    []paramEntry
	Attrs     funcAttrEntry

	Finalized bool
}

// Memory is an in-memory Catalog. It allocates sequential ordinals starting
// at 1, deduplicates primitives by basic-kind code and computes sizes from
// the recorded layout. All methods are safe for concurrent use, though the
// usual single-mutation-in-flight discipline still applies to multi-step
// commits.
type Memory struct {
	mu         sync.RWMutex
	target     Target
	entries    []entry // index 0 reserved for the invalid sentinel
	primitives map[uint32]Ordinal
	pointers   map[Ordinal]Ordinal // target -> pointer ordinal
}

// NewMemory constructs an empty memory catalog for the given target.
func NewMemory(target Target) *Memory {
	if target.PtrSize <= 0 {
		target.PtrSize = 8
	}
	return &Memory{
		target:     target,
		entries:    make([]entry, 1),
		primitives: make(map[uint32]Ordinal, 16),
		pointers:   make(map[Ordinal]Ordinal, 16),
	}
}

// Target returns the target the catalog reports pointer sizes for.
func (m *Memory) Target() Target {
	return m.target
}

func (m *Memory) alloc(e entry) Ordinal {
	n, err := safecast.Conv[uint32](len(m.entries))
	if err != nil {
		return NoOrdinal
	}
	m.entries = append(m.entries, e)
	return Ordinal(n)
}

func (m *Memory) entryFor(ord Ordinal) *entry {
	if ord == NoOrdinal || int(ord) >= len(m.entries) {
		return nil
	}
	return &m.entries[ord]
}

// CreateAggregate registers an empty struct or union shell.
func (m *Memory) CreateAggregate(name string, isUnion bool) Ordinal {
	m.mu.Lock()
	defer m.mu.Unlock()
	kind := entryStruct
	if isUnion {
		kind = entryUnion
	}
	return m.alloc(entry{Kind: kind, Name: name})
}

// AddField appends a field to an aggregate shell.
func (m *Memory) AddField(owner Ordinal, name string, fieldType Ordinal, byteOffset uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryFor(owner)
	if e == nil || (e.Kind != entryStruct && e.Kind != entryUnion) {
		return false
	}
	if m.entryFor(fieldType) == nil {
		return false
	}
	e.Fields = append(e.Fields, fieldEntry{Name: name, Type: fieldType, ByteOffset: byteOffset})
	return true
}

// AddBitfield appends a bit-packed field to a struct shell.
func (m *Memory) AddBitfield(owner Ordinal, name string, bitOffset, bitWidth uint32, unsigned bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryFor(owner)
	if e == nil || e.Kind != entryStruct {
		return false
	}
	e.Bitfields = append(e.Bitfields, bitfieldEntry{
		Name:      name,
		BitOffset: bitOffset,
		BitWidth:  bitWidth,
		Unsigned:  unsigned,
	})
	return true
}

// Finalize marks a committed type as fully populated.
func (m *Memory) Finalize(ord Ordinal) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryFor(ord)
	if e == nil {
		return false
	}
	e.Finalized = true
	return true
}

// PrimitiveOrdinal resolves a basic-kind code, allocating on first use.
func (m *Memory) PrimitiveOrdinal(code uint32) Ordinal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := primitiveSize(code); !ok {
		return NoOrdinal
	}
	if ord, ok := m.primitives[code]; ok {
		return ord
	}
	ord := m.alloc(entry{Kind: entryPrimitive, Name: primitiveName(code), Code: code, Finalized: true})
	if ord != NoOrdinal {
		m.primitives[code] = ord
	}
	return ord
}

// TypeSize reports the byte size of a committed type, 0 when unknown.
func (m *Memory) TypeSize(ord Ordinal) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sizeOf(ord, 0)
}

// sizeOf walks nested arrays/pointers without taking the lock again.
// depth guards against cyclic element chains in corrupted snapshots.
func (m *Memory) sizeOf(ord Ordinal, depth int) uint64 {
	if depth > 64 {
		return 0
	}
	e := m.entryFor(ord)
	if e == nil {
		return 0
	}
	switch e.Kind {
	case entryPrimitive:
		size, _ := primitiveSize(e.Code)
		return size
	case entryStruct:
		var end uint64
		for _, f := range e.Fields {
			fe := f.ByteOffset + m.sizeOf(f.Type, depth+1)
			if fe > end {
				end = fe
			}
		}
		for _, b := range e.Bitfields {
			be := uint64(b.BitOffset+b.BitWidth+7) / 8
			if be > end {
				end = be
			}
		}
		return end
	case entryUnion:
		var widest uint64
		for _, f := range e.Fields {
			if fs := m.sizeOf(f.Type, depth+1); fs > widest {
				widest = fs
			}
		}
		return widest
	case entryEnum:
		return uint64(e.Width)
	case entryArray:
		return m.sizeOf(e.Elem, depth+1) * uint64(e.Count)
	case entryPointer:
		return uint64(m.target.PtrSize)
	case entryFunction:
		return 0
	default:
		return 0
	}
}

// CreateEnum registers an empty enumeration shell. Width is trusted here;
// client-side validation restricts it to {1,2,4,8} before the call.
func (m *Memory) CreateEnum(name string, widthBytes uint32) Ordinal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if widthBytes == 0 {
		return NoOrdinal
	}
	return m.alloc(entry{Kind: entryEnum, Name: name, Width: widthBytes})
}

// AddEnumMember appends a named constant to an enumeration shell.
func (m *Memory) AddEnumMember(ord Ordinal, name string, value int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryFor(ord)
	if e == nil || e.Kind != entryEnum {
		return false
	}
	e.Members = append(e.Members, enumMemberEntry{Name: name, Value: value})
	return true
}

// CreateArray registers an array type over an existing element type.
func (m *Memory) CreateArray(elem Ordinal, count uint32) Ordinal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entryFor(elem) == nil {
		return NoOrdinal
	}
	return m.alloc(entry{Kind: entryArray, Elem: elem, Count: count, Finalized: true})
}

// CreatePointer registers a pointer type over an existing target type.
// Pointer types are interned: repeated calls with the same target return the
// same ordinal, so a self-referential field and an independently built
// pointer against the same aggregate agree.
func (m *Memory) CreatePointer(target Ordinal) Ordinal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.internPointer(target)
}

func (m *Memory) internPointer(target Ordinal) Ordinal {
	if m.entryFor(target) == nil {
		return NoOrdinal
	}
	if ord, ok := m.pointers[target]; ok {
		return ord
	}
	ord := m.alloc(entry{Kind: entryPointer, Elem: target, Finalized: true})
	if ord != NoOrdinal {
		m.pointers[target] = ord
	}
	return ord
}

// CreateFunction registers a function-signature shell. ret may be NoOrdinal
// to mean void.
func (m *Memory) CreateFunction(ret Ordinal, ccCode uint32, vararg bool) Ordinal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ret != NoOrdinal && m.entryFor(ret) == nil {
		return NoOrdinal
	}
	return m.alloc(entry{Kind: entryFunction, Ret: ret, CC: ccCode, Vararg: vararg})
}

// AddParameter appends a parameter to a function shell.
func (m *Memory) AddParameter(fn Ordinal, name string, paramType Ordinal, hidden bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryFor(fn)
	if e == nil || e.Kind != entryFunction {
		return false
	}
	if m.entryFor(paramType) == nil {
		return false
	}
	e.Params = append(e.Params, paramEntry{Name: name, Type: paramType, Hidden: hidden})
	return true
}

// SetFunctionAttributes applies the full attribute set in one call.
func (m *Memory) SetFunctionAttributes(fn Ordinal, noreturn, pure, static, virtual, constFn, ctor, dtor bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryFor(fn)
	if e == nil || e.Kind != entryFunction {
		return false
	}
	e.Attrs = funcAttrEntry{
		NoReturn:    noreturn,
		Pure:        pure,
		Static:      static,
		Virtual:     virtual,
		Const:       constFn,
		Constructor: ctor,
		Destructor:  dtor,
	}
	return true
}

// CreateFunctionPointer wraps a function signature in a pointer type.
func (m *Memory) CreateFunctionPointer(fn Ordinal) Ordinal {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entryFor(fn)
	if e == nil || e.Kind != entryFunction {
		return NoOrdinal
	}
	return m.internPointer(fn)
}

var _ Catalog = (*Memory)(nil)

// primitiveSize maps a basic-kind code to its byte size. Codes follow the
// analysis engine's basic-type encoding; unknown codes are rejected.
func primitiveSize(code uint32) (uint64, bool) {
	switch code {
	case 0x00: // void
		return 0, true
	case 0x01, 0x05: // int8/char, uint8
		return 1, true
	case 0x02, 0x06: // int16, uint16
		return 2, true
	case 0x03, 0x07: // int32, uint32
		return 4, true
	case 0x04, 0x08: // int64, uint64/bool
		return 8, true
	case 0x09: // float
		return 4, true
	case 0x0A: // double
		return 8, true
	default:
		return 0, false
	}
}

func primitiveName(code uint32) string {
	switch code {
	case 0x00:
		return "void"
	case 0x01:
		return "int8"
	case 0x02:
		return "int16"
	case 0x03:
		return "int32"
	case 0x04:
		return "int64"
	case 0x05:
		return "uint8"
	case 0x06:
		return "uint16"
	case 0x07:
		return "uint32"
	case 0x08:
		return "uint64"
	case 0x09:
		return "float"
	case 0x0A:
		return "double"
	default:
		return fmt.Sprintf("primitive(%#x)", code)
	}
}
