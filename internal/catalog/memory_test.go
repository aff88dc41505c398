package catalog

import "testing"

func TestMemorySequentialOrdinals(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	a := m.CreateAggregate("A", false)
	b := m.CreateAggregate("B", true)
	if a != 1 || b != 2 {
		t.Fatalf("expected ordinals 1 and 2, got %d and %d", a, b)
	}
	if m.OrdinalLimit() != 3 {
		t.Fatalf("ordinal limit %d, want 3", m.OrdinalLimit())
	}
}

func TestMemoryPrimitiveDeduplication(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	first := m.PrimitiveOrdinal(0x03)
	second := m.PrimitiveOrdinal(0x03)
	if first == NoOrdinal || first != second {
		t.Fatalf("int32 must intern to one ordinal, got %d and %d", first, second)
	}
	if m.PrimitiveOrdinal(0xFF) != NoOrdinal {
		t.Fatal("unknown basic-kind code must fail")
	}
	if got := m.TypeSize(first); got != 4 {
		t.Fatalf("int32 size %d, want 4", got)
	}
}

func TestMemoryStructSizeIsMaxFieldEnd(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	i32 := m.PrimitiveOrdinal(0x03)
	i64 := m.PrimitiveOrdinal(0x04)
	s := m.CreateAggregate("S", false)
	if !m.AddField(s, "a", i32, 0) || !m.AddField(s, "b", i64, 8) {
		t.Fatal("add_field failed")
	}
	if got := m.TypeSize(s); got != 16 {
		t.Fatalf("struct size %d, want 16", got)
	}
	// A trailing bitfield extends the size to its byte-rounded end.
	if !m.AddBitfield(s, "bits", 128, 5, true) {
		t.Fatal("add_bitfield failed")
	}
	if got := m.TypeSize(s); got != 17 {
		t.Fatalf("struct size with bitfield %d, want 17", got)
	}
}

func TestMemoryUnionSizeIsWidestMember(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	i8 := m.PrimitiveOrdinal(0x01)
	dbl := m.PrimitiveOrdinal(0x0A)
	u := m.CreateAggregate("U", true)
	m.AddField(u, "tiny", i8, 0)
	m.AddField(u, "wide", dbl, 0)
	if got := m.TypeSize(u); got != 8 {
		t.Fatalf("union size %d, want 8", got)
	}
}

func TestMemoryBitfieldOnUnionRejected(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	u := m.CreateAggregate("U", true)
	if m.AddBitfield(u, "bits", 0, 4, true) {
		t.Fatal("bitfields on unions must be rejected")
	}
}

func TestMemoryPointerInterning(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	s := m.CreateAggregate("Node", false)
	p1 := m.CreatePointer(s)
	p2 := m.CreatePointer(s)
	if p1 == NoOrdinal || p1 != p2 {
		t.Fatalf("pointer to same target must intern, got %d and %d", p1, p2)
	}
	if m.CreatePointer(NoOrdinal) != NoOrdinal {
		t.Fatal("pointer to invalid ordinal must fail")
	}
	if got := m.TypeSize(p1); got != 8 {
		t.Fatalf("pointer size %d, want 8", got)
	}
}

func TestMemoryPointerSizeFollowsTarget(t *testing.T) {
	m := NewMemory(Target{Triple: "i686-linux-gnu", PtrSize: 4})
	i32 := m.PrimitiveOrdinal(0x03)
	p := m.CreatePointer(i32)
	if got := m.TypeSize(p); got != 4 {
		t.Fatalf("32-bit pointer size %d, want 4", got)
	}
}

func TestMemoryEnumSizeIsDeclaredWidth(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	e := m.CreateEnum("E", 2)
	if !m.AddEnumMember(e, "A", 0) {
		t.Fatal("add_enum_member failed")
	}
	if got := m.TypeSize(e); got != 2 {
		t.Fatalf("enum size %d, want 2", got)
	}
	if m.AddEnumMember(m.CreateAggregate("S", false), "A", 0) {
		t.Fatal("enum member on non-enum must be rejected")
	}
}

func TestMemoryArraySize(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	i16 := m.PrimitiveOrdinal(0x02)
	arr := m.CreateArray(i16, 12)
	if got := m.TypeSize(arr); got != 24 {
		t.Fatalf("array size %d, want 24", got)
	}
	zero := m.CreateArray(i16, 0)
	if got := m.TypeSize(zero); got != 0 {
		t.Fatalf("zero-length array size %d, want 0", got)
	}
}

func TestMemoryFunctionPointerRequiresFunction(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	i32 := m.PrimitiveOrdinal(0x03)
	if m.CreateFunctionPointer(i32) != NoOrdinal {
		t.Fatal("function pointer over a primitive must fail")
	}
	fn := m.CreateFunction(i32, 0x30, false)
	if fn == NoOrdinal {
		t.Fatal("create_function failed")
	}
	fp := m.CreateFunctionPointer(fn)
	if fp == NoOrdinal {
		t.Fatal("create_function_pointer failed")
	}
	if got := m.TypeSize(fn); got != 0 {
		t.Fatalf("function size %d, want 0 (unknown)", got)
	}
	if got := m.TypeSize(fp); got != 8 {
		t.Fatalf("function pointer size %d, want 8", got)
	}
}

func TestMemoryFinalizeTracksState(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	s := m.CreateAggregate("S", false)
	info, ok := m.Describe(s)
	if !ok || info.Finalized {
		t.Fatalf("fresh shell must be unfinalized: %+v", info)
	}
	if !m.Finalize(s) {
		t.Fatal("finalize failed")
	}
	info, _ = m.Describe(s)
	if !info.Finalized {
		t.Fatal("finalize must stick")
	}
	if m.Finalize(NoOrdinal) {
		t.Fatal("finalize of invalid ordinal must fail")
	}
}

func TestMemoryDisplayNames(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	i32 := m.PrimitiveOrdinal(0x03)
	arr := m.CreateArray(i32, 3)
	ptr := m.CreatePointer(arr)
	if got := m.TypeName(arr); got != "[3]int32" {
		t.Fatalf("array display name %q", got)
	}
	if got := m.TypeName(ptr); got != "*[3]int32" {
		t.Fatalf("pointer display name %q", got)
	}
	s := m.CreateAggregate("Packet", false)
	if got := m.TypeName(s); got != "Packet" {
		t.Fatalf("struct display name %q", got)
	}
}

func TestMemoryListOrder(t *testing.T) {
	m := NewMemory(X86_64LinuxGNU())
	m.CreateAggregate("A", false)
	m.CreateEnum("E", 4)
	infos := m.List()
	if len(infos) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(infos))
	}
	if infos[0].Name != "A" || infos[0].Kind != "struct" {
		t.Fatalf("unexpected first entry %+v", infos[0])
	}
	if infos[1].Name != "E" || infos[1].Kind != "enum" {
		t.Fatalf("unexpected second entry %+v", infos[1])
	}
}
