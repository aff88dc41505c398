package typebuild_test

import (
	"errors"
	"testing"

	"typeforge/internal/typebuild"
)

func buildErrKind(t *testing.T, err error) typebuild.ErrorKind {
	t.Helper()
	var be *typebuild.BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BuildError, got %T: %v", err, err)
	}
	return be.Kind
}

func TestStructDuplicateFieldNameFailsBeforeCatalog(t *testing.T) {
	cat := newCountingCatalog()
	_, err := typebuild.NewStruct("Point").
		Field("x", typebuild.Primitive(typebuild.KindInt32)).
		Field("x", typebuild.Primitive(typebuild.KindInt32)).
		Build(cat)
	if err == nil {
		t.Fatal("expected duplicate name error")
	}
	if kind := buildErrKind(t, err); kind != typebuild.ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName, got %d", kind)
	}
	if cat.mutations != 0 {
		t.Fatalf("catalog mutated %d times before validation failure", cat.mutations)
	}
}

func TestStructFieldAndBitfieldShareNamespace(t *testing.T) {
	cat := newCountingCatalog()
	_, err := typebuild.NewStruct("Flags").
		Field("raw", typebuild.Primitive(typebuild.KindUInt32)).
		UnsignedBitfield("raw", 0, 4).
		Build(cat)
	if err == nil {
		t.Fatal("expected duplicate name error across field/bitfield namespace")
	}
	if cat.mutations != 0 {
		t.Fatalf("catalog mutated %d times before validation failure", cat.mutations)
	}
}

func TestStructEmptyNameRejected(t *testing.T) {
	cat := newCountingCatalog()
	_, err := typebuild.NewStruct("").
		Field("x", typebuild.Primitive(typebuild.KindInt8)).
		Build(cat)
	if kind := buildErrKind(t, err); kind != typebuild.ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %d", kind)
	}
}

func TestBitfieldOverlapDetection(t *testing.T) {
	tests := []struct {
		name    string
		ranges  [][2]uint32 // offset, width
		wantErr bool
	}{
		{"partial overlap", [][2]uint32{{0, 4}, {2, 4}}, true},
		{"adjacent ranges", [][2]uint32{{0, 4}, {4, 4}}, false},
		{"full containment", [][2]uint32{{0, 8}, {2, 2}}, true},
		{"containment reversed", [][2]uint32{{2, 2}, {0, 8}}, true},
		{"equal start", [][2]uint32{{4, 2}, {4, 6}}, true},
		{"disjoint", [][2]uint32{{0, 3}, {8, 4}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := newCountingCatalog()
			b := typebuild.NewStruct("Bits")
			for i, r := range tt.ranges {
				name := string(rune('a' + i))
				b.UnsignedBitfield(name, r[0], r[1])
			}
			_, err := b.Build(cat)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected overlap error")
				}
				if kind := buildErrKind(t, err); kind != typebuild.ErrBitfieldOverlap {
					t.Fatalf("expected ErrBitfieldOverlap, got %d", kind)
				}
				if cat.mutations != 0 {
					t.Fatalf("catalog mutated before validation failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestStructAutoOffsetsUseReportedSizes(t *testing.T) {
	cat := newCountingCatalog()
	h, err := typebuild.NewStruct("Pair").
		Field("first", typebuild.Primitive(typebuild.KindInt32)).
		Field("second", typebuild.Primitive(typebuild.KindInt32)).
		Build(cat)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !h.Valid() {
		t.Fatal("expected valid handle")
	}
	want := []uint64{0, 4}
	if len(cat.fieldOffsets) != len(want) {
		t.Fatalf("expected %d AddField calls, got %d", len(want), len(cat.fieldOffsets))
	}
	for i, off := range want {
		if cat.fieldOffsets[i] != off {
			t.Fatalf("field %d at offset %d, want %d", i, cat.fieldOffsets[i], off)
		}
	}
}

func TestStructUnknownSizeFallbackStride(t *testing.T) {
	cat := newCountingCatalog()
	cat.zeroSizes = true
	_, err := typebuild.NewStruct("Opaque").
		Field("a", typebuild.Primitive(typebuild.KindInt32)).
		Field("b", typebuild.Primitive(typebuild.KindInt32)).
		Field("c", typebuild.Primitive(typebuild.KindInt32)).
		Build(cat)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	want := []uint64{0, 8, 16}
	for i, off := range want {
		if cat.fieldOffsets[i] != off {
			t.Fatalf("field %d at offset %d, want %d", i, cat.fieldOffsets[i], off)
		}
	}
}

func TestStructExplicitOffsetDoesNotAdvanceCursor(t *testing.T) {
	cat := newCountingCatalog()
	_, err := typebuild.NewStruct("Mixed").
		Field("a", typebuild.Primitive(typebuild.KindInt32)).
		FieldAt("gap", typebuild.Primitive(typebuild.KindInt64), 32).
		Field("b", typebuild.Primitive(typebuild.KindInt32)).
		Build(cat)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	// Cursor only advances for auto-offset fields: a at 0, gap pinned at 32,
	// b continues from a's end.
	want := []uint64{0, 32, 4}
	for i, off := range want {
		if cat.fieldOffsets[i] != off {
			t.Fatalf("field %d at offset %d, want %d", i, cat.fieldOffsets[i], off)
		}
	}
}

func TestUnionFieldAtDegradesToSequential(t *testing.T) {
	cat := newCountingCatalog()
	_, err := typebuild.NewUnion("Value").
		FieldAt("i", typebuild.Primitive(typebuild.KindInt64), 16).
		FieldAt("f", typebuild.Primitive(typebuild.KindDouble), 24).
		Build(cat)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	// Unions place every member at the cursor, which never advances.
	want := []uint64{0, 0}
	for i, off := range want {
		if cat.fieldOffsets[i] != off {
			t.Fatalf("member %d at offset %d, want %d", i, cat.fieldOffsets[i], off)
		}
	}
}

func TestUnionIgnoresBitfields(t *testing.T) {
	cat := newCountingCatalog()
	_, err := typebuild.NewUnion("U").
		Field("v", typebuild.Primitive(typebuild.KindUInt32)).
		UnsignedBitfield("low", 0, 4).
		Build(cat)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if cat.bitfieldCalls != 0 {
		t.Fatalf("union build issued %d add_bitfield calls, want 0", cat.bitfieldCalls)
	}
}

func TestSelfRefResolvesToPointerToSelf(t *testing.T) {
	cat := newCountingCatalog()
	node, err := typebuild.NewStruct("Node").
		Field("value", typebuild.Primitive(typebuild.KindInt64)).
		SelfRef("next").
		Build(cat)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if len(cat.pointersMade) != 1 {
		t.Fatalf("expected one pointer created during self-ref resolution, got %d", len(cat.pointersMade))
	}
	selfPtr := cat.pointersMade[0]

	indep, err := typebuild.NewPointer(typebuild.Existing(node)).Build(cat)
	if err != nil {
		t.Fatalf("pointer build failed: %v", err)
	}
	// The self-referential field resolved to pointer-to-Node; a pointer
	// built independently against Node's own handle must agree.
	if indep.Ordinal() != selfPtr {
		t.Fatalf("independent pointer ordinal %d, self-ref resolved to %d", indep.Ordinal(), selfPtr)
	}
	if ptrSize := cat.inner.TypeSize(indep.Ordinal()); ptrSize != 8 {
		t.Fatalf("pointer size %d, want 8", ptrSize)
	}
}

func TestStructBuildFailureLeavesNoRollback(t *testing.T) {
	cat := newCountingCatalog()
	cat.failOp = "add_bitfield"
	_, err := typebuild.NewStruct("Partial").
		Field("a", typebuild.Primitive(typebuild.KindInt32)).
		UnsignedBitfield("bits", 32, 4).
		Build(cat)
	if err == nil {
		t.Fatal("expected catalog error")
	}
	if kind := buildErrKind(t, err); kind != typebuild.ErrCatalog {
		t.Fatalf("expected ErrCatalog, got %d", kind)
	}
	// The shell and its first field stay registered, unfinalized.
	info, ok := cat.inner.Describe(1)
	if !ok || info.Kind != "struct" {
		t.Fatalf("expected partial struct shell at ordinal 1, got %+v", info)
	}
	if info.Finalized {
		t.Fatal("failed build must not finalize the shell")
	}
}

func TestStructBuilderConsumedBySubmission(t *testing.T) {
	cat := newCountingCatalog()
	b := typebuild.NewStruct("Once").Field("x", typebuild.Primitive(typebuild.KindInt8))
	if _, err := b.Build(cat); err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	_, err := b.Build(cat)
	if kind := buildErrKind(t, err); kind != typebuild.ErrBuilderConsumed {
		t.Fatalf("expected ErrBuilderConsumed, got %d", kind)
	}
}

func TestRepeatSubmissionAllocatesFreshOrdinals(t *testing.T) {
	cat := newCountingCatalog()
	build := func() typebuild.Handle {
		h, err := typebuild.NewStruct("Same").
			Field("x", typebuild.Primitive(typebuild.KindInt32)).
			Build(cat)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		return h
	}
	first := build()
	second := build()
	if first.Ordinal() == second.Ordinal() {
		t.Fatal("identical configurations must still receive distinct ordinals")
	}
}
