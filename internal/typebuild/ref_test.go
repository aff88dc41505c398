package typebuild_test

import (
	"testing"

	"typeforge/internal/typebuild"
)

func TestArrayOverPrimitive(t *testing.T) {
	cat := newCountingCatalog()
	h, err := typebuild.NewArray(typebuild.Primitive(typebuild.KindInt32), 10).Build(cat)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if got := cat.inner.TypeSize(h.Ordinal()); got != 40 {
		t.Fatalf("array size %d, want 40", got)
	}
}

func TestZeroLengthArrayPermitted(t *testing.T) {
	cat := newCountingCatalog()
	h, err := typebuild.NewArray(typebuild.Primitive(typebuild.KindUInt8), 0).Build(cat)
	if err != nil {
		t.Fatalf("zero-length arrays are legal: %v", err)
	}
	if got := cat.inner.TypeSize(h.Ordinal()); got != 0 {
		t.Fatalf("zero-length array size %d, want 0", got)
	}
}

func TestArrayRejectsSelfReference(t *testing.T) {
	cat := newCountingCatalog()
	_, err := typebuild.NewArray(typebuild.Self(), 4).Build(cat)
	if kind := buildErrKind(t, err); kind != typebuild.ErrSelfReference {
		t.Fatalf("expected ErrSelfReference, got %d", kind)
	}
	if cat.mutations != 0 {
		t.Fatal("catalog mutated before resolution failure")
	}
}

func TestPointerRejectsSelfReference(t *testing.T) {
	cat := newCountingCatalog()
	_, err := typebuild.NewPointer(typebuild.Self()).Build(cat)
	if kind := buildErrKind(t, err); kind != typebuild.ErrSelfReference {
		t.Fatalf("expected ErrSelfReference, got %d", kind)
	}
}

func TestPointerOverExistingType(t *testing.T) {
	cat := newCountingCatalog()
	e, err := typebuild.NewEnum("Color", 4).
		AutoMember("Red").
		AutoMember("Green").
		Build(cat)
	if err != nil {
		t.Fatalf("enum build failed: %v", err)
	}
	p, err := typebuild.NewPointer(typebuild.Existing(e)).Build(cat)
	if err != nil {
		t.Fatalf("pointer build failed: %v", err)
	}
	if got := cat.inner.TypeSize(p.Ordinal()); got != 8 {
		t.Fatalf("pointer size %d, want 8", got)
	}
}

func TestPrimitiveKindsResolveAndDeduplicate(t *testing.T) {
	cat := newCountingCatalog()
	a, err := typebuild.KindInt32.Type(cat)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	b, err := typebuild.KindInt32.Type(cat)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if a.Ordinal() != b.Ordinal() {
		t.Fatal("same primitive kind must share an ordinal")
	}

	// Char shares the signed byte code, Bool the engine's 0x08 encoding.
	i8, _ := typebuild.KindInt8.Type(cat)
	ch, _ := typebuild.KindChar.Type(cat)
	if i8.Ordinal() != ch.Ordinal() {
		t.Fatal("char must share int8's ordinal")
	}
	u64, _ := typebuild.KindUInt64.Type(cat)
	bl, _ := typebuild.KindBool.Type(cat)
	if u64.Ordinal() != bl.Ordinal() {
		t.Fatal("bool must share uint64's ordinal")
	}
}

func TestHandleFromOrdinalRoundTrip(t *testing.T) {
	h := typebuild.HandleFromOrdinal(42)
	if !h.Valid() || h.Ordinal() != 42 {
		t.Fatalf("handle round-trip broken: %+v", h)
	}
	var zero typebuild.Handle
	if zero.Valid() {
		t.Fatal("zero handle must be invalid")
	}
}
