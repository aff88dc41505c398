package decl

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"typeforge/internal/catalog"
	"typeforge/internal/typebuild"
)

// Committed records one named type the file committed.
type Committed struct {
	Name   string
	Kind   string // struct, union, enum, function, function pointer
	Handle typebuild.Handle
}

// Result is the outcome of committing one declaration file.
type Result struct {
	Types []Committed
}

// Handle returns the handle registered under name.
func (r *Result) Handle(name string) (typebuild.Handle, bool) {
	for _, c := range r.Types {
		if c.Name == name {
			return c.Handle, true
		}
	}
	return typebuild.Handle{}, false
}

// Commit builds every declaration in the file against the catalog. Types
// commit in a fixed order — enums, structs, unions, functions — and each
// committed type becomes referenceable by name in later declarations.
// Commit stops at the first failure; already-committed types stay in the
// catalog.
func Commit(cat catalog.Catalog, f *File) (*Result, error) {
	res := &Result{}
	scope := make(map[string]typebuild.Handle)
	record := func(name, kind string, h typebuild.Handle) {
		scope[name] = h
		res.Types = append(res.Types, Committed{Name: name, Kind: kind, Handle: h})
	}

	for _, e := range f.Enums {
		b := typebuild.NewEnum(e.Name, e.Width)
		for _, m := range e.Members {
			if m.Value != nil {
				b.Member(m.Name, *m.Value)
			} else {
				b.AutoMember(m.Name)
			}
		}
		h, err := b.Build(cat)
		if err != nil {
			return res, fmt.Errorf("enum %q: %w", e.Name, err)
		}
		record(e.Name, "enum", h)
	}

	for _, s := range f.Structs {
		h, err := commitAggregate(cat, &s, false, scope)
		if err != nil {
			return res, err
		}
		record(s.Name, "struct", h)
	}
	for _, u := range f.Unions {
		h, err := commitAggregate(cat, &u, true, scope)
		if err != nil {
			return res, err
		}
		record(u.Name, "union", h)
	}

	for _, fn := range f.Functions {
		h, kind, err := commitFunction(cat, &fn, scope)
		if err != nil {
			return res, err
		}
		record(fn.Name, kind, h)
	}
	return res, nil
}

func commitAggregate(cat catalog.Catalog, s *StructDecl, isUnion bool, scope map[string]typebuild.Handle) (typebuild.Handle, error) {
	label := "struct"
	b := typebuild.NewStruct(s.Name)
	if isUnion {
		label = "union"
		b = typebuild.NewUnion(s.Name)
	}
	for _, fd := range s.Fields {
		ref, err := resolveTypeExpr(cat, fd.Type, scope)
		if err != nil {
			return typebuild.Handle{}, fmt.Errorf("%s %q: field %q: %w", label, s.Name, fd.Name, err)
		}
		if fd.Offset != nil {
			b.FieldAt(fd.Name, ref, *fd.Offset)
		} else {
			b.Field(fd.Name, ref)
		}
	}
	for _, bf := range s.Bitfields {
		if bf.Signed {
			b.SignedBitfield(bf.Name, bf.Offset, bf.Width)
		} else {
			b.UnsignedBitfield(bf.Name, bf.Offset, bf.Width)
		}
	}
	h, err := b.Build(cat)
	if err != nil {
		return typebuild.Handle{}, fmt.Errorf("%s %q: %w", label, s.Name, err)
	}
	return h, nil
}

func commitFunction(cat catalog.Catalog, fn *FuncDecl, scope map[string]typebuild.Handle) (typebuild.Handle, string, error) {
	b := typebuild.NewFunc()
	if fn.Returns != "" && fn.Returns != "void" {
		ref, err := resolveTypeExpr(cat, fn.Returns, scope)
		if err != nil {
			return typebuild.Handle{}, "", fmt.Errorf("function %q: return: %w", fn.Name, err)
		}
		b.Returns(ref)
	}
	cc, err := parseConvention(fn.Convention)
	if err != nil {
		return typebuild.Handle{}, "", fmt.Errorf("function %q: %w", fn.Name, err)
	}
	b.CallingConvention(cc)
	b.Vararg(fn.Vararg)
	for _, p := range fn.Params {
		ref, err := resolveTypeExpr(cat, p.Type, scope)
		if err != nil {
			return typebuild.Handle{}, "", fmt.Errorf("function %q: parameter %q: %w", fn.Name, p.Name, err)
		}
		if p.Hidden {
			b.HiddenParam(p.Name, ref)
		} else {
			b.Param(p.Name, ref)
		}
	}
	if fn.NoReturn {
		b.NoReturn()
	}
	if fn.Pure {
		b.Pure()
	}
	if fn.Static {
		b.Static()
	}
	if fn.Virtual {
		b.Virtual()
	}
	if fn.Const {
		b.Const()
	}
	if fn.Constructor {
		b.Constructor()
	}
	if fn.Destructor {
		b.Destructor()
	}

	h, err := b.Build(cat)
	if err != nil {
		return typebuild.Handle{}, "", fmt.Errorf("function %q: %w", fn.Name, err)
	}
	if !fn.Pointer {
		return h, "function", nil
	}
	fp, err := typebuild.NewFuncPointer(h).Build(cat)
	if err != nil {
		return typebuild.Handle{}, "", fmt.Errorf("function %q: pointer: %w", fn.Name, err)
	}
	return fp, "function pointer", nil
}

// resolveTypeExpr resolves a reference expression to a Ref, committing
// intermediate pointer/array types as needed. Syntax:
//
//	int32 uint8 double ...   primitive
//	self                     the aggregate under construction
//	*T                       pointer to T
//	[N]T                     array of N elements of T
//	Name                     a type declared earlier
func resolveTypeExpr(cat catalog.Catalog, expr string, scope map[string]typebuild.Handle) (typebuild.Ref, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return typebuild.Ref{}, fmt.Errorf("empty type expression")

	case expr == "self":
		return typebuild.Self(), nil

	case strings.HasPrefix(expr, "*"):
		inner, err := resolveTypeExpr(cat, expr[1:], scope)
		if err != nil {
			return typebuild.Ref{}, err
		}
		h, err := typebuild.NewPointer(inner).Build(cat)
		if err != nil {
			return typebuild.Ref{}, err
		}
		return typebuild.Existing(h), nil

	case strings.HasPrefix(expr, "["):
		end := strings.IndexByte(expr, ']')
		if end < 0 {
			return typebuild.Ref{}, fmt.Errorf("malformed array type %q", expr)
		}
		n, err := strconv.ParseUint(strings.TrimSpace(expr[1:end]), 10, 32)
		if err != nil {
			return typebuild.Ref{}, fmt.Errorf("malformed array length in %q: %w", expr, err)
		}
		count, err := safecast.Conv[uint32](n)
		if err != nil {
			return typebuild.Ref{}, fmt.Errorf("array length overflow in %q: %w", expr, err)
		}
		inner, err := resolveTypeExpr(cat, expr[end+1:], scope)
		if err != nil {
			return typebuild.Ref{}, err
		}
		h, err := typebuild.NewArray(inner, count).Build(cat)
		if err != nil {
			return typebuild.Ref{}, err
		}
		return typebuild.Existing(h), nil
	}

	if k, ok := primitiveKinds[expr]; ok {
		return typebuild.Primitive(k), nil
	}
	if h, ok := scope[expr]; ok {
		return typebuild.Existing(h), nil
	}
	return typebuild.Ref{}, fmt.Errorf("unknown type %q (types must be declared before use)", expr)
}

var primitiveKinds = map[string]typebuild.Kind{
	"void":   typebuild.KindVoid,
	"int8":   typebuild.KindInt8,
	"int16":  typebuild.KindInt16,
	"int32":  typebuild.KindInt32,
	"int64":  typebuild.KindInt64,
	"uint8":  typebuild.KindUInt8,
	"uint16": typebuild.KindUInt16,
	"uint32": typebuild.KindUInt32,
	"uint64": typebuild.KindUInt64,
	"float":  typebuild.KindFloat,
	"double": typebuild.KindDouble,
	"char":   typebuild.KindChar,
	"bool":   typebuild.KindBool,
}

func parseConvention(name string) (typebuild.CallingConvention, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unknown":
		return typebuild.CCUnknown, nil
	case "cdecl":
		return typebuild.CCCdecl, nil
	case "stdcall":
		return typebuild.CCStdcall, nil
	case "pascal":
		return typebuild.CCPascal, nil
	case "fastcall":
		return typebuild.CCFastcall, nil
	case "thiscall":
		return typebuild.CCThiscall, nil
	case "swift":
		return typebuild.CCSwift, nil
	case "golang":
		return typebuild.CCGolang, nil
	}
	// Numeric escape for conventions the names above do not cover.
	code, err := strconv.ParseUint(strings.TrimSpace(name), 0, 32)
	if err != nil {
		return typebuild.CCUnknown, fmt.Errorf("unknown calling convention %q", name)
	}
	c, err := safecast.Conv[uint32](code)
	if err != nil {
		return typebuild.CCUnknown, fmt.Errorf("calling convention code overflow %q", name)
	}
	return typebuild.CustomCallingConvention(c), nil
}
