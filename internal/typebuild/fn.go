package typebuild

import "typeforge/internal/catalog"

type funcParam struct {
	name   string
	ref    Ref
	hidden bool
}

type funcAttrs struct {
	noReturn    bool
	pure        bool
	static      bool
	virtual     bool
	constFn     bool
	constructor bool
	destructor  bool
}

// FuncBuilder accumulates a function signature: an optional return type, an
// ordered parameter list, a calling convention, a vararg flag and an
// attribute set.
type FuncBuilder struct {
	ret    Ref // zero value means void
	params []funcParam
	cc     CallingConvention
	vararg bool
	attrs  funcAttrs
	built  bool
}

// NewFunc starts a function-signature builder with an unknown calling
// convention and a void return.
func NewFunc() *FuncBuilder {
	return &FuncBuilder{cc: CCUnknown}
}

// Returns sets the return type.
func (b *FuncBuilder) Returns(ref Ref) *FuncBuilder {
	b.ret = ref
	return b
}

// Param appends a parameter. An empty name declares a deliberately
// anonymous parameter.
func (b *FuncBuilder) Param(name string, ref Ref) *FuncBuilder {
	b.params = append(b.params, funcParam{name: name, ref: ref})
	return b
}

// HiddenParam appends an implicit parameter, such as a this-style receiver.
func (b *FuncBuilder) HiddenParam(name string, ref Ref) *FuncBuilder {
	b.params = append(b.params, funcParam{name: name, ref: ref, hidden: true})
	return b
}

// CallingConvention selects the calling convention.
func (b *FuncBuilder) CallingConvention(cc CallingConvention) *FuncBuilder {
	b.cc = cc
	return b
}

// Vararg sets the variadic flag.
func (b *FuncBuilder) Vararg(vararg bool) *FuncBuilder {
	b.vararg = vararg
	return b
}

// NoReturn marks the function as never returning.
func (b *FuncBuilder) NoReturn() *FuncBuilder {
	b.attrs.noReturn = true
	return b
}

// Pure marks the function as side-effect free.
func (b *FuncBuilder) Pure() *FuncBuilder {
	b.attrs.pure = true
	return b
}

// Static marks the function as a static member.
func (b *FuncBuilder) Static() *FuncBuilder {
	b.attrs.static = true
	return b
}

// Virtual marks the function as a virtual member.
func (b *FuncBuilder) Virtual() *FuncBuilder {
	b.attrs.virtual = true
	return b
}

// Const marks the function as a const member.
func (b *FuncBuilder) Const() *FuncBuilder {
	b.attrs.constFn = true
	return b
}

// Constructor marks the function as a constructor. Mutually exclusive with
// Destructor.
func (b *FuncBuilder) Constructor() *FuncBuilder {
	b.attrs.constructor = true
	return b
}

// Destructor marks the function as a destructor. Mutually exclusive with
// Constructor.
func (b *FuncBuilder) Destructor() *FuncBuilder {
	b.attrs.destructor = true
	return b
}

func (b *FuncBuilder) validate() *BuildError {
	// Anonymous parameters may repeat; named ones must be unique.
	names := make(map[string]struct{}, len(b.params))
	for _, p := range b.params {
		if p.name == "" {
			continue
		}
		if _, dup := names[p.name]; dup {
			return &BuildError{Kind: ErrDuplicateName, Type: "function", Detail: p.name}
		}
		names[p.name] = struct{}{}
	}
	if b.attrs.constructor && b.attrs.destructor {
		return &BuildError{Kind: ErrConflictingAttributes, Type: "function"}
	}
	return nil
}

// Build validates the signature, commits it to the catalog and returns its
// handle. The builder is consumed.
func (b *FuncBuilder) Build(cat catalog.Catalog) (Handle, error) {
	if b.built {
		return Handle{}, &BuildError{Kind: ErrBuilderConsumed, Type: "function"}
	}
	if err := b.validate(); err != nil {
		return Handle{}, err
	}
	b.built = true

	// Absent return encodes as ordinal 0 ("void") — the one place the
	// sentinel is a legal input.
	var ret catalog.Ordinal
	switch b.ret.kind {
	case refInvalid:
		ret = catalog.NoOrdinal
	case refPrimitive:
		ret = cat.PrimitiveOrdinal(b.ret.prim.Code())
		if ret == catalog.NoOrdinal {
			return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: "function", Detail: "return"}
		}
	case refExisting:
		ret = b.ret.typ.Ordinal()
	case refSelf:
		return Handle{}, &BuildError{Kind: ErrSelfReference, Detail: "return types"}
	}

	fn := cat.CreateFunction(ret, b.cc.code(), b.vararg)
	if fn == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: "function", Op: "create_function"}
	}

	for _, p := range b.params {
		var paramType catalog.Ordinal
		switch p.ref.kind {
		case refPrimitive:
			paramType = cat.PrimitiveOrdinal(p.ref.prim.Code())
		case refExisting:
			paramType = p.ref.typ.Ordinal()
		case refSelf:
			return Handle{}, &BuildError{Kind: ErrSelfReference, Detail: "parameter types"}
		default:
			return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: "function", Detail: p.name}
		}
		if paramType == catalog.NoOrdinal {
			return Handle{}, &BuildError{Kind: ErrInvalidFieldType, Type: "function", Detail: p.name}
		}
		if !cat.AddParameter(fn, p.name, paramType, p.hidden) {
			return Handle{}, &BuildError{Kind: ErrCatalog, Type: "function", Detail: p.name, Op: "add_parameter"}
		}
	}

	if !cat.SetFunctionAttributes(fn,
		b.attrs.noReturn, b.attrs.pure, b.attrs.static, b.attrs.virtual,
		b.attrs.constFn, b.attrs.constructor, b.attrs.destructor) {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: "function", Op: "set_function_attributes"}
	}
	if !cat.Finalize(fn) {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: "function", Op: "finalize"}
	}
	return Handle{ord: fn}, nil
}

// FuncPointerBuilder wraps an already-committed function signature in a
// pointer-to-function type. Passing a handle that is not a function
// signature surfaces as a catalog error, not a client-side one.
type FuncPointerBuilder struct {
	fn    Handle
	built bool
}

// NewFuncPointer starts a function-pointer builder.
func NewFuncPointer(fn Handle) *FuncPointerBuilder {
	return &FuncPointerBuilder{fn: fn}
}

// Build commits the function pointer.
func (b *FuncPointerBuilder) Build(cat catalog.Catalog) (Handle, error) {
	if b.built {
		return Handle{}, &BuildError{Kind: ErrBuilderConsumed, Type: "function pointer"}
	}
	b.built = true

	ord := cat.CreateFunctionPointer(b.fn.Ordinal())
	if ord == catalog.NoOrdinal {
		return Handle{}, &BuildError{Kind: ErrCatalog, Type: "function pointer", Op: "create_function_pointer"}
	}
	return Handle{ord: ord}, nil
}
