// Package decl loads declarative type descriptions from TOML files and
// commits them to a catalog through the typebuild builders.
//
// A file is processed in a fixed order — enums, structs, unions, functions —
// and every committed type joins the resolution scope, so later declarations
// can reference earlier ones by name.
package decl

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"
)

// File is the top-level TOML document.
type File struct {
	Structs   []StructDecl `toml:"struct"`
	Unions    []StructDecl `toml:"union"`
	Enums     []EnumDecl   `toml:"enum"`
	Functions []FuncDecl   `toml:"function"`
}

// StructDecl describes one struct or union.
type StructDecl struct {
	Name      string         `toml:"name"`
	Fields    []FieldDecl    `toml:"field"`
	Bitfields []BitfieldDecl `toml:"bitfield"`
}

// FieldDecl describes one aggregate field. Type uses the reference syntax
// understood by parseTypeExpr; Offset pins the field at an explicit byte
// offset when present.
type FieldDecl struct {
	Name   string  `toml:"name"`
	Type   string  `toml:"type"`
	Offset *uint64 `toml:"offset"`
}

// BitfieldDecl describes one bit-packed field.
type BitfieldDecl struct {
	Name   string `toml:"name"`
	Offset uint32 `toml:"offset"` // bits
	Width  uint32 `toml:"width"`  // bits
	Signed bool   `toml:"signed"`
}

// EnumDecl describes one enumeration.
type EnumDecl struct {
	Name    string       `toml:"name"`
	Width   uint32       `toml:"width"`
	Members []MemberDecl `toml:"member"`
}

// MemberDecl describes one enum member. A nil Value auto-increments from the
// previous member.
type MemberDecl struct {
	Name  string `toml:"name"`
	Value *int64 `toml:"value"`
}

// FuncDecl describes one function signature. Pointer additionally commits a
// pointer-to-function and registers that as the named type.
type FuncDecl struct {
	Name        string      `toml:"name"`
	Returns     string      `toml:"returns"`
	Convention  string      `toml:"convention"`
	Vararg      bool        `toml:"vararg"`
	NoReturn    bool        `toml:"noreturn"`
	Pure        bool        `toml:"pure"`
	Static      bool        `toml:"static"`
	Virtual     bool        `toml:"virtual"`
	Const       bool        `toml:"const"`
	Constructor bool        `toml:"constructor"`
	Destructor  bool        `toml:"destructor"`
	Pointer     bool        `toml:"pointer"`
	Params      []ParamDecl `toml:"param"`
}

// ParamDecl describes one function parameter.
type ParamDecl struct {
	Name   string `toml:"name"`
	Type   string `toml:"type"`
	Hidden bool   `toml:"hidden"`
}

// Load reads and validates one declaration file.
func Load(path string) (*File, error) {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undec[0].String())
	}
	f.normalize()
	if err := f.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

// normalize puts every name into NFC so visually identical declarations
// collide deterministically during validation.
func (f *File) normalize() {
	nfc := func(s *string) { *s = norm.NFC.String(strings.TrimSpace(*s)) }
	for i := range f.Structs {
		f.Structs[i].normalize(nfc)
	}
	for i := range f.Unions {
		f.Unions[i].normalize(nfc)
	}
	for i := range f.Enums {
		e := &f.Enums[i]
		nfc(&e.Name)
		for j := range e.Members {
			nfc(&e.Members[j].Name)
		}
	}
	for i := range f.Functions {
		fn := &f.Functions[i]
		nfc(&fn.Name)
		for j := range fn.Params {
			nfc(&fn.Params[j].Name)
		}
	}
}

func (s *StructDecl) normalize(nfc func(*string)) {
	nfc(&s.Name)
	for i := range s.Fields {
		nfc(&s.Fields[i].Name)
	}
	for i := range s.Bitfields {
		nfc(&s.Bitfields[i].Name)
	}
}

// check enforces the schema-level constraints the builders cannot see, such
// as missing names and duplicate top-level declarations.
func (f *File) check() error {
	seen := make(map[string]struct{})
	declare := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("missing name on a %s declaration", kind)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate declaration %q", name)
		}
		seen[name] = struct{}{}
		return nil
	}
	for _, s := range f.Structs {
		if err := declare("struct", s.Name); err != nil {
			return err
		}
		for _, fd := range s.Fields {
			if fd.Type == "" {
				return fmt.Errorf("struct %q: field %q has no type", s.Name, fd.Name)
			}
		}
	}
	for _, u := range f.Unions {
		if err := declare("union", u.Name); err != nil {
			return err
		}
		for _, fd := range u.Fields {
			if fd.Type == "" {
				return fmt.Errorf("union %q: field %q has no type", u.Name, fd.Name)
			}
		}
	}
	for _, e := range f.Enums {
		if err := declare("enum", e.Name); err != nil {
			return err
		}
	}
	for _, fn := range f.Functions {
		if err := declare("function", fn.Name); err != nil {
			return err
		}
		for _, p := range fn.Params {
			if p.Type == "" {
				return fmt.Errorf("function %q: parameter %q has no type", fn.Name, p.Name)
			}
		}
	}
	return nil
}
