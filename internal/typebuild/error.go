package typebuild

import "fmt"

// ErrorKind enumerates builder failure classes. Local validation kinds are
// detected before any catalog mutation; ErrCatalog means a primitive catalog
// operation returned the failure sentinel mid-submission.
type ErrorKind uint8

const (
	// ErrEmptyName indicates a builder with an empty type name.
	ErrEmptyName ErrorKind = iota + 1
	ErrDuplicateName
	ErrBitfieldOverlap
	ErrInvalidEnumWidth
	ErrConflictingAttributes
	ErrSelfReference
	ErrInvalidFieldType
	ErrBuilderConsumed
	ErrCatalog
)

// BuildError is the single failure value every builder surfaces. Type names
// the type under construction when known, Detail the offending field, member
// or parameter, and Op the failing catalog operation for ErrCatalog.
type BuildError struct {
	Kind   ErrorKind
	Type   string
	Detail string
	Op     string
}

func (e *BuildError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrEmptyName:
		return "type name cannot be empty"
	case ErrDuplicateName:
		return fmt.Sprintf("duplicate name %q in %s", e.Detail, e.typeLabel())
	case ErrBitfieldOverlap:
		return fmt.Sprintf("bitfield %q overlaps another bitfield in %s", e.Detail, e.typeLabel())
	case ErrInvalidEnumWidth:
		return fmt.Sprintf("invalid enum width %s (must be 1, 2, 4 or 8)", e.Detail)
	case ErrConflictingAttributes:
		return "function cannot be both constructor and destructor"
	case ErrSelfReference:
		if e.Detail != "" {
			return fmt.Sprintf("self-reference not supported in %s", e.Detail)
		}
		return "self-reference not supported here"
	case ErrInvalidFieldType:
		return fmt.Sprintf("invalid type for %q in %s", e.Detail, e.typeLabel())
	case ErrBuilderConsumed:
		return fmt.Sprintf("builder for %s already submitted", e.typeLabel())
	case ErrCatalog:
		if e.Detail != "" {
			return fmt.Sprintf("catalog operation %s failed for %q in %s", e.Op, e.Detail, e.typeLabel())
		}
		return fmt.Sprintf("catalog operation %s failed for %s", e.Op, e.typeLabel())
	default:
		return fmt.Sprintf("build error kind=%d type=%s", e.Kind, e.typeLabel())
	}
}

func (e *BuildError) typeLabel() string {
	if e.Type == "" {
		return "<unnamed>"
	}
	return e.Type
}
