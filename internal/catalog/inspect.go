package catalog

import "fmt"

// Info is a read-only description of one committed type.
type Info struct {
	Ordinal   Ordinal
	Kind      string
	Name      string
	Size      uint64
	Finalized bool
}

// OrdinalLimit returns the first unallocated ordinal. Valid ordinals are
// 1..OrdinalLimit-1.
func (m *Memory) OrdinalLimit() Ordinal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Ordinal(len(m.entries)) //nolint:gosec // bounded by alloc's safecast
}

// ValidOrdinal reports whether the ordinal refers to a committed type.
func (m *Memory) ValidOrdinal(ord Ordinal) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entryFor(ord) != nil
}

// TypeName returns a display name for a committed type. Unnamed derived
// types (arrays, pointers) get a synthesized spelling.
func (m *Memory) TypeName(ord Ordinal) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.displayName(ord, 0)
}

func (m *Memory) displayName(ord Ordinal, depth int) string {
	if depth > 16 {
		return fmt.Sprintf("type#%d", ord)
	}
	e := m.entryFor(ord)
	if e == nil {
		return ""
	}
	if e.Name != "" {
		return e.Name
	}
	switch e.Kind {
	case entryArray:
		return fmt.Sprintf("[%d]%s", e.Count, m.displayName(e.Elem, depth+1))
	case entryPointer:
		return "*" + m.displayName(e.Elem, depth+1)
	case entryFunction:
		return fmt.Sprintf("func#%d", ord)
	default:
		return fmt.Sprintf("type#%d", ord)
	}
}

// Describe returns the Info for one ordinal.
func (m *Memory) Describe(ord Ordinal) (Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.entryFor(ord)
	if e == nil {
		return Info{}, false
	}
	return Info{
		Ordinal:   ord,
		Kind:      e.Kind.String(),
		Name:      m.displayName(ord, 0),
		Size:      m.sizeOf(ord, 0),
		Finalized: e.Finalized,
	}, true
}

// List returns every committed type in ordinal order.
func (m *Memory) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]Info, 0, len(m.entries)-1)
	for ord := Ordinal(1); int(ord) < len(m.entries); ord++ {
		e := m.entryFor(ord)
		infos = append(infos, Info{
			Ordinal:   ord,
			Kind:      e.Kind.String(),
			Name:      m.displayName(ord, 0),
			Size:      m.sizeOf(ord, 0),
			Finalized: e.Finalized,
		})
	}
	return infos
}
