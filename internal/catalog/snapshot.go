package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when snapshotPayload format changes
const snapshotSchemaVersion uint16 = 1

// snapshotPayload is the on-disk form of a memory catalog.
type snapshotPayload struct {
	Schema  uint16
	Triple  string
	PtrSize int
	Entries []entry
}

// SaveSnapshot writes the catalog to path as a msgpack blob. The write is
// atomic (temp file + rename) so a crash never leaves a truncated snapshot.
func (m *Memory) SaveSnapshot(path string) error {
	m.mu.RLock()
	payload := snapshotPayload{
		Schema:  snapshotSchemaVersion,
		Triple:  m.target.Triple,
		PtrSize: m.target.PtrSize,
		Entries: append([]entry(nil), m.entries...),
	}
	m.mu.RUnlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp) //nolint:errcheck // best effort; gone after rename

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&payload); err != nil {
		f.Close() //nolint:errcheck,gosec
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSnapshot reads a memory catalog previously written by SaveSnapshot.
// A missing file is reported as (nil, false, nil) so callers can start
// from an empty catalog.
func LoadSnapshot(path string) (*Memory, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var payload snapshotPayload
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("%s: failed to decode snapshot: %w", path, err)
	}
	if payload.Schema != snapshotSchemaVersion {
		return nil, false, fmt.Errorf("%s: snapshot schema %d unsupported (want %d)",
			path, payload.Schema, snapshotSchemaVersion)
	}
	if len(payload.Entries) == 0 {
		payload.Entries = make([]entry, 1)
	}

	m := NewMemory(Target{Triple: payload.Triple, PtrSize: payload.PtrSize})
	m.entries = payload.Entries
	for ord := Ordinal(1); int(ord) < len(m.entries); ord++ {
		e := &m.entries[ord]
		switch e.Kind {
		case entryPrimitive:
			m.primitives[e.Code] = ord
		case entryPointer:
			if _, ok := m.pointers[e.Elem]; !ok {
				m.pointers[e.Elem] = ord
			}
		}
	}
	return m, true, nil
}
