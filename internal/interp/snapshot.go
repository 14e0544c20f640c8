package interp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

// Snapshot is the projected state after a tick or press. It shares nothing
// with the machine and may be retained.
type Snapshot struct {
	Tick    uint64
	Halted  bool
	Vars    map[string]int
	Grid    Grid
	Display []string
	Buttons []string
}

// Var returns a variable's value, 0 if undeclared.
func (s Snapshot) Var(name string) int {
	return s.Vars[name]
}

// DisplayValues pairs each display name with its current value.
func (s Snapshot) DisplayValues() []NamedValue {
	out := make([]NamedValue, len(s.Display))
	for i, name := range s.Display {
		out[i] = NamedValue{Name: name, Value: s.Vars[name]}
	}
	return out
}

// NamedValue is one displayed variable.
type NamedValue struct {
	Name  string
	Value int
}

const snapshotVersion = 1

var errShortSnapshot = errors.New("interp: truncated snapshot")

// MarshalBinary encodes the snapshot canonically: variables are written in
// name order, so equal snapshots always encode to equal bytes.
func (s Snapshot) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 64+GridSize*GridSize)
	buf = append(buf, snapshotVersion)
	buf = binary.AppendUvarint(buf, s.Tick)
	if s.Halted {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	names := make([]string, 0, len(s.Vars))
	for k := range s.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	buf = binary.AppendUvarint(buf, uint64(len(names)))
	for _, k := range names {
		buf = appendString(buf, k)
		buf = binary.AppendVarint(buf, int64(s.Vars[k]))
	}

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			buf = binary.AppendVarint(buf, int64(s.Grid[y][x]))
		}
	}

	buf = appendStrings(buf, s.Display)
	buf = appendStrings(buf, s.Buttons)
	return buf, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	r := &byteReader{buf: data}

	if v := r.u8(); v != snapshotVersion {
		if r.err != nil {
			return r.err
		}
		return fmt.Errorf("interp: unsupported snapshot version %d", v)
	}

	var out Snapshot
	out.Tick = r.uvarint()
	out.Halted = r.u8() == 1

	n := r.uvarint()
	if r.err == nil && n > uint64(len(data)) {
		return errShortSnapshot
	}
	out.Vars = make(map[string]int, n)
	for i := uint64(0); i < n && r.err == nil; i++ {
		k := r.str()
		out.Vars[k] = int(r.varint())
	}

	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			out.Grid[y][x] = int(r.varint())
		}
	}

	out.Display = r.strs()
	out.Buttons = r.strs()

	if r.err != nil {
		return r.err
	}
	*s = out
	return nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendStrings(buf []byte, ss []string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(ss)))
	for _, s := range ss {
		buf = appendString(buf, s)
	}
	return buf
}

// byteReader decodes the snapshot format, latching the first error.
type byteReader struct {
	buf []byte
	err error
}

func (r *byteReader) u8() byte {
	if r.err != nil {
		return 0
	}
	if len(r.buf) == 0 {
		r.err = errShortSnapshot
		return 0
	}
	b := r.buf[0]
	r.buf = r.buf[1:]
	return b
}

func (r *byteReader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf)
	if n <= 0 {
		r.err = errShortSnapshot
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *byteReader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Varint(r.buf)
	if n <= 0 {
		r.err = errShortSnapshot
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *byteReader) str() string {
	n := r.uvarint()
	if r.err != nil {
		return ""
	}
	if n > uint64(len(r.buf)) {
		r.err = errShortSnapshot
		return ""
	}
	s := string(r.buf[:n])
	r.buf = r.buf[n:]
	return s
}

func (r *byteReader) strs() []string {
	n := r.uvarint()
	if r.err != nil {
		return nil
	}
	if n > uint64(len(r.buf)) {
		r.err = errShortSnapshot
		return nil
	}
	var out []string
	for i := uint64(0); i < n && r.err == nil; i++ {
		out = append(out, r.str())
	}
	return out
}
