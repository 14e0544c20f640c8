package replay

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/vovakirdan/myg-arcade/internal/interp"
	"github.com/vovakirdan/myg-arcade/internal/session"
)

// Script lists button presses to apply before a given tick (1-based).
type Script map[uint64][]string

// Run loads source into a fresh session and steps it up to ticks times,
// applying script presses before each tick. The initial snapshot is first
// in the result; stepping ends early when the program halts.
func Run(source string, ticks int, script Script, opts ...session.Option) ([]interp.Snapshot, error) {
	s := session.New(opts...)
	defer s.Close()

	if diags := s.Load(source); len(diags) > 0 {
		return nil, diags
	}

	out := []interp.Snapshot{s.Snapshot()}
	for tick := uint64(1); tick <= uint64(ticks); tick++ {
		for _, label := range script[tick] {
			snap, err := s.PressButton(label)
			if errors.Is(err, session.ErrHalted) {
				continue
			}
			if err != nil {
				return out, fmt.Errorf("replay: tick %d press %q: %w", tick, label, err)
			}
			if snap.Halted {
				// The halting press is the last state the program reaches.
				return append(out, snap), nil
			}
		}
		snap, err := s.Step()
		if errors.Is(err, session.ErrHalted) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("replay: tick %d: %w", tick, err)
		}
		out = append(out, snap)
		if snap.Halted {
			break
		}
	}
	return out, nil
}

// Record runs source like Run and writes every snapshot to rec.
func Record(rec *Recorder, source string, ticks int, script Script, opts ...session.Option) error {
	snaps, err := Run(source, ticks, script, opts...)
	if err != nil {
		return err
	}
	for _, s := range snaps {
		if err := rec.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// DivergenceError reports the first snapshot at which two runs differ.
type DivergenceError struct {
	Index int
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("replay: runs diverge at snapshot %d", e.Index)
}

// Verify runs source twice with the same seed and reports whether the
// snapshot streams are byte-identical.
func Verify(source string, ticks int, seed int64, script Script) error {
	if seed == 0 {
		seed = 1
	}
	a, err := Run(source, ticks, script, session.WithSeed(seed))
	if err != nil {
		return err
	}
	b, err := Run(source, ticks, script, session.WithSeed(seed))
	if err != nil {
		return err
	}
	return Compare(a, b)
}

// Compare checks two snapshot streams for byte equality.
func Compare(a, b []interp.Snapshot) error {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, _ := a[i].MarshalBinary()
		y, _ := b[i].MarshalBinary()
		if !bytes.Equal(x, y) {
			return &DivergenceError{Index: i}
		}
	}
	if len(a) != len(b) {
		return &DivergenceError{Index: n}
	}
	return nil
}
