// Package replay records snapshot streams to zstd-compressed files and
// checks programs for deterministic playback.
package replay

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/myg-arcade/internal/interp"
)

var magic = []byte("MYGR\x01")

// ErrBadHeader is returned when a stream is not a recording.
var ErrBadHeader = errors.New("replay: not a recording")

// Recorder writes snapshots as length-prefixed frames inside one zstd stream.
type Recorder struct {
	enc   *zstd.Encoder
	count int
}

// NewRecorder starts a recording on w. Close must be called to flush it.
func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("replay: create encoder: %w", err)
	}
	if _, err := enc.Write(magic); err != nil {
		enc.Close()
		return nil, fmt.Errorf("replay: write header: %w", err)
	}
	return &Recorder{enc: enc}, nil
}

// Write appends one snapshot.
func (r *Recorder) Write(s interp.Snapshot) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return fmt.Errorf("replay: encode snapshot: %w", err)
	}
	frame := binary.AppendUvarint(nil, uint64(len(data)))
	frame = append(frame, data...)
	if _, err := r.enc.Write(frame); err != nil {
		return fmt.Errorf("replay: write snapshot: %w", err)
	}
	r.count++
	return nil
}

// Count returns the number of snapshots written.
func (r *Recorder) Count() int {
	return r.count
}

// Close flushes the stream. It does not close the underlying writer.
func (r *Recorder) Close() error {
	if err := r.enc.Close(); err != nil {
		return fmt.Errorf("replay: close encoder: %w", err)
	}
	return nil
}

// Reader reads snapshots back from a recording.
type Reader struct {
	dec *zstd.Decoder
	br  *bufio.Reader
}

// NewReader opens a recording and checks its header.
func NewReader(r io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("replay: create decoder: %w", err)
	}
	br := bufio.NewReader(dec)

	header := make([]byte, len(magic))
	if _, err := io.ReadFull(br, header); err != nil || !bytes.Equal(header, magic) {
		dec.Close()
		return nil, ErrBadHeader
	}
	return &Reader{dec: dec, br: br}, nil
}

// Next returns the next snapshot, or io.EOF at the end of the recording.
func (r *Reader) Next() (interp.Snapshot, error) {
	n, err := binary.ReadUvarint(r.br)
	if err == io.EOF {
		return interp.Snapshot{}, io.EOF
	}
	if err != nil {
		return interp.Snapshot{}, fmt.Errorf("replay: read frame: %w", err)
	}

	data := make([]byte, n)
	if _, err := io.ReadFull(r.br, data); err != nil {
		return interp.Snapshot{}, fmt.Errorf("replay: read snapshot: %w", err)
	}

	var s interp.Snapshot
	if err := s.UnmarshalBinary(data); err != nil {
		return interp.Snapshot{}, err
	}
	return s, nil
}

// Close releases the decoder.
func (r *Reader) Close() {
	r.dec.Close()
}

// ReadAll reads every snapshot of a recording.
func ReadAll(rd io.Reader) ([]interp.Snapshot, error) {
	r, err := NewReader(rd)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []interp.Snapshot
	for {
		s, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
}
