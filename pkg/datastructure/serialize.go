package datastructure

import (
	"bytes"
	stdbinary "encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/kelindar/binary"
)

const (
	// graphTag. versi layout body graph.
	graphTag byte = 1
)

var (
	ErrUnknownGraphTag = errors.New("unknown graph serialization tag")
	ErrCorruptGraph    = errors.New("corrupt graph data")
)

/*
writeSnapshot. layout:

	| tag (1 byte) | body length (8 byte, little endian) | body (kelindar/binary) |
*/
func writeSnapshot(w io.Writer, snapshot interface{}) (int64, error) {
	body, err := binary.Marshal(snapshot)
	if err != nil {
		return 0, fmt.Errorf("encode graph body: %w", err)
	}

	header := make([]byte, 9)
	header[0] = graphTag
	stdbinary.LittleEndian.PutUint64(header[1:], uint64(len(body)))

	n, err := w.Write(header)
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(body)
	return int64(n + m), err
}

func readSnapshot(r io.Reader, snapshot interface{}) error {
	header := make([]byte, 9)
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("read graph header: %v: %w", err, ErrCorruptGraph)
	}
	if header[0] != graphTag {
		return fmt.Errorf("tag %d: %w", header[0], ErrUnknownGraphTag)
	}

	body, err := ReadSized(r, stdbinary.LittleEndian.Uint64(header[1:]))
	if err != nil {
		return fmt.Errorf("read graph body: %w", err)
	}
	if err := UnmarshalBody(body, snapshot); err != nil {
		return fmt.Errorf("decode graph body: %w", err)
	}
	return nil
}

/*
ReadSized. baca tepat length byte dari r. length berasal dari stream, jadi tidak dipakai langsung buat alokasi:
bytes.Reader dicek ke sisa datanya, reader lain dibaca lewat buffer yang tumbuh sesuai data yang benar-benar datang.
*/
func ReadSized(r io.Reader, length uint64) ([]byte, error) {
	if length > math.MaxInt64 {
		return nil, fmt.Errorf("length %d: %w", length, ErrCorruptGraph)
	}
	if br, ok := r.(*bytes.Reader); ok {
		if length > uint64(br.Len()) {
			return nil, fmt.Errorf("length %d, %d bytes left: %w", length, br.Len(), ErrCorruptGraph)
		}
		body := make([]byte, length)
		if _, err := io.ReadFull(br, body); err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrCorruptGraph)
		}
		return body, nil
	}

	var buf bytes.Buffer
	n, err := io.CopyN(&buf, r, int64(length))
	if err != nil {
		return nil, fmt.Errorf("length %d, got %d bytes (%v): %w", length, n, err, ErrCorruptGraph)
	}
	return buf.Bytes(), nil
}

// UnmarshalBody. kelindar/binary decode, panic decoder karena data rusak jadi ErrCorruptGraph.
func UnmarshalBody(body []byte, v interface{}) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v: %w", rec, ErrCorruptGraph)
		}
	}()
	if err := binary.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%v: %w", err, ErrCorruptGraph)
	}
	return nil
}
