package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MaxStringBytes is the widest UTF-8 payload one string field can carry,
// bounded by the 2-byte big-endian length prefix.
const MaxStringBytes = 1<<16 - 1

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > MaxStringBytes {
		return fmt.Errorf("%w: %d bytes", ErrOverflow, len(s))
	}
	var prefix [2]byte
	binary.BigEndian.PutUint16(prefix[:], uint16(len(s)))
	buf.Write(prefix[:])
	buf.WriteString(s)
	return nil
}

func writeBool(buf *bytes.Buffer, v bool) {
	b := byte(0x00)
	if v {
		b = 0x01
	}
	buf.WriteByte(b)
}

// reader walks a payload and fails closed on any overrun.
type reader struct {
	data []byte
	off  int
}

func (r *reader) readString() (string, error) {
	if len(r.data)-r.off < 2 {
		return "", fmt.Errorf("%w: short length prefix at offset %d", ErrMalformed, r.off)
	}
	n := int(binary.BigEndian.Uint16(r.data[r.off : r.off+2]))
	r.off += 2
	if len(r.data)-r.off < n {
		return "", fmt.Errorf("%w: string of %d bytes overruns payload at offset %d", ErrMalformed, n, r.off)
	}
	s := string(r.data[r.off : r.off+n])
	r.off += n
	return s, nil
}

func (r *reader) readBool() (bool, error) {
	if len(r.data)-r.off < 1 {
		return false, fmt.Errorf("%w: missing bool byte at offset %d", ErrMalformed, r.off)
	}
	b := r.data[r.off]
	r.off++
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool byte 0x%02x", ErrMalformed, b)
	}
}

func (r *reader) finish() error {
	if r.off != len(r.data) {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(r.data)-r.off)
	}
	return nil
}
