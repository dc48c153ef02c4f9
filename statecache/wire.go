package statecache

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/de-upayan/wordle-engine/feedback"
)

// wireWordLen is the fixed word length the §6.3 binary layout encodes,
// matching feedback.Length.
const wireWordLen = feedback.Length

// WriteU8 writes a single byte.
func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

// ReadU8 reads a single byte.
func ReadU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// WriteU32 writes v little-endian, per spec.md §6.3 "all integers
// little-endian".
func WriteU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// ReadU32 reads a little-endian uint32.
func ReadU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeU32(w io.Writer, v uint32) error { return WriteU32(w, v) }
func readU32(r io.Reader) (uint32, error)  { return ReadU32(r) }

// WriteWord writes a word record: is_solution:u8, len:u8, bytes[len],
// per spec.md §6.3.
func WriteWord(w io.Writer, text string, isSolution bool) error {
	var sol uint8
	if isSolution {
		sol = 1
	}
	if err := WriteU8(w, sol); err != nil {
		return err
	}
	if err := WriteU8(w, uint8(len(text))); err != nil {
		return err
	}
	_, err := io.WriteString(w, text)
	return err
}

// ReadWord reads a word record written by WriteWord. It fails with a
// descriptive error if the encoded length doesn't match wireWordLen,
// per spec.md §6.3's "a mismatching len field fails the load with a
// format error".
func ReadWord(r io.Reader) (text string, isSolution bool, err error) {
	solByte, err := ReadU8(r)
	if err != nil {
		return "", false, fmt.Errorf("read is_solution: %w", err)
	}
	length, err := ReadU8(r)
	if err != nil {
		return "", false, fmt.Errorf("read word length: %w", err)
	}
	if int(length) != wireWordLen {
		return "", false, fmt.Errorf("word length %d, want %d", length, wireWordLen)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", false, fmt.Errorf("read word bytes: %w", err)
	}

	return string(buf), solByte != 0, nil
}
