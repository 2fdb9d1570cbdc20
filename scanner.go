package dotdirectory

import (
	"context"
	"fmt"
	"io"
)

// ChunkSize is the number of bytes requested from the source on every read.
const ChunkSize = 4096

// A byte that isn't valid single-byte (ASCII) text.
type DecodeError struct {
	Offset int64
	Byte   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid ascii byte 0x%02x at offset %d", e.Byte, e.Offset)
}

// LineScanner splits a single-byte text stream into logical lines.
//
// Lines may be terminated by "\r\n", "\r" or "\n", mixed freely in one
// stream. A final line without a terminator is still produced. The source is
// read in ChunkSize pieces and the context is checked before each read.
type LineScanner struct {
	r   io.Reader
	buf []byte

	// incomplete trailing line carried between reads
	pending []byte
	// bytes of pending already searched for a terminator
	scanned int
	// complete lines not handed out yet
	lines  []string
	offset int64

	line string
	eof  bool
	err  error
}

func NewLineScanner(r io.Reader) *LineScanner {
	return &LineScanner{
		r:   r,
		buf: make([]byte, ChunkSize),
	}
}

// Scan advances to the next line, returning false at the end of the stream
// or on error. Err distinguishes the two.
func (s *LineScanner) Scan(ctx context.Context) bool {
	if s.err != nil {
		return false
	}

	for len(s.lines) == 0 {
		if s.eof {
			return false
		}
		if err := ctx.Err(); err != nil {
			s.err = err
			return false
		}

		n, err := s.r.Read(s.buf)
		if n > 0 {
			if derr := s.decode(s.buf[:n]); derr != nil {
				s.err = derr
				return false
			}
		}

		switch {
		case err == io.EOF:
			s.eof = true
			s.split(true)
		case err != nil:
			s.err = err
			return false
		default:
			s.split(false)
		}
	}

	s.line = s.lines[0]
	s.lines = s.lines[1:]
	return true
}

// Text returns the line produced by the last successful Scan.
func (s *LineScanner) Text() string {
	return s.line
}

// Err returns the first read, decode or context error hit by Scan.
func (s *LineScanner) Err() error {
	return s.err
}

func (s *LineScanner) decode(chunk []byte) error {
	for i, c := range chunk {
		if c > 0x7f {
			return &DecodeError{Offset: s.offset + int64(i), Byte: c}
		}
	}
	s.offset += int64(len(chunk))
	s.pending = append(s.pending, chunk...)
	return nil
}

// split moves every terminated line out of pending, resuming where the
// previous call stopped. A trailing "\r" is kept back until more input
// arrives since it may be half of a "\r\n".
func (s *LineScanner) split(atEOF bool) {
	start, i := 0, s.scanned
	for ; i < len(s.pending); i++ {
		c := s.pending[i]
		if c != '\n' && c != '\r' {
			continue
		}
		if c == '\r' && i+1 == len(s.pending) && !atEOF {
			break
		}
		s.lines = append(s.lines, string(s.pending[start:i]))
		if c == '\r' && i+1 < len(s.pending) && s.pending[i+1] == '\n' {
			i++
		}
		start = i + 1
	}

	if atEOF && start < len(s.pending) {
		s.lines = append(s.lines, string(s.pending[start:]))
		start, i = len(s.pending), len(s.pending)
	}

	if start > 0 {
		rest := copy(s.pending, s.pending[start:])
		s.pending = s.pending[:rest]
	}
	s.scanned = i - start
}
