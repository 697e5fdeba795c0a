package stream

import (
	"context"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/kbukum/cypherstream/errors"
	"github.com/kbukum/cypherstream/pipeline"
)

// DefaultChunkSize is the number of bytes a source reads per chunk.
const DefaultChunkSize = 16 * 1024

// StdinName and StdoutName label the standard stream endpoints.
const (
	StdinName  = "<stdin>"
	StdoutName = "<stdout>"
)

// Source is the engine's input endpoint. Next yields decoded text chunks
// in input order; Close releases the underlying handle.
type Source interface {
	pipeline.Iterator[string]
	Name() string
}

// SourceOption configures a TextSource.
type SourceOption func(*TextSource)

// WithChunkSize sets the number of bytes read per chunk. Values below one
// are ignored.
func WithChunkSize(n int) SourceOption {
	return func(s *TextSource) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// TextSource reads UTF-8 text in chunks. Invalid byte sequences are
// replaced with U+FFFD and a rune split across two reads is carried into
// the next chunk, so every chunk is valid UTF-8.
type TextSource struct {
	name      string
	chunkSize int
	open      func() (io.Reader, io.Closer, error)

	reader io.Reader
	closer io.Closer
	carry  []byte
	eof    bool
	err    error

	// abandoned is set when Next returned before its read finished. The
	// read goroutine may still own the fields above, so nothing else is
	// touched afterwards.
	abandoned error

	closeOnce sync.Once
	closeErr  error
}

// NewFileSource returns a source reading path. The file is opened on the
// first call to Next.
func NewFileSource(path string, opts ...SourceOption) *TextSource {
	s := &TextSource{
		name: path,
		open: func() (io.Reader, io.Closer, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, nil, err
			}
			return f, f, nil
		},
	}
	return s.apply(opts)
}

// NewReaderSource returns a source reading r, typically os.Stdin. Close
// never closes r.
func NewReaderSource(name string, r io.Reader, opts ...SourceOption) *TextSource {
	s := &TextSource{
		name: name,
		open: func() (io.Reader, io.Closer, error) { return r, nil, nil },
	}
	return s.apply(opts)
}

func (s *TextSource) apply(opts []SourceOption) *TextSource {
	s.chunkSize = DefaultChunkSize
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the path or label of the source.
func (s *TextSource) Name() string { return s.name }

// Next returns the next chunk, or ok=false at end of input. Once an error
// has been returned every later call returns the same error.
//
// The read runs in its own goroutine so that a canceled ctx ends Next even
// while the reader is blocked. The abandoned read finishes when the reader
// returns or Close releases the file; a blocked standard input is left to
// process exit.
func (s *TextSource) Next(ctx context.Context) (string, bool, error) {
	if s.abandoned != nil {
		return "", false, s.abandoned
	}
	if s.err != nil {
		return "", false, s.err
	}
	if s.eof {
		return "", false, nil
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if s.reader == nil {
		r, c, err := s.open()
		if err != nil {
			s.err = errors.InputFileError(s.name, err)
			return "", false, s.err
		}
		s.reader = transform.NewReader(r, unicode.UTF8.NewDecoder())
		s.closer = c
	}

	done := make(chan readResult, 1)
	go func() {
		text, ok, err := s.read()
		done <- readResult{text: text, ok: ok, err: err}
	}()

	select {
	case r := <-done:
		return r.text, r.ok, r.err
	case <-ctx.Done():
		s.abandoned = ctx.Err()
		return "", false, s.abandoned
	}
}

type readResult struct {
	text string
	ok   bool
	err  error
}

func (s *TextSource) read() (string, bool, error) {
	buf := make([]byte, len(s.carry)+s.chunkSize)
	copy(buf, s.carry)
	have := len(s.carry)
	s.carry = s.carry[:0]

	for {
		n, err := s.reader.Read(buf[have:])
		have += n

		if err == io.EOF {
			s.eof = true
			if have == 0 {
				return "", false, nil
			}
			return string(buf[:have]), true, nil
		}
		if err != nil {
			s.err = errors.InputFileError(s.name, err)
			return "", false, s.err
		}

		cut := completeRunes(buf[:have])
		if cut > 0 {
			s.carry = append(s.carry, buf[cut:have]...)
			return string(buf[:cut]), true, nil
		}
		if have == len(buf) {
			// chunk smaller than one rune
			buf = append(buf, make([]byte, utf8.UTFMax)...)
		}
	}
}

// completeRunes returns the length of the longest prefix of b that does
// not end inside a multi-byte sequence.
func completeRunes(b []byte) int {
	start := len(b) - 1
	for start >= 0 && len(b)-start < utf8.UTFMax && !utf8.RuneStart(b[start]) {
		start--
	}
	if start < 0 {
		return 0
	}
	if utf8.FullRune(b[start:]) {
		return len(b)
	}
	return start
}

// Close releases the underlying file. It is safe to call more than once
// and returns the first close error on every call.
func (s *TextSource) Close() error {
	s.closeOnce.Do(func() {
		if s.closer == nil {
			return
		}
		if err := s.closer.Close(); err != nil {
			s.closeErr = errors.InputFileError(s.name, err)
		}
	})
	return s.closeErr
}
