package stream

import (
	"context"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/kbukum/cypherstream/errors"
)

// Sink is the engine's output endpoint. Open is called once when a run
// starts; Write receives chunks in order; Close releases the handle.
type Sink interface {
	Open() error
	Write(ctx context.Context, chunk string) error
	Close() error
	Name() string
}

// TextSink writes text chunks to a file or writer.
type TextSink struct {
	name string
	open func() (io.Writer, io.Closer, error)

	writer  io.Writer
	closer  io.Closer
	err     error
	written int64

	closeOnce sync.Once
	closeErr  error
}

// NewFileSink returns a sink appending to path. The file must already
// exist and must not be a directory; it is never created or truncated.
func NewFileSink(path string) *TextSink {
	return &TextSink{
		name: path,
		open: func() (io.Writer, io.Closer, error) {
			info, err := os.Stat(path)
			if err != nil {
				return nil, nil, err
			}
			if info.IsDir() {
				return nil, nil, &os.PathError{Op: "open", Path: path, Err: syscall.EISDIR}
			}
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
			if err != nil {
				return nil, nil, err
			}
			return f, f, nil
		},
	}
}

// NewWriterSink returns a sink writing to w, typically os.Stdout. Close
// never closes w.
func NewWriterSink(name string, w io.Writer) *TextSink {
	return &TextSink{
		name: name,
		open: func() (io.Writer, io.Closer, error) { return w, nil, nil },
	}
}

// Name returns the path or label of the sink.
func (s *TextSink) Name() string { return s.name }

// Written returns the number of bytes written so far.
func (s *TextSink) Written() int64 { return s.written }

// Open checks and opens the destination. Calling it again returns the
// result of the first call.
func (s *TextSink) Open() error {
	if s.err != nil || s.writer != nil {
		return s.err
	}
	w, c, err := s.open()
	if err != nil {
		s.err = errors.OutputFileError(s.name, err)
		return s.err
	}
	s.writer, s.closer = w, c
	return nil
}

// Write appends chunk, opening the sink first if needed.
func (s *TextSink) Write(_ context.Context, chunk string) error {
	if err := s.Open(); err != nil {
		return err
	}
	n, err := io.WriteString(s.writer, chunk)
	s.written += int64(n)
	if err != nil {
		s.err = errors.OutputFileError(s.name, err)
		return s.err
	}
	return nil
}

// Close releases the underlying file. It is safe to call more than once
// and returns the first close error on every call.
func (s *TextSink) Close() error {
	s.closeOnce.Do(func() {
		if s.closer == nil {
			return
		}
		if err := s.closer.Close(); err != nil {
			s.closeErr = errors.OutputFileError(s.name, err)
		}
	})
	return s.closeErr
}
