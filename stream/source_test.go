package stream

import (
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/kbukum/cypherstream/errors"
)

func drainSource(t *testing.T, s Source) []string {
	t.Helper()
	var chunks []string
	for {
		c, ok, err := s.Next(context.Background())
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			return chunks
		}
		chunks = append(chunks, c)
	}
}

func TestTextSource_ChunksPreserveRunes(t *testing.T) {
	const text = "héllo wörld, 日本語 ✓ 🙂 end"
	for size := 1; size <= 8; size++ {
		t.Run(strings.Repeat("#", size), func(t *testing.T) {
			chunks := drainSource(t, NewReaderSource("mem", strings.NewReader(text), WithChunkSize(size)))
			for _, c := range chunks {
				if !utf8.ValidString(c) {
					t.Fatalf("chunk %q is not valid UTF-8", c)
				}
				if c == "" {
					t.Fatal("unexpected empty chunk")
				}
			}
			if got := strings.Join(chunks, ""); got != text {
				t.Errorf("expected %q, got %q", text, got)
			}
		})
	}
}

func TestTextSource_InvalidBytesReplaced(t *testing.T) {
	chunks := drainSource(t, NewReaderSource("mem", strings.NewReader("a\xffb")))
	if got := strings.Join(chunks, ""); got != "a�b" {
		t.Errorf("expected replacement character, got %q", got)
	}
}

func TestTextSource_ChunkSize(t *testing.T) {
	chunks := drainSource(t, NewReaderSource("mem", strings.NewReader("abcdefgh"), WithChunkSize(3)))
	want := []string{"abc", "def", "gh"}
	if strings.Join(chunks, "|") != strings.Join(want, "|") {
		t.Errorf("expected %q, got %q", want, chunks)
	}
}

func TestTextSource_IgnoresBadChunkSize(t *testing.T) {
	s := NewReaderSource("mem", strings.NewReader(""), WithChunkSize(0))
	if s.chunkSize != DefaultChunkSize {
		t.Errorf("expected default chunk size, got %d", s.chunkSize)
	}
}

func TestTextSource_FileLazyOpenAndClose(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "in.txt", "secret")

	s := NewFileSource(path)
	if s.closer != nil {
		t.Fatal("file must not be opened before the first pull")
	}
	if s.Name() != path {
		t.Errorf("expected name %q, got %q", path, s.Name())
	}
	if got := strings.Join(drainSource(t, s), ""); got != "secret" {
		t.Errorf("unexpected content %q", got)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestTextSource_CloseUnopened(t *testing.T) {
	if err := NewFileSource(filepath.Join(t.TempDir(), "never")).Close(); err != nil {
		t.Errorf("expected nil closing an unopened source, got %v", err)
	}
}

func TestTextSource_MissingFileIsSticky(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	s := NewFileSource(path)

	_, ok, err := s.Next(context.Background())
	if ok || !errors.IsCode(err, errors.ErrCodeInputFile) {
		t.Fatalf("expected INPUT_FILE_ERROR, got ok=%v err=%v", ok, err)
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is(err, fs.ErrNotExist)")
	}
	if !strings.Contains(err.Error(), "cannot read input file '"+path+"'") {
		t.Errorf("unexpected message %q", err.Error())
	}
	_, _, again := s.Next(context.Background())
	if again != err {
		t.Errorf("expected the same error on the next pull, got %v", again)
	}
}

type brokenReader struct{ calls int }

func (r *brokenReader) Read(p []byte) (int, error) {
	r.calls++
	if r.calls == 1 {
		return copy(p, "ok"), nil
	}
	return 0, stderrors.New("device gone")
}

func TestTextSource_ReadError(t *testing.T) {
	s := NewReaderSource(StdinName, &brokenReader{})
	ctx := context.Background()

	var err error
	for i := 0; i < 5 && err == nil; i++ {
		_, _, err = s.Next(ctx)
	}
	if !errors.IsCode(err, errors.ErrCodeInputFile) {
		t.Fatalf("expected INPUT_FILE_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "device gone") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

type trackingReadCloser struct {
	io.Reader
	closed int
}

func (r *trackingReadCloser) Close() error {
	r.closed++
	return nil
}

func TestTextSource_ReaderNeverClosed(t *testing.T) {
	r := &trackingReadCloser{Reader: strings.NewReader("x")}
	s := NewReaderSource(StdinName, r)
	drainSource(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if r.closed != 0 {
		t.Error("reader source must not close the underlying reader")
	}
}

func TestTextSource_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewReaderSource("mem", strings.NewReader("abc"))
	if _, _, err := s.Next(ctx); !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCompleteRunes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"a\xc3", 1},
		{"a\xc3\xa9", 3},
		{"\xe6\x97", 0},
		{"x\xe6\x97\xa5", 4},
		{"x\xf0\x9f\x99", 1},
	}
	for _, tc := range tests {
		if got := completeRunes([]byte(tc.in)); got != tc.want {
			t.Errorf("completeRunes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTextSource_CancelDuringBlockedRead(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	s := NewReaderSource(StdinName, pr)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	_, ok, err := s.Next(ctx)
	if ok || !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got ok=%v err=%v", ok, err)
	}
	if _, _, again := s.Next(context.Background()); !stderrors.Is(again, context.Canceled) {
		t.Errorf("expected the abandoned read to stay failed, got %v", again)
	}
}
