package stream

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// fakeSource yields scripted chunks and records pulls and closes.
type fakeSource struct {
	chunks   []string
	failAt   int // index of the pull that fails; -1 for never
	failErr  error
	closeErr error

	next   int
	pulls  atomic.Int32
	closes atomic.Int32
}

func newFakeSource(chunks ...string) *fakeSource {
	return &fakeSource{chunks: chunks, failAt: -1}
}

func numberedChunks(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("c%d;", i)
	}
	return out
}

func (s *fakeSource) Name() string { return "fake-source" }

func (s *fakeSource) Next(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	idx := int(s.pulls.Add(1)) - 1
	if idx == s.failAt {
		return "", false, s.failErr
	}
	if s.next >= len(s.chunks) {
		return "", false, nil
	}
	c := s.chunks[s.next]
	s.next++
	return c, true, nil
}

func (s *fakeSource) Close() error {
	s.closes.Add(1)
	return s.closeErr
}

// fakeSink records writes. A non-nil gate blocks every write until the
// gate is closed.
type fakeSink struct {
	openErr  error
	closeErr error
	failAt   int // index of the write that fails; -1 for never
	failErr  error
	gate     chan struct{}
	entered  chan struct{}

	mu     sync.Mutex
	got    []string
	opens  atomic.Int32
	closes atomic.Int32
}

func newFakeSink() *fakeSink {
	return &fakeSink{failAt: -1}
}

func (s *fakeSink) Name() string { return "fake-sink" }

func (s *fakeSink) Open() error {
	s.opens.Add(1)
	return s.openErr
}

func (s *fakeSink) Write(ctx context.Context, chunk string) error {
	if s.entered != nil {
		select {
		case s.entered <- struct{}{}:
		default:
		}
	}
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.got) == s.failAt {
		return s.failErr
	}
	s.got = append(s.got, chunk)
	return nil
}

func (s *fakeSink) Close() error {
	s.closes.Add(1)
	return s.closeErr
}

func (s *fakeSink) output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.got, "")
}

// failingStage passes chunks through and fails on the n-th call (0-based).
func failingStage(name string, n int, err error) Stage {
	var calls atomic.Int32
	return StageFunc(name, func(_ context.Context, chunk string) (string, error) {
		if int(calls.Add(1))-1 == n {
			return "", err
		}
		return chunk, nil
	})
}
