package pipeline

import "context"

// Buffer runs p in its own goroutine and hands values downstream through a
// channel of the given capacity. A size of 0 makes every hand-off
// synchronous: the goroutine holds at most one value while the consumer is
// busy and does not pull p again until that value is taken.
//
// Values and errors keep their order. Closing the returned iterator cancels
// the goroutine, waits for it to exit, then closes p.
func Buffer[T any](p *Pipeline[T], size int) *Pipeline[T] {
	if size < 0 {
		size = 0
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			source := p.create(ctx)
			bufCtx, cancel := context.WithCancel(ctx)
			ch := make(chan result[T], size)
			done := make(chan struct{})

			go func() {
				defer close(done)
				defer close(ch)
				for {
					val, ok, err := source.Next(bufCtx)
					if err != nil {
						select {
						case ch <- result[T]{err: err}:
						case <-bufCtx.Done():
						}
						return
					}
					if !ok {
						return
					}
					select {
					case ch <- result[T]{val: val, ok: true}:
					case <-bufCtx.Done():
						return
					}
				}
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					<-done
					return source.Close()
				},
			}
		},
	}
}
