package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when a prompt is abandoned because the
// context was canceled, typically by Ctrl+C.
var ErrInputCancelled = errors.New("input canceled")

// lineReader reads lines from a prompt source without blocking past context
// cancellation. The underlying bufio read cannot be interrupted, so each read
// runs in a goroutine and the caller is released as soon as the context ends.
type lineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

func newLineReader(in io.Reader) *lineReader {
	if in == nil {
		panic("cli: nil input reader")
	}
	return &lineReader{reader: bufio.NewReader(in)}
}

// ReadLine returns the next line with surrounding whitespace trimmed.
func (r *lineReader) ReadLine(ctx context.Context) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		value, err := r.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		// The goroutine keeps draining until its read completes; the lock
		// keeps a later call from interleaving with it.
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}
