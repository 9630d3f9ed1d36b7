// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Buffered writers are pooled across streams; encoders are cheap and bound
// to one writer, so each stream makes its own.
var bufPool = sync.Pool{
	New: func() any { return bufio.NewWriterSize(io.Discard, 64<<10) },
}

// Start runs a goroutine that encodes every value received on the returned
// channel as one JSON line on out. Close the channel to flush; the error
// channel then yields exactly one value. Errors for which ignore returns
// true (e.g. a closed pipe) are dropped at flush time.
//
// After an encode error the goroutine keeps draining the channel so senders
// never block.
func Start[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error, ignore func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)
	go func() {
		bw := bufPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bufPool.Put(bw)
		}()
		enc := json.NewEncoder(bw)
		var failed error
		for v := range in {
			if failed != nil {
				continue
			}
			if err := encode(enc, v); err != nil {
				failed = err
			}
		}
		if failed != nil {
			if ignore != nil && ignore(failed) {
				failed = nil
			}
			done <- failed
			return
		}
		if err := bw.Flush(); err != nil && (ignore == nil || !ignore(err)) {
			done <- err
			return
		}
		done <- nil
	}()
	return in, done
}
