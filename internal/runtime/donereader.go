package runtime

import (
	"io"
	"sync"
)

// An [io.Reader] that reports when the wrapped reader is exhausted.
//
// Exec streams stdin through one of these so it can tell the shim to close
// the process's stdin once the caller's input runs out. The done channel is
// closed on the first [io.EOF] and never again, so waiting on it from several
// goroutines is fine.
type doneReader struct {
	r    io.Reader
	once sync.Once
	done chan struct{}
}

func newDoneReader(r io.Reader) *doneReader {
	return &doneReader{r: r, done: make(chan struct{})}
}

// Reads from the wrapped reader, closing the done channel when it reports
// [io.EOF]. Other errors pass through without touching the channel.
func (d *doneReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err == io.EOF {
		d.once.Do(func() { close(d.done) })
	}
	return n, err
}
