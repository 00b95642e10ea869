package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// parallelizeAlone calculates the result of f count times
func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = f(i)
	}
	return results
}

// command is used to trigger our latent workers to evaluate f at index i.
type command struct {
	// This counter indicates the number of results that still need to be produced.
	ctr *int64
	i   int
	f   func(int) interface{}
	// This is the array where we put results
	results []interface{}
	done    chan<- struct{}
}

// worker starts up a new worker, listening to commands, and producing results
func worker(commands <-chan command) {
	for c := range commands {
		c.results[c.i] = c.f(c.i)
		if atomic.AddInt64(c.ctr, -1) == 0 {
			close(c.done)
		}
	}
}

// Pool represents a pool of workers, used for parallelizing the group operations
// of commitments and share verification.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead.
type Pool struct {
	// The common channel used to send commands to the workers.
	commands chan command
	// This holds the number of workers we've created
	workerCount int
	once        sync.Once
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}

	p := &Pool{
		commands:    make(chan command),
		workerCount: count,
	}
	for i := 0; i < count; i++ {
		go worker(p.commands)
	}
	return p
}

// TearDown cleanly tears down a pool, stopping its workers.
// It is safe to call more than once.
func (p *Pool) TearDown() {
	if p == nil {
		return
	}
	p.once.Do(func() { close(p.commands) })
}

// Parallelize calls a function count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
// Parallelize must not be called after TearDown.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil || count <= 1 {
		return parallelizeAlone(f, count)
	}

	results := make([]interface{}, count)
	ctr := int64(count)
	done := make(chan struct{})
	for i := 0; i < count; i++ {
		p.commands <- command{
			ctr:     &ctr,
			i:       i,
			f:       f,
			results: results,
			done:    done,
		}
	}
	<-done
	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	// Intentionally not initializing m, since the zero value is ok
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
