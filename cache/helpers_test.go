package cache

import (
	"context"
	"io"
	"io/fs"
	"sync"
	"testing"
	"testing/fstest"
	"testing/iotest"
	"time"

	"github.com/jonwraymond/etagops/observe"
)

// testFS serves an in-memory tree and counts how often each file is opened.
type testFS struct {
	mu      sync.Mutex
	files   fstest.MapFS
	opens   map[string]int
	statErr map[string]error
	openErr map[string]error
	readErr map[string]error
	gates   map[string]*gate
}

// gate holds reads of one file until released.
type gate struct {
	opened  chan struct{}
	once    sync.Once
	release chan struct{}
}

type gatedFile struct {
	io.ReadCloser
	g *gate
}

func (f gatedFile) Read(p []byte) (int, error) {
	<-f.g.release
	return f.ReadCloser.Read(p)
}

func newTestFS() *testFS {
	return &testFS{
		files:   fstest.MapFS{},
		opens:   map[string]int{},
		statErr: map[string]error{},
		openErr: map[string]error{},
		readErr: map[string]error{},
		gates:   map[string]*gate{},
	}
}

// hold blocks reads of name until the returned release is called. opened is
// closed once the file has been opened.
func (f *testFS) hold(name string) (opened <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &gate{opened: make(chan struct{}), release: make(chan struct{})}
	f.gates[name] = g
	var once sync.Once
	return g.opened, func() { once.Do(func() { close(g.release) }) }
}

func (f *testFS) write(name, data string, modTime time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[name] = &fstest.MapFile{Data: []byte(data), ModTime: modTime}
}

func (f *testFS) opened(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens[name]
}

func (f *testFS) failStat(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.statErr, name)
		return
	}
	f.statErr[name] = err
}

func (f *testFS) Stat(name string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.statErr[name]; err != nil {
		return nil, err
	}
	return f.files.Stat(name)
}

func (f *testFS) Open(name string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens[name]++
	if err := f.openErr[name]; err != nil {
		return nil, err
	}
	if err := f.readErr[name]; err != nil {
		return io.NopCloser(iotest.ErrReader(err)), nil
	}
	file, err := f.files.Open(name)
	if err != nil {
		return nil, err
	}
	if g := f.gates[name]; g != nil {
		g.once.Do(func() { close(g.opened) })
		return gatedFile{ReadCloser: file, g: g}, nil
	}
	return file, nil
}

// recorder counts cache events.
type recorder struct {
	mu           sync.Mutex
	lookups      map[observe.LookupResult]int
	evictions    int
	clears       int
	fingerprints int
	failures     int
}

func newRecorder() *recorder {
	return &recorder{lookups: map[observe.LookupResult]int{}}
}

func (r *recorder) RecordLookup(_ context.Context, _ string, result observe.LookupResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[result]++
}

func (r *recorder) RecordEviction(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictions++
}

func (r *recorder) RecordClear(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
}

func (r *recorder) StartFingerprint(ctx context.Context, _, _ string) (context.Context, observe.FingerprintDone) {
	return ctx, func(_ int64, err error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.fingerprints++
		if err != nil {
			r.failures++
		}
	}
}

func (r *recorder) count(result observe.LookupResult) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups[result]
}

// waitFor polls until the recorder has counted n lookups of result.
func (r *recorder) waitFor(t *testing.T, result observe.LookupResult, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for r.count(result) < n {
		if time.Now().After(deadline) {
			t.Fatalf("saw %d %s lookups, want %d", r.count(result), result, n)
		}
		time.Sleep(time.Millisecond)
	}
}

func (r *recorder) computed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fingerprints
}

var _ observe.CacheInstrumentation = (*recorder)(nil)
