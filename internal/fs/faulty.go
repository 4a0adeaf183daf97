package fs

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Fault defines specific failure behavior.
type Fault struct {
	FailAfterReadBytes int64 // Fail reads after this many bytes delivered FROM THIS FILE. -1 to disable.
	FailOnOpen         bool
	FailOnClose        bool
	Err                error
}

// FaultyFS is a FileSystem wrapper that can inject errors on the read path.
type FaultyFS struct {
	FS      FileSystem
	mu      sync.Mutex
	rules   map[string]Fault // Filename pattern -> Fault
	Default Fault            // Fallback

	Err       error
	delivered int64
	readLimit int64
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{
		FS:    fsys,
		rules: make(map[string]Fault),
		Default: Fault{
			FailAfterReadBytes: -1, // No limit
		},
		Err:       fmt.Errorf("injected fault error"),
		readLimit: -1,
	}
}

// SetReadLimit makes all subsequent reads fail once limit bytes have been
// delivered across all files opened through this FS.
func (f *FaultyFS) SetReadLimit(limit int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readLimit = limit
}

// AddRule adds a fault injection rule for a specific file pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *FaultyFS) Open(name string) (File, error) {
	f.mu.Lock()
	fault := f.Default
	// Match pattern (last winning match)
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	if fault.Err == nil {
		fault.Err = f.Err
	}
	f.mu.Unlock()

	if fault.FailOnOpen {
		return nil, fault.Err
	}

	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f, fault: fault}, nil
}

func (f *FaultyFS) Create(name string) (io.WriteCloser, error) { return f.FS.Create(name) }

func (f *FaultyFS) Stat(name string) (os.FileInfo, error) { return f.FS.Stat(name) }

func (f *FaultyFS) Remove(name string) error { return f.FS.Remove(name) }

func (f *FaultyFS) Rename(oldpath, newpath string) error { return f.FS.Rename(oldpath, newpath) }

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fs        *FaultyFS
	fault     Fault
	delivered int64
}

func (ff *faultyFile) Read(p []byte) (int, error) {
	// Check per-file limit FIRST before updating global counter
	if ff.fault.FailAfterReadBytes >= 0 && ff.delivered >= ff.fault.FailAfterReadBytes {
		return 0, ff.fault.Err
	}

	ff.fs.mu.Lock()
	limited := ff.fs.readLimit >= 0
	globalRemain := ff.fs.readLimit - ff.fs.delivered
	ff.fs.mu.Unlock()
	if limited {
		if globalRemain <= 0 {
			return 0, ff.fault.Err
		}
		if int64(len(p)) > globalRemain {
			p = p[:globalRemain]
		}
	}

	if ff.fault.FailAfterReadBytes >= 0 {
		if remain := ff.fault.FailAfterReadBytes - ff.delivered; int64(len(p)) > remain {
			p = p[:remain]
		}
	}

	n, err := ff.File.Read(p)
	if n > 0 {
		ff.delivered += int64(n)
		ff.fs.mu.Lock()
		ff.fs.delivered += int64(n)
		ff.fs.mu.Unlock()
	}
	return n, err
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.Err
	}
	return ff.File.Close()
}
