// Package codebase keeps every source file under a root directory compiled
// and serves the results to long-running hosts: the file watcher and the
// language server.
package codebase

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/tjc/internal/logging"
	"github.com/dhamidi/tjc/java/compile"
)

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	opts    []compile.Option
	files   map[string]*FileInfo
	log     commonlog.Logger
}

// FileInfo is the latest compilation of one file. A FileInfo is never
// mutated after it is published; updates replace it.
type FileInfo struct {
	Path    string
	Content []byte
	Result  *compile.Result
}

// New returns an empty codebase rooted at rootDir. opts apply to every
// compilation.
func New(rootDir string, opts ...compile.Option) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		opts:    opts,
		files:   make(map[string]*FileInfo),
		log:     logging.Get("codebase"),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll compiles every .java file below the root. Hidden directories are
// skipped. Files that cannot be read are reported together at the end.
func (c *Codebase) ScanAll() error {
	var errs []error
	err := filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isSource(path) {
			if err := c.ScanFile(path); err != nil {
				errs = append(errs, err)
			}
		}
		return nil
	})
	if err != nil {
		errs = append(errs, err)
	}
	c.log.Infof("scanned %s: %d files, %d errors", c.rootDir, len(c.Files()), c.ErrorCount())
	return errors.Join(errs...)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isSource(path string) bool {
	return filepath.Ext(path) == ".java"
}

// ScanFile reads path from disk and compiles it.
func (c *Codebase) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.UpdateFile(path, content)
	return nil
}

// UpdateFile compiles content as the new state of path. Compilation runs
// outside the lock; each call owns its arena and sink.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	info := &FileInfo{
		Path:    path,
		Content: content,
		Result:  compile.Source(path, content, c.opts...),
	}

	c.mu.Lock()
	c.files[path] = info
	c.mu.Unlock()

	c.log.Debugf("updated %s: %d diagnostics", path, len(info.Result.Diagnostics))
	return info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the known paths in sorted order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Results returns the compilation results ordered by path.
func (c *Codebase) Results() []*compile.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	results := make([]*compile.Result, 0, len(c.files))
	for _, info := range c.files {
		results = append(results, info.Result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}

// ErrorCount sums the diagnostics of all files.
func (c *Codebase) ErrorCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, info := range c.files {
		n += len(info.Result.Diagnostics)
	}
	return n
}
