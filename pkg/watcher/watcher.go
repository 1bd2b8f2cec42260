// Package watcher recursively watches a directory of recorded help-text
// fixtures so a long-running helpctl process can re-run extraction as
// fixtures change (see the fsnotify entry in SPEC_FULL.md). Only
// directories are watched; a single manifest file passed as root is not.
package watcher

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// RecursiveWatcher wraps fsnotify with recursive directory support.
// fsnotify is NOT recursive on Linux/POSIX, so we must explicitly watch
// all subdirectories and dynamically add watchers for new directories.
type RecursiveWatcher struct {
	*fsnotify.Watcher
	pathToSource map[string]string
	mu           sync.RWMutex
}

// New creates a new RecursiveWatcher.
func New() (*RecursiveWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &RecursiveWatcher{
		Watcher:      w,
		pathToSource: make(map[string]string),
	}, nil
}

// AddRecursive adds root and all its subdirectories to the watcher. source
// is associated with every path under root, for later lookup by FindSource.
func (w *RecursiveWatcher) AddRecursive(root, source string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip inaccessible directories.
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				return nil // Skip, don't fail entirely.
			}
			w.mu.Lock()
			w.pathToSource[path] = source
			w.mu.Unlock()
		}
		return nil
	})
}

// HandleNewDirectory adds a freshly created directory (and its
// subdirectories) to the watcher. Returns true if a new directory was
// added.
func (w *RecursiveWatcher) HandleNewDirectory(event fsnotify.Event, source string) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return w.AddRecursive(event.Name, source) == nil
}

// FindSource returns the source path associated with a given file path by
// walking up the directory tree to the nearest watched ancestor.
func (w *RecursiveWatcher) FindSource(path string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if s, ok := w.pathToSource[path]; ok {
		return s
	}

	dir := filepath.Dir(path)
	for dir != "/" && dir != "." {
		if s, ok := w.pathToSource[dir]; ok {
			return s
		}
		dir = filepath.Dir(dir)
	}
	return ""
}

// IsFixtureFile reports whether path looks like a recorded help-text
// fixture: a plain text file, or a batch manifest in YAML/JSON.
func IsFixtureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".help", ".yml", ".yaml", ".json":
		return true
	default:
		return false
	}
}
