// Package cache implements the Fingerprint Cache: it memoizes extraction
// results keyed on an executable's identity and content fingerprint so
// repeated batch runs skip re-probing and re-parsing unchanged commands,
// per spec.md §4.9.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Key identifies one cache entry. Any change to any field invalidates the
// entry, per spec.md §4.9.
type Key struct {
	CommandName      string
	ResolvedPath     string
	Fingerprint      string
	ProbeMode        string
	NormalizedVersion string
}

func (k Key) string() string {
	return k.CommandName + "\x00" + k.ResolvedPath + "\x00" + k.Fingerprint + "\x00" + k.ProbeMode + "\x00" + k.NormalizedVersion
}

// Entry is the cached payload: the raw value stored is opaque to the
// cache itself (typically a serialized ExtractionReport + schema).
type Entry struct {
	Key     Key
	Payload json.RawMessage
}

// Fingerprint computes the size||mtime fingerprint for path, or a content
// hash when hashContent is true (spec.md §4.9's stronger, slower mode).
func Fingerprint(path string, hashContent bool) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !hashContent {
		return fmt.Sprintf("%d-%d", info.Size(), info.ModTime().UnixNano()), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Store is a fingerprint-keyed cache with readers-writer discipline:
// concurrent reads never block each other, writes are serialized, and a
// persistence failure degrades to a warning rather than failing
// extraction (spec.md §4.9).
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	path    string
	enabled bool
}

// Open loads a Store from path if it exists, or starts empty. A disabled
// store answers every Get as a miss and every Put as a no-op, matching
// the "optional, bypassable" requirement.
func Open(path string, enabled bool) (*Store, error) {
	s := &Store{entries: make(map[string]Entry), path: path, enabled: enabled}
	if !enabled || path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("cache: reading %s: %w", path, err)
	}

	var raw []Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return s, fmt.Errorf("cache: decoding %s: %w", path, err)
	}
	for _, e := range raw {
		s.entries[e.Key.string()] = e
	}
	return s, nil
}

// Get returns the cached payload for key, if present and enabled.
func (s *Store) Get(key Key) (json.RawMessage, bool) {
	if !s.enabled {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key.string()]
	if !ok {
		return nil, false
	}
	return e.Payload, true
}

// Put stores payload under key. A no-op when the store is disabled.
func (s *Store) Put(key Key, payload json.RawMessage) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key.string()] = Entry{Key: key, Payload: payload}
}

// Save persists the store to its configured path. Callers should treat a
// non-nil error as a warning, not a reason to fail the run: the pipeline
// always has the full-extraction fallback available.
func (s *Store) Save() error {
	if !s.enabled || s.path == "" {
		return nil
	}
	s.mu.RLock()
	raw := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		raw = append(raw, e)
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: encoding: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cache: creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("cache: writing %s: %w", s.path, err)
	}
	return nil
}

// Len reports the number of cached entries, for diagnostics/cache-inspect
// tooling.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear removes every cached entry without touching the persisted file
// until Save is called.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
}
