package pipeline

import (
	"encoding/json"
	"os/exec"

	"github.com/mattsolo1/helpctl/pkg/cache"
)

// cacheKeyFor builds a cache.Key for command, resolving its executable
// path and fingerprinting it. A resolution failure yields ok=false so
// callers fall through to a full probe (cache failures never abort
// extraction, per spec.md §4.9).
func cacheKeyFor(command string) (cache.Key, bool) {
	path, err := exec.LookPath(command)
	if err != nil {
		return cache.Key{}, false
	}
	fp, err := cache.Fingerprint(path, false)
	if err != nil {
		return cache.Key{}, false
	}
	return cache.Key{
		CommandName:  command,
		ResolvedPath: path,
		Fingerprint:  fp,
		ProbeMode:    "sequence",
	}, true
}

func cacheLookup(store *cache.Store, command string) (BatchResult, bool) {
	key, ok := cacheKeyFor(command)
	if !ok {
		return BatchResult{}, false
	}
	payload, ok := store.Get(key)
	if !ok {
		return BatchResult{}, false
	}
	var result BatchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return BatchResult{}, false
	}
	return result, true
}

func cacheStore(store *cache.Store, command string, result BatchResult) {
	key, ok := cacheKeyFor(command)
	if !ok {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	store.Put(key, payload)
}
