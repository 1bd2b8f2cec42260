package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFingerprintSizeModeChangesWithContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget")
	require.NoError(t, writeFile(path, "hello"))

	fp1, err := Fingerprint(path, false)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, writeFile(path, "hello world, longer now"))

	fp2, err := Fingerprint(path, false)
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp2)
}

func TestFingerprintContentModeStableForSameBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "widget")
	require.NoError(t, writeFile(path, "identical content"))

	fp1, err := Fingerprint(path, true)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, writeFile(path, "identical content"))

	fp2, err := Fingerprint(path, true)
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
}

func TestDisabledStoreIsAlwaysMiss(t *testing.T) {
	s, err := Open("", false)
	require.NoError(t, err)

	key := Key{CommandName: "widget"}
	s.Put(key, json.RawMessage(`{"ok":true}`))

	_, ok := s.Get(key)
	require.False(t, ok)
	require.Equal(t, 0, s.Len())
}

func TestStorePutGetRoundTrip(t *testing.T) {
	s, err := Open("", true)
	require.NoError(t, err)

	key := Key{CommandName: "widget", Fingerprint: "abc"}
	payload := json.RawMessage(`{"schema":"value"}`)
	s.Put(key, payload)

	got, ok := s.Get(key)
	require.True(t, ok)
	require.JSONEq(t, string(payload), string(got))
	require.Equal(t, 1, s.Len())
}

func TestStoreSaveAndReopenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	s, err := Open(path, true)
	require.NoError(t, err)

	key := Key{CommandName: "widget", ResolvedPath: "/usr/bin/widget", Fingerprint: "abc", ProbeMode: "--help"}
	s.Put(key, json.RawMessage(`{"a":1}`))
	require.NoError(t, s.Save())

	reopened, err := Open(path, true)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())

	got, ok := reopened.Get(key)
	require.True(t, ok)
	require.JSONEq(t, `{"a":1}`, string(got))
}

func TestStoreClearRemovesEntriesWithoutTouchingDiskUntilSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	s, err := Open(path, true)
	require.NoError(t, err)
	key := Key{CommandName: "widget"}
	s.Put(key, json.RawMessage(`{}`))
	require.NoError(t, s.Save())

	s.Clear()
	require.Equal(t, 0, s.Len())

	reopened, err := Open(path, true)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
