package keygrip

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKeymap(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileBindings_LoadsKeymap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.toml")
	writeKeymap(t, path, `
[translate]
key = "g"

[rotate]
key = "r"
ctrl = true

[scale]
key = "s"
`)

	fb, err := NewFileBindings(path, nil)
	require.NoError(t, err)
	defer fb.Close()

	b, ok := fb.Lookup(KindTranslate)
	require.True(t, ok)
	assert.Equal(t, Key("g"), b.Key)
	assert.False(t, b.Ctrl)

	b, ok = fb.Lookup(KindRotate)
	require.True(t, ok)
	assert.Equal(t, Key("r"), b.Key)
	assert.True(t, b.Ctrl)
}

func TestFileBindings_MissingSectionLeavesKindUnbound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.toml")
	writeKeymap(t, path, `
[translate]
key = "g"
`)

	fb, err := NewFileBindings(path, nil)
	require.NoError(t, err)
	defer fb.Close()

	_, ok := fb.Lookup(KindScale)
	assert.False(t, ok)
}

func TestFileBindings_MissingFileErrors(t *testing.T) {
	_, err := NewFileBindings(filepath.Join(t.TempDir(), "absent.toml"), nil)
	assert.Error(t, err)
}

func TestFileBindings_ReloadKeepsPreviousOnParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.toml")
	writeKeymap(t, path, `
[translate]
key = "g"
`)

	fb, err := NewFileBindings(path, nil)
	require.NoError(t, err)
	defer fb.Close()

	writeKeymap(t, path, `[translate`)
	assert.Error(t, fb.Reload())

	b, ok := fb.Lookup(KindTranslate)
	require.True(t, ok, "a broken save must not strip the keymap")
	assert.Equal(t, Key("g"), b.Key)
}

func TestFileBindings_WatchPicksUpEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymap.toml")
	writeKeymap(t, path, `
[translate]
key = "g"
`)

	fb, err := NewFileBindings(path, nil)
	require.NoError(t, err)
	defer fb.Close()

	require.NoError(t, fb.Watch())

	writeKeymap(t, path, `
[translate]
key = "t"
shift = true
`)

	require.Eventually(t, func() bool {
		b, ok := fb.Lookup(KindTranslate)
		return ok && b.Key == Key("t") && b.Shift
	}, 3*time.Second, 10*time.Millisecond, "rebinding should apply without a restart")
}

func TestStaticBindings_Lookup(t *testing.T) {
	s := StaticBindings{KindScale: {Key: Key("s"), Alt: true}}

	b, ok := s.Lookup(KindScale)
	require.True(t, ok)
	assert.True(t, b.Matches(Event{Key: Key("s"), Alt: true}))
	assert.False(t, b.Matches(Event{Key: Key("s")}))

	_, ok = s.Lookup(KindTranslate)
	assert.False(t, ok)
}
