package keygrip

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// TriggerBinding is the exact key tuple that starts one manipulation kind.
// A press matches only when the key and every modifier flag agree; a looser
// match would start sampling on unrelated shortcuts.
type TriggerBinding struct {
	Key   Key  `toml:"key"`
	Shift bool `toml:"shift"`
	Ctrl  bool `toml:"ctrl"`
	Alt   bool `toml:"alt"`
	Meta  bool `toml:"meta"`
}

// Matches reports whether ev carries exactly this binding's key tuple.
func (b TriggerBinding) Matches(ev Event) bool {
	return ev.Key == b.Key &&
		ev.Shift == b.Shift &&
		ev.Ctrl == b.Ctrl &&
		ev.Alt == b.Alt &&
		ev.Meta == b.Meta
}

// BindingProvider resolves the trigger binding for a manipulation kind.
//
// Lookup is consulted on every classification pass rather than cached, so a
// host that rebinds keys at runtime takes effect on the very next event. A
// kind with no binding can simply never start.
type BindingProvider interface {
	Lookup(kind Kind) (TriggerBinding, bool)
}

// StaticBindings is a fixed-map BindingProvider, handy as a test fixture and
// for hosts whose keymap cannot change while running.
type StaticBindings map[Kind]TriggerBinding

// Lookup implements BindingProvider.
func (s StaticBindings) Lookup(kind Kind) (TriggerBinding, bool) {
	b, ok := s[kind]
	return b, ok
}

// keymapFile is the on-disk TOML shape served by FileBindings. A missing
// section leaves that manipulation kind unbound.
type keymapFile struct {
	Translate *TriggerBinding `toml:"translate"`
	Rotate    *TriggerBinding `toml:"rotate"`
	Scale     *TriggerBinding `toml:"scale"`
}

// FileBindings serves trigger bindings from a TOML keymap file and hot-reloads
// it whenever the file changes, so edits take effect mid-session without a
// recorder restart.
//
// Example keymap:
//
//	[translate]
//	key = "g"
//
//	[rotate]
//	key = "r"
//
//	[scale]
//	key = "s"
type FileBindings struct {
	mu       sync.RWMutex
	path     string
	bindings map[Kind]TriggerBinding

	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// NewFileBindings loads the keymap at path. The file must exist and parse; a
// keymap that binds nothing is legal and just makes every kind unreachable.
func NewFileBindings(path string, logger *zap.Logger) (*FileBindings, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &FileBindings{
		path:     path,
		bindings: make(map[Kind]TriggerBinding),
		logger:   logger,
		done:     make(chan struct{}),
	}

	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Lookup implements BindingProvider against the most recently loaded keymap.
func (f *FileBindings) Lookup(kind Kind) (TriggerBinding, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, ok := f.bindings[kind]
	return b, ok
}

// Reload re-reads the keymap file. On parse failure the previous bindings are
// kept, so a half-saved file never strips the keymap out from under an active
// session.
func (f *FileBindings) Reload() error {
	var km keymapFile
	if _, err := toml.DecodeFile(f.path, &km); err != nil {
		return fmt.Errorf("failed to load keymap %s: %w", f.path, err)
	}

	loaded := make(map[Kind]TriggerBinding)
	if km.Translate != nil {
		loaded[KindTranslate] = *km.Translate
	}
	if km.Rotate != nil {
		loaded[KindRotate] = *km.Rotate
	}
	if km.Scale != nil {
		loaded[KindScale] = *km.Scale
	}

	f.mu.Lock()
	f.bindings = loaded
	f.mu.Unlock()

	f.logger.Debug("keymap loaded",
		zap.String("path", f.path),
		zap.Int("bindings", len(loaded)))
	return nil
}

// Watch starts watching the keymap file for changes in a background
// goroutine. Call Close to stop it.
func (f *FileBindings) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory rather than the file: editors that save via
	// rename-and-replace would otherwise silently detach the watch.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		watcher.Close()
		return err
	}
	f.watcher = watcher

	go f.watchLoop()
	return nil
}

func (f *FileBindings) watchLoop() {
	for {
		select {
		case <-f.done:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(f.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, err := os.Stat(f.path); err != nil {
				continue // mid-rename, wait for the create
			}
			if err := f.Reload(); err != nil {
				f.logger.Warn("keymap reload failed, keeping previous bindings",
					zap.String("path", f.path),
					zap.Error(err))
			}
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("keymap watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher goroutine, if one was started.
func (f *FileBindings) Close() error {
	select {
	case <-f.done:
	default:
		close(f.done)
	}
	if f.watcher != nil {
		return f.watcher.Close()
	}
	return nil
}
