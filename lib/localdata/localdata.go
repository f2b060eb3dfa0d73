package localdata

import (
	"fmt"

	"github.com/ValentinKolb/localdata/lib/persist"
	"github.com/ValentinKolb/localdata/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("localdata")

// LocalData owns the registry of typed stores and the engine persisting it.
type LocalData struct {
	registry    *store.Registry
	engine      *persist.Engine
	initialized bool
}

// New creates a context with an empty registry whose document flags are taken from
// settings. Nothing is read from disk before Init.
func New(settings *persist.Settings) (*LocalData, error) {
	registry := store.NewRegistry()
	engine, err := persist.NewEngine(settings, registry)
	if err != nil {
		return nil, err
	}
	registry.EnableEncryption = settings.EnableEncryption
	registry.AutoSave = settings.AutoSave
	return &LocalData{registry: registry, engine: engine}, nil
}

// Init loads the persisted state, preferring the encrypted variant if encryption is
// enabled. A file that cannot be loaded is reported as error (and as a LoadError event)
// but leaves the context usable with its current in-memory state.
func (l *LocalData) Init() error {
	l.initialized = true
	if err := l.engine.Load(l.registry.EnableEncryption); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	plog.Debugf("initialized from %s", l.Path())
	return nil
}

// Shutdown performs the final save if AutoSave is set and there are unsaved changes.
// Shutdown on a context that was never initialized does nothing, so an unread file is
// never overwritten.
func (l *LocalData) Shutdown() error {
	if !l.initialized {
		return nil
	}
	l.initialized = false
	if !l.registry.AutoSave {
		plog.Debugf("auto save disabled, skipping final save")
		return nil
	}
	return l.Save()
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

// Save writes the registry in the current encryption mode if it has unsaved changes.
func (l *LocalData) Save() error {
	if !l.registry.IsDirty() {
		return nil
	}
	return l.engine.Save(l.registry.EnableEncryption)
}

// SaveWith writes the registry in the given mode, whether or not it changed.
func (l *LocalData) SaveWith(encrypt bool) error {
	return l.engine.Save(encrypt)
}

// Load re-reads the persisted state in the current encryption mode.
func (l *LocalData) Load() error {
	return l.engine.Load(l.registry.EnableEncryption)
}

// LoadWith re-reads the persisted state, migrating to encryption if preferEncrypted is set.
func (l *LocalData) LoadWith(preferEncrypted bool) error {
	return l.engine.Load(preferEncrypted)
}

// DeleteFile removes the file of the current encryption mode. The in-memory state is kept.
func (l *LocalData) DeleteFile() (bool, error) {
	return l.engine.DeleteFile()
}

// Path returns the file matching the current encryption mode.
func (l *LocalData) Path() string {
	if l.registry.EnableEncryption {
		return l.engine.EncryptedPath()
	}
	return l.engine.PlainPath()
}

// Subscribe registers handler for persistence events, see persist.Engine.Subscribe.
func (l *LocalData) Subscribe(handler persist.Handler) (cancel func()) {
	return l.engine.Subscribe(handler)
}

func (l *LocalData) IsDirty() bool             { return l.registry.IsDirty() }
func (l *LocalData) Registry() *store.Registry { return l.registry }
func (l *LocalData) Engine() *persist.Engine   { return l.engine }

// --------------------------------------------------------------------------
// Document Flags
// --------------------------------------------------------------------------

func (l *LocalData) AutoSave() bool          { return l.registry.AutoSave }
func (l *LocalData) EncryptionEnabled() bool { return l.registry.EnableEncryption }

// SetAutoSave changes the persisted AutoSave flag. A change counts as unsaved.
func (l *LocalData) SetAutoSave(enabled bool) {
	if l.registry.AutoSave != enabled {
		l.registry.AutoSave = enabled
		l.registry.MarkDirty()
	}
}

// SetEncryptionEnabled selects the variant the next Save writes. A change counts as unsaved.
func (l *LocalData) SetEncryptionEnabled(enabled bool) {
	if l.registry.EnableEncryption != enabled {
		l.registry.EnableEncryption = enabled
		l.registry.MarkDirty()
	}
}

// --------------------------------------------------------------------------
// Cross-type Operations
// --------------------------------------------------------------------------

// DeleteAll clears every store.
func (l *LocalData) DeleteAll() { l.registry.DeleteAll() }

// HasKey reports whether key exists in any store.
func (l *LocalData) HasKey(key string) bool { return l.registry.HasKey(key) }

// DeleteKey removes key from the first store holding it.
func (l *LocalData) DeleteKey(key string) bool { return l.registry.DeleteKey(key) }

// RenameKeyAll renames key in every store holding it.
func (l *LocalData) RenameKeyAll(oldKey, newKey string) string {
	return l.registry.RenameKeyAll(oldKey, newKey)
}
