package persist

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ValentinKolb/localdata/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("persist")

// Engine moves a Registry between memory and the two file variants described by
// its Settings: a plaintext file and an encrypted file carrying the marker.
//
// Thread-safety: An Engine shares the single-owner model of its Registry.
type Engine struct {
	settings *Settings
	registry *store.Registry
	events   *eventHub
	stats    *Stats
}

// NewEngine validates settings and returns an engine persisting registry.
func NewEngine(settings *Settings, registry *store.Registry) (*Engine, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings must not be nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry must not be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &Engine{
		settings: settings,
		registry: registry,
		events:   newEventHub(),
		stats:    newStats(),
	}, nil
}

func (e *Engine) PlainPath() string     { return e.settings.PlainPath() }
func (e *Engine) EncryptedPath() string { return e.settings.EncryptedPath() }
func (e *Engine) Settings() *Settings   { return e.settings }
func (e *Engine) Stats() *Stats         { return e.stats }

// Subscribe registers handler for all future events and returns a function removing it.
func (e *Engine) Subscribe(handler Handler) (cancel func()) {
	return e.events.subscribe(handler)
}

// --------------------------------------------------------------------------
// Save
// --------------------------------------------------------------------------

// Save writes the registry to the variant selected by encrypt and removes the other
// variant. The registry's EnableEncryption flag is set to encrypt. Calling Save on a
// clean registry rewrites the same content.
func (e *Engine) Save(encrypt bool) error {
	start := time.Now()

	target, stale := e.PlainPath(), e.EncryptedPath()
	if encrypt {
		target, stale = stale, target
		if e.settings.Cryptographer == nil {
			return ErrNoCryptographer
		}
	}

	previous := e.registry.EnableEncryption
	e.registry.EnableEncryption = encrypt
	data, err := e.settings.Serializer.Serialize(e.registry.Flatten())
	if err == nil && encrypt {
		data, err = e.settings.Cryptographer.Encrypt(string(data), e.settings.Key)
	}
	if err == nil {
		err = writeFile(target, data, e.fileMode(), e.settings.AtomicWrite)
	}
	if err != nil {
		// nothing reached the disk
		e.registry.EnableEncryption = previous
		e.registry.MarkDirty()
		return fmt.Errorf("save %s: %w", target, err)
	}

	if removed, err := removeIfExists(stale); err != nil {
		plog.Warningf("could not remove stale file %s: %v", stale, err)
	} else if removed {
		staleRemoved.Inc()
		plog.Debugf("removed stale file %s", stale)
	}

	e.stats.observeSave(start, len(data), encrypt)
	plog.Infof("saved %s (%d bytes, encrypted=%t)", target, len(data), encrypt)
	e.events.emit(Event{Kind: EventSaveFinished, Path: target})
	return nil
}

// ErrNoCryptographer is returned by Save when encryption is requested without a Cryptographer.
var ErrNoCryptographer = errors.New("encryption requested but no cryptographer is configured")

func (e *Engine) fileMode() os.FileMode {
	if e.settings.FileMode == 0 {
		return 0o600
	}
	return e.settings.FileMode
}

// --------------------------------------------------------------------------
// Load
// --------------------------------------------------------------------------

// origin tells how a document was recovered from a file.
type origin uint8

const (
	originPlain     origin = iota // parsed as stored
	originDecrypted               // decrypted, then parsed
)

// Load reads the registry back from disk, resolving which of the two variants to use.
//
//   - Neither file exists: the registry is cleared and an empty document is saved in
//     the requested mode. This is a fresh start, not an error.
//   - The plaintext file is tried first, as plain document and then as encrypted bytes.
//     A plain document is migrated to the encrypted variant if preferEncrypted is set.
//   - The encrypted file is loaded if the plaintext file did not settle the outcome. It
//     is discarded as stale when the plaintext file loaded and encryption is not wanted.
//
// Every file that cannot be interpreted produces an EventLoadError and leaves the
// registry untouched. Load returns an error if the registry could not be loaded from
// any existing file or an unexpected I/O error occurred.
func (e *Engine) Load(preferEncrypted bool) error {
	start := time.Now()
	plain, enc := e.PlainPath(), e.EncryptedPath()

	hasPlain, err := exists(plain)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	hasEnc, err := exists(enc)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	if !hasPlain && !hasEnc {
		plog.Infof("no save file at %s, starting fresh", plain)
		freshStartsTotal.Inc()
		e.registry.DeleteAll()
		if err := e.Save(preferEncrypted); err != nil {
			return err
		}
		e.stats.observeLoad(start)
		e.events.emit(Event{Kind: EventLoadFinished, Path: e.currentPath()})
		return nil
	}

	var lastErr error
	plainLoaded := false

	if hasPlain {
		snap, from, err := e.read(plain, false)
		if err == nil {
			err = e.apply(snap, from == originDecrypted)
		}
		switch {
		case err != nil:
			lastErr = e.fail(plain, err)

		case from == originPlain && preferEncrypted:
			// migration, Save writes the encrypted variant and removes the plaintext file
			plog.Infof("migrating %s to encrypted storage", plain)
			if err := e.Save(true); err != nil {
				return err
			}
			e.stats.observeMigration()
			return e.finish(start, plain)

		case from == originPlain || !preferEncrypted || !hasEnc:
			if hasEnc {
				e.removeStale(enc)
			}
			return e.finish(start, plain)

		default:
			// encrypted content under the plaintext name, the encrypted file still takes precedence
			plainLoaded = true
			e.events.emit(Event{Kind: EventLoadFinished, Path: plain})
		}
	}

	if !hasEnc {
		return lastErr
	}

	snap, from, err := e.read(enc, true)
	if err == nil {
		err = e.apply(snap, from == originDecrypted)
	}
	if err != nil {
		lastErr = e.fail(enc, err)
		if plainLoaded {
			e.stats.observeLoad(start)
			return nil
		}
		return lastErr
	}
	if from == originPlain && preferEncrypted {
		plog.Infof("re-encrypting mislabeled plaintext file %s", enc)
		if err := e.Save(true); err != nil {
			return err
		}
		e.stats.observeMigration()
	}
	return e.finish(start, enc)
}

// read returns the document stored in path. encryptedFirst selects the order of the two
// interpretations: the plaintext variant is parsed first, the encrypted one decrypted first.
func (e *Engine) read(path string, encryptedFirst bool) (*store.Snapshot, origin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	attempts := []origin{originPlain, originDecrypted}
	if encryptedFirst {
		attempts = []origin{originDecrypted, originPlain}
	}

	var errs []string
	for i, from := range attempts {
		if i > 0 {
			e.stats.Fallbacks.Inc(1)
			plog.Warningf("%s: %s, trying %s", path, errs[len(errs)-1], from)
		}
		var snap *store.Snapshot
		if from == originPlain {
			snap, err = e.decode(data)
		} else {
			snap, err = e.decrypt(data)
		}
		if err == nil {
			return snap, from, nil
		}
		errs = append(errs, err.Error())
	}
	return nil, 0, store.NewError(store.RetCMalformedSnapshot, strings.Join(errs, "; "))
}

func (o origin) String() string {
	if o == originDecrypted {
		return "decryption"
	}
	return "plain parse"
}

// decode parses and validates a document without touching the registry.
func (e *Engine) decode(data []byte) (*store.Snapshot, error) {
	var snap store.Snapshot
	if err := e.settings.Serializer.Deserialize(data, &snap); err != nil {
		return nil, store.NewError(store.RetCMalformedSnapshot, fmt.Sprintf("parse: %v", err))
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// decrypt opens data with the configured key and decodes the result. A blank
// plaintext is treated as failure.
func (e *Engine) decrypt(data []byte) (*store.Snapshot, error) {
	if e.settings.Cryptographer == nil {
		return nil, store.NewError(store.RetCDecryptFailure, "no cryptographer configured")
	}
	text := e.settings.Cryptographer.Decrypt(data, e.settings.Key)
	if strings.TrimSpace(text) == "" {
		return nil, store.NewError(store.RetCDecryptFailure, "decryption failed")
	}
	return e.decode([]byte(text))
}

// apply rebuilds the registry from a validated snapshot and records which variant
// the content came from.
func (e *Engine) apply(snap *store.Snapshot, encrypted bool) error {
	if err := e.registry.Rebuild(snap); err != nil {
		return err
	}
	e.registry.EnableEncryption = encrypted
	return nil
}

func (e *Engine) fail(path string, err error) error {
	e.stats.observeLoadError()
	plog.Errorf("could not load %s: %v", path, err)
	e.events.emit(Event{Kind: EventLoadError, Path: path, Err: err})
	return fmt.Errorf("load %s: %w", path, err)
}

func (e *Engine) finish(start time.Time, path string) error {
	e.stats.observeLoad(start)
	plog.Infof("loaded %s", path)
	e.events.emit(Event{Kind: EventLoadFinished, Path: path})
	return nil
}

func (e *Engine) removeStale(path string) {
	if removed, err := removeIfExists(path); err != nil {
		plog.Warningf("could not remove stale file %s: %v", path, err)
	} else if removed {
		staleRemoved.Inc()
		plog.Infof("removed stale file %s", path)
	}
}

// currentPath is the file matching the registry's EnableEncryption flag.
func (e *Engine) currentPath() string {
	if e.registry.EnableEncryption {
		return e.EncryptedPath()
	}
	return e.PlainPath()
}

// --------------------------------------------------------------------------
// Delete
// --------------------------------------------------------------------------

// DeleteFile removes the file variant matching the registry's EnableEncryption flag
// and reports whether it existed.
func (e *Engine) DeleteFile() (bool, error) {
	path := e.currentPath()
	removed, err := removeIfExists(path)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", path, err)
	}
	if removed {
		plog.Infof("deleted %s", path)
	}
	return removed, nil
}
