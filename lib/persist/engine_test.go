package persist

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/localdata/lib/crypto"
	"github.com/ValentinKolb/localdata/lib/db"
	"github.com/ValentinKolb/localdata/lib/serializer"
	"github.com/ValentinKolb/localdata/lib/store"
)

const testKey = "0123456789abcdef0123456789abcdef"

func testSettings(dir string) *Settings {
	s := DefaultSettings()
	s.Directory = dir
	s.Key = testKey
	return s
}

// newTestEngine returns an engine on a fresh registry and a pointer to the events it emits
func newTestEngine(t *testing.T, settings *Settings) (*Engine, *store.Registry, *[]Event) {
	t.Helper()
	registry := store.NewRegistry()
	engine, err := NewEngine(settings, registry)
	if err != nil {
		t.Fatalf("Unexpected error creating engine: %v", err)
	}
	events := &[]Event{}
	engine.Subscribe(func(e Event) { *events = append(*events, e) })
	return engine, registry, events
}

func fillRegistry(r *store.Registry) {
	r.Strings.Set("name", "ada")
	r.Bools.Set("sound", true)
	r.Ints.Set("score", 10)
	r.Floats.Set("volume", 0.75)
	r.Vector2.Set("cursor", db.Vector2{X: 4, Y: 2})
	r.Vector3.Set("spawn", db.Vector3{X: 1, Y: 2, Z: 3})
}

func requireFilled(t *testing.T, r *store.Registry) {
	t.Helper()
	if r.Strings.Get("name", "") != "ada" ||
		!r.Bools.Get("sound", false) ||
		r.Ints.Get("score", 0) != 10 ||
		r.Floats.Get("volume", 0) != 0.75 ||
		r.Vector2.Get("cursor", db.Vector2{}) != (db.Vector2{X: 4, Y: 2}) ||
		r.Vector3.Get("spawn", db.Vector3{}) != (db.Vector3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Registry content does not match the saved data: %+v", r.Flatten())
	}
}

func requireExists(t *testing.T, path string, want bool) {
	t.Helper()
	_, err := os.Stat(path)
	if got := err == nil; got != want {
		t.Errorf("Expected file %s to exist=%t, got %t", filepath.Base(path), want, got)
	}
}

func requireEvents(t *testing.T, events []Event, want ...Event) {
	t.Helper()
	if len(events) != len(want) {
		t.Fatalf("Expected %d events, got %d: %+v", len(want), len(events), events)
	}
	for i := range want {
		if events[i].Kind != want[i].Kind || events[i].Path != want[i].Path {
			t.Errorf("Event %d: expected %s(%s), got %s(%s)", i, want[i].Kind, want[i].Path, events[i].Kind, events[i].Path)
		}
	}
}

func writeRaw(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// --------------------------------------------------------------------------
// Fresh start and round trips
// --------------------------------------------------------------------------

func TestFreshStart(t *testing.T) {
	for _, encrypt := range []bool{false, true} {
		settings := testSettings(t.TempDir())
		engine, registry, events := newTestEngine(t, settings)
		registry.Ints.Set("leftover", 1)

		if err := engine.Load(encrypt); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if registry.Ints.Len() != 0 || registry.IsDirty() {
			t.Errorf("Expected an empty, clean registry after a fresh start")
		}

		target, other := engine.PlainPath(), engine.EncryptedPath()
		if encrypt {
			target, other = other, target
		}
		requireExists(t, target, true)
		requireExists(t, other, false)
		requireEvents(t, *events,
			Event{Kind: EventSaveFinished, Path: target},
			Event{Kind: EventLoadFinished, Path: target})

		// the initial document is a valid empty snapshot
		r2 := store.NewRegistry()
		engine2, err := NewEngine(settings, r2)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		r2.Strings.Set("x", "y")
		if err := engine2.Load(encrypt); err != nil {
			t.Fatalf("Unexpected error loading the initial document: %v", err)
		}
		if len(r2.Strings.Keys()) != 0 {
			t.Errorf("Expected the initial document to be empty")
		}
	}
}

func TestFreshStartPlaintextDocument(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, _, _ := newTestEngine(t, settings)
	if err := engine.Load(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	data, err := os.ReadFile(engine.PlainPath())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var snap store.Snapshot
	if err := settings.Serializer.Deserialize(data, &snap); err != nil {
		t.Fatalf("Expected a plaintext snapshot document, got error %v:\n%s", err, data)
	}
	if snap.EnableEncryption {
		t.Errorf("Expected the document to record EnableEncryption=false")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cryptographers := []crypto.ICryptographer{
		crypto.NewAESCryptographer(),
		&crypto.ChaChaCryptographer{N: 1 << 10, R: 8, P: 1},
	}
	serializers := []serializer.ISerializer{serializer.NewJSONSerializer(), serializer.NewGOBSerializer()}

	for _, c := range cryptographers {
		for _, ser := range serializers {
			for _, encrypt := range []bool{false, true} {
				t.Run(c.Name()+"/"+ser.Name(), func(t *testing.T) {
					settings := testSettings(t.TempDir())
					settings.Cryptographer = c
					settings.Serializer = ser

					engine, registry, _ := newTestEngine(t, settings)
					fillRegistry(registry)
					registry.AutoSave = false
					if err := engine.Save(encrypt); err != nil {
						t.Fatalf("Unexpected error during Save: %v", err)
					}
					if registry.IsDirty() {
						t.Errorf("Expected a saved registry to be clean")
					}

					engine2, r2, events := newTestEngine(t, settings)
					if err := engine2.Load(encrypt); err != nil {
						t.Fatalf("Unexpected error during Load: %v", err)
					}
					requireFilled(t, r2)
					if r2.IsDirty() {
						t.Errorf("Expected a loaded registry to be clean")
					}
					if r2.AutoSave {
						t.Errorf("Expected the AutoSave flag to be loaded from the document")
					}
					if r2.EnableEncryption != encrypt {
						t.Errorf("Expected EnableEncryption=%t after load", encrypt)
					}
					requireEvents(t, *events, Event{Kind: EventLoadFinished, Path: engine2.currentPath()})
				})
			}
		}
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, registry, _ := newTestEngine(t, settings)
	fillRegistry(registry)

	if err := engine.Save(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	first, _ := os.ReadFile(engine.PlainPath())
	if err := engine.Save(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, _ := os.ReadFile(engine.PlainPath())
	if !bytes.Equal(first, second) {
		t.Errorf("Expected a second save of a clean registry to write the same document")
	}
}

func TestSaveRemovesOtherVariant(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, registry, _ := newTestEngine(t, settings)
	fillRegistry(registry)

	if err := engine.Save(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	requireExists(t, engine.EncryptedPath(), true)
	requireExists(t, engine.PlainPath(), false)

	if err := engine.Save(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	requireExists(t, engine.EncryptedPath(), false)
	requireExists(t, engine.PlainPath(), true)
	if registry.EnableEncryption {
		t.Errorf("Expected Save(false) to clear EnableEncryption")
	}
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	writeRaw(t, blocker, []byte("x"))

	settings := testSettings(filepath.Join(blocker, "sub"))
	engine, registry, events := newTestEngine(t, settings)
	registry.Ints.Set("score", 10)

	if err := engine.Save(false); err == nil {
		t.Fatalf("Expected an error writing below a regular file")
	}
	if !registry.IsDirty() {
		t.Errorf("Expected the registry to stay dirty after a failed save")
	}
	if len(*events) != 0 {
		t.Errorf("Expected no events, got %+v", *events)
	}
}

func TestSaveWithoutCryptographer(t *testing.T) {
	settings := testSettings(t.TempDir())
	settings.Cryptographer = nil
	engine, _, _ := newTestEngine(t, settings)

	if err := engine.Save(true); err != ErrNoCryptographer {
		t.Errorf("Expected ErrNoCryptographer, got %v", err)
	}
	if err := engine.Save(false); err != nil {
		t.Errorf("Unexpected error saving plaintext without a cryptographer: %v", err)
	}
}

// --------------------------------------------------------------------------
// Recovery protocol
// --------------------------------------------------------------------------

func TestMigrationToEncrypted(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, registry, _ := newTestEngine(t, settings)
	fillRegistry(registry)
	if err := engine.Save(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	original, _ := os.ReadFile(engine.PlainPath())

	engine2, r2, events := newTestEngine(t, settings)
	if err := engine2.Load(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	requireExists(t, engine2.PlainPath(), false)
	requireExists(t, engine2.EncryptedPath(), true)
	requireFilled(t, r2)
	if !r2.EnableEncryption {
		t.Errorf("Expected EnableEncryption after migration")
	}
	requireEvents(t, *events,
		Event{Kind: EventSaveFinished, Path: engine2.EncryptedPath()},
		Event{Kind: EventLoadFinished, Path: engine2.PlainPath()})

	// the encrypted file holds the same snapshot (apart from the flag)
	data, _ := os.ReadFile(engine2.EncryptedPath())
	text := settings.Cryptographer.Decrypt(data, testKey)
	var migrated, before store.Snapshot
	if err := settings.Serializer.Deserialize([]byte(text), &migrated); err != nil {
		t.Fatalf("Failed to parse the decrypted file: %v", err)
	}
	_ = settings.Serializer.Deserialize(original, &before)
	before.EnableEncryption = true
	a, _ := settings.Serializer.Serialize(&before)
	b, _ := settings.Serializer.Serialize(&migrated)
	if !bytes.Equal(a, b) {
		t.Errorf("Migrated document differs from the original:\n%s\n%s", a, b)
	}
	if engine2.Stats().Migrations.Count() != 1 {
		t.Errorf("Expected one migration, got %d", engine2.Stats().Migrations.Count())
	}
}

func TestCorruptFileLeavesRegistryUntouched(t *testing.T) {
	for _, encrypted := range []bool{false, true} {
		settings := testSettings(t.TempDir())
		engine, registry, events := newTestEngine(t, settings)
		registry.Ints.Set("score", 5)

		path := engine.PlainPath()
		if encrypted {
			path = engine.EncryptedPath()
		}
		writeRaw(t, path, []byte("this is { not a document"))

		if err := engine.Load(encrypted); err == nil {
			t.Errorf("Expected an error loading a corrupt file")
		}
		if registry.Ints.Get("score", 0) != 5 || registry.Ints.Len() != 1 {
			t.Errorf("Expected the in-memory state to survive a failed load")
		}
		requireEvents(t, *events, Event{Kind: EventLoadError, Path: path})
		if (*events)[0].Err == nil {
			t.Errorf("Expected LoadError to carry the cause")
		}
		if engine.Stats().LoadErrors.Count() != 1 {
			t.Errorf("Expected one load error to be counted")
		}
		requireExists(t, path, true)
	}
}

func TestMalformedSnapshotLeavesRegistryUntouched(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, registry, events := newTestEngine(t, settings)
	registry.Strings.Set("name", "ada")

	writeRaw(t, engine.PlainPath(), []byte(`{"Strings":{"keys":["a","b"],"values":["only one"]}}`))
	if err := engine.Load(false); !store.IsCode(err, store.RetCMalformedSnapshot) {
		t.Errorf("Expected RetCMalformedSnapshot, got %v", err)
	}
	if registry.Strings.Get("name", "") != "ada" {
		t.Errorf("Expected the in-memory state to survive a malformed snapshot")
	}
	requireEvents(t, *events, Event{Kind: EventLoadError, Path: engine.PlainPath()})
}

func TestEncryptedContentUnderPlaintextName(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, registry, _ := newTestEngine(t, settings)
	fillRegistry(registry)
	if err := engine.Save(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := os.Rename(engine.EncryptedPath(), engine.PlainPath()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	engine2, r2, events := newTestEngine(t, settings)
	if err := engine2.Load(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	requireFilled(t, r2)
	if !r2.EnableEncryption {
		t.Errorf("Expected EnableEncryption to follow the decrypted content")
	}
	requireEvents(t, *events, Event{Kind: EventLoadFinished, Path: engine2.PlainPath()})
	if engine2.Stats().Fallbacks.Count() != 1 {
		t.Errorf("Expected one fallback, got %d", engine2.Stats().Fallbacks.Count())
	}
}

func TestPlaintextContentUnderEncryptedName(t *testing.T) {
	for _, prefer := range []bool{false, true} {
		settings := testSettings(t.TempDir())
		engine, registry, _ := newTestEngine(t, settings)
		fillRegistry(registry)
		if err := engine.Save(false); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if err := os.Rename(engine.PlainPath(), engine.EncryptedPath()); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		engine2, r2, _ := newTestEngine(t, settings)
		if err := engine2.Load(prefer); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		requireFilled(t, r2)
		if r2.EnableEncryption != prefer {
			t.Errorf("Expected EnableEncryption=%t, got %t", prefer, r2.EnableEncryption)
		}

		// with encryption wanted the file is re-written encrypted
		data, _ := os.ReadFile(engine2.EncryptedPath())
		decrypted := settings.Cryptographer.Decrypt(data, testKey) != ""
		if decrypted != prefer {
			t.Errorf("Expected the encrypted file to be encrypted=%t", prefer)
		}
	}
}

func TestStaleEncryptedFileRemoved(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, registry, _ := newTestEngine(t, settings)
	registry.Ints.Set("score", 1)
	if err := engine.Save(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	stale, _ := os.ReadFile(engine.EncryptedPath())

	registry.Ints.Set("score", 2)
	if err := engine.Save(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	writeRaw(t, engine.EncryptedPath(), stale)

	engine2, r2, _ := newTestEngine(t, settings)
	if err := engine2.Load(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r2.Ints.Get("score", 0) != 2 {
		t.Errorf("Expected the plaintext file to win, got score=%d", r2.Ints.Get("score", 0))
	}
	requireExists(t, engine2.EncryptedPath(), false)
	requireExists(t, engine2.PlainPath(), true)
}

func TestCorruptPlaintextFallsBackToEncrypted(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, registry, _ := newTestEngine(t, settings)
	fillRegistry(registry)
	if err := engine.Save(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	writeRaw(t, engine.PlainPath(), []byte("garbage"))

	engine2, r2, events := newTestEngine(t, settings)
	if err := engine2.Load(false); err != nil {
		t.Fatalf("Expected the encrypted file to recover the load, got %v", err)
	}
	requireFilled(t, r2)
	requireEvents(t, *events,
		Event{Kind: EventLoadError, Path: engine2.PlainPath()},
		Event{Kind: EventLoadFinished, Path: engine2.EncryptedPath()})
}

func TestWrongKey(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, registry, _ := newTestEngine(t, settings)
	fillRegistry(registry)
	if err := engine.Save(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	wrong := testSettings(settings.Directory)
	wrong.Key = "fedcba9876543210fedcba9876543210"
	engine2, r2, events := newTestEngine(t, wrong)
	r2.Strings.Set("kept", "yes")

	if err := engine2.Load(true); err == nil {
		t.Errorf("Expected an error loading with the wrong key")
	}
	if r2.Strings.Get("kept", "") != "yes" || r2.Ints.Len() != 0 {
		t.Errorf("Expected the registry to be untouched")
	}
	requireEvents(t, *events, Event{Kind: EventLoadError, Path: engine2.EncryptedPath()})
	requireExists(t, engine2.EncryptedPath(), true)
}

// --------------------------------------------------------------------------
// Misc
// --------------------------------------------------------------------------

func TestDeleteFile(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, _, _ := newTestEngine(t, settings)
	if err := engine.Save(true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	removed, err := engine.DeleteFile()
	if err != nil || !removed {
		t.Fatalf("Expected the encrypted file to be deleted, got (%t, %v)", removed, err)
	}
	requireExists(t, engine.EncryptedPath(), false)

	removed, err = engine.DeleteFile()
	if err != nil || removed {
		t.Errorf("Expected deleting a missing file to be a no-op, got (%t, %v)", removed, err)
	}
}

func TestNonFiniteFloatsPersist(t *testing.T) {
	for _, encrypt := range []bool{false, true} {
		settings := testSettings(t.TempDir())
		engine, registry, _ := newTestEngine(t, settings)
		registry.Floats.Set("nan", math.NaN())
		registry.Floats.Set("inf", math.Inf(1))
		registry.Vector3.Set("v", db.Vector3{X: math.Inf(-1)})

		if err := engine.Save(encrypt); err != nil {
			t.Fatalf("encrypt=%t: unexpected error saving non-finite floats: %v", encrypt, err)
		}

		engine2, r2, _ := newTestEngine(t, settings)
		if err := engine2.Load(encrypt); err != nil {
			t.Fatalf("encrypt=%t: unexpected error: %v", encrypt, err)
		}
		if !math.IsNaN(r2.Floats.Get("nan", 0)) || !math.IsInf(r2.Floats.Get("inf", 0), 1) ||
			!math.IsInf(r2.Vector3.Get("v", db.Vector3{}).X, -1) {
			t.Errorf("encrypt=%t: non-finite floats did not survive: %+v", encrypt, r2.Flatten())
		}
	}
}

func TestSubscribeCancel(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, _, _ := newTestEngine(t, settings)

	calls := 0
	cancel := engine.Subscribe(func(Event) { calls++ })
	_ = engine.Save(false)
	cancel()
	_ = engine.Save(false)

	if calls != 1 {
		t.Errorf("Expected one call before cancel, got %d", calls)
	}
}

func TestSubscribersCalledInOrder(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, _, _ := newTestEngine(t, settings)

	var order []int
	for i := 0; i < 20; i++ {
		engine.Subscribe(func(Event) { order = append(order, i) })
	}
	cancel := engine.Subscribe(func(Event) { order = append(order, -1) })
	cancel()
	if err := engine.Save(false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(order) != 20 {
		t.Fatalf("Expected 20 calls, got %v", order)
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("Expected handlers in subscription order, got %v", order)
		}
	}
}

func TestStats(t *testing.T) {
	settings := testSettings(t.TempDir())
	engine, _, _ := newTestEngine(t, settings)
	_ = engine.Save(false)
	_ = engine.Load(false)

	stats := engine.Stats()
	if stats.Saves.Count() != 1 || stats.Loads.Count() != 1 {
		t.Errorf("Expected one save and one load, got %d and %d", stats.Saves.Count(), stats.Loads.Count())
	}
	if stats.SaveLatency.Count() != 1 {
		t.Errorf("Expected the save timer to be updated")
	}

	names := map[string]bool{}
	stats.Each(func(name string, _ interface{}) { names[name] = true })
	for _, want := range []string{"saves", "loads", "save_latency", "load_latency"} {
		if !names[want] {
			t.Errorf("Expected metric %q", want)
		}
	}

	var buf bytes.Buffer
	WritePrometheus(&buf)
	if !bytes.Contains(buf.Bytes(), []byte("ldata_saves_total")) {
		t.Errorf("Expected ldata_saves_total in the prometheus output")
	}
}
