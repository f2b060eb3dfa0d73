package persist

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSettingsPaths(t *testing.T) {
	s := DefaultSettings()
	s.Directory = "/tmp/game"

	if got := s.PlainPath(); got != filepath.Join("/tmp/game", "data.save") {
		t.Errorf("Unexpected plaintext path %s", got)
	}
	if got := s.EncryptedPath(); got != filepath.Join("/tmp/game", "data#.save") {
		t.Errorf("Unexpected encrypted path %s", got)
	}

	// marker in the name and a leading dot in the extension
	s.Name = "sa#ve"
	s.Extension = ".json"
	if got := s.PlainPath(); got != filepath.Join("/tmp/game", "save.json") {
		t.Errorf("Unexpected plaintext path %s", got)
	}
	if got := s.EncryptedPath(); got != filepath.Join("/tmp/game", "save#.json") {
		t.Errorf("Unexpected encrypted path %s", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("Expected default settings to be valid, got %v", err)
	}

	tests := map[string]func(s *Settings){
		"EmptyName":      func(s *Settings) { s.Name = "" },
		"OnlyMarker":     func(s *Settings) { s.Name = "##" },
		"EmptyExtension": func(s *Settings) { s.Extension = "." },
		"EmptyMarker":    func(s *Settings) { s.Marker = "" },
		"SlashInName":    func(s *Settings) { s.Name = "a/b" },
		"NoSerializer":   func(s *Settings) { s.Serializer = nil },
	}
	for name, mutate := range tests {
		s := DefaultSettings()
		mutate(s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", name)
		}
		if _, err := NewEngine(s, nil); err == nil {
			t.Errorf("%s: expected NewEngine to fail", name)
		}
	}
}

func TestSettingsString(t *testing.T) {
	s := DefaultSettings()
	s.Key = "secret-key-value"
	out := s.String()

	if strings.Contains(out, "secret-key-value") {
		t.Errorf("Expected the key to be masked:\n%s", out)
	}
	for _, want := range []string{"FILES", "DOCUMENT", "ENCRYPTION", "aes", "json"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in:\n%s", want, out)
		}
	}
}
