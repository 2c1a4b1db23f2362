package prefs

import (
	"testing"

	"github.com/quasilyte/gdata/v2"

	"github.com/teslashibe/lenslab/pkg/narration"
)

func openManager(t *testing.T) *gdata.Manager {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)

	m, err := gdata.Open(gdata.Config{AppName: "lenslab_test"})
	if err != nil {
		t.Fatalf("gdata.Open: %v", err)
	}
	return m
}

func TestDefaults(t *testing.T) {
	s := NewStore(openManager(t), nil)
	if got := s.Get(); got != Defaults() {
		t.Errorf("expected defaults, got %+v", got)
	}
	if !s.Persistent() {
		t.Error("expected a persistent store")
	}
}

func TestUpdateSurvivesReopen(t *testing.T) {
	m := openManager(t)

	s := NewStore(m, nil)
	err := s.Update(func(p *Prefs) {
		p.AudioEnabled = false
		p.Language = narration.English
		p.Voice = "nova"
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got := NewStore(m, nil).Get()
	want := Prefs{AudioEnabled: false, Language: narration.English, Voice: "nova"}
	if got != want {
		t.Errorf("reopened prefs = %+v, want %+v", got, want)
	}
}

func TestUnknownLanguageFallsBack(t *testing.T) {
	m := openManager(t)
	if err := m.SaveObjectProp(prefsObject, prefsProperty, []byte("audioEnabled: false\nlanguage: fr-FR\n")); err != nil {
		t.Fatal(err)
	}

	got := NewStore(m, nil).Get()
	if got.Language != narration.DefaultLanguage || got.AudioEnabled {
		t.Errorf("unexpected prefs %+v", got)
	}
}

func TestCorruptDataUsesDefaults(t *testing.T) {
	m := openManager(t)
	if err := m.SaveObjectProp(prefsObject, prefsProperty, []byte("{not yaml")); err != nil {
		t.Fatal(err)
	}

	s := NewStore(m, nil)
	if s.Get() != Defaults() {
		t.Errorf("expected defaults, got %+v", s.Get())
	}
	if err := s.Load(); err == nil {
		t.Error("expected a decode error")
	}
}

func TestInMemoryStore(t *testing.T) {
	s := NewStore(nil, nil)
	if s.Persistent() {
		t.Error("expected an in-memory store")
	}
	if err := s.Update(func(p *Prefs) { p.AudioEnabled = false }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.Get().AudioEnabled {
		t.Error("expected the update to be kept in memory")
	}
}
