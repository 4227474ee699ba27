package snapshot

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		store := NewStore(filepath.Join(t.TempDir(), "state.json"), compress)
		doc := []byte(`{"tokens":[],"walls":[],"gridSize":{"width":40,"height":30}}`)

		if err := store.Save(doc); err != nil {
			t.Fatalf("compress=%v: save failed: %v", compress, err)
		}
		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("compress=%v: load failed: %v", compress, err)
		}
		if !bytes.Equal(doc, loaded) {
			t.Errorf("compress=%v: expected %s, got %s", compress, doc, loaded)
		}
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"), false)

	_, err := store.Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist for missing snapshot, got: %v", err)
	}
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "state.json"), false)

	if err := store.Save([]byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save([]byte("second")); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if string(loaded) != "second" {
		t.Errorf("Expected latest save to win, got %s", loaded)
	}
}

func TestStore_CreatesDataDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested", "dir", "state.json"), false)

	if err := store.Save([]byte("{}")); err != nil {
		t.Errorf("Expected save to create missing directories, got: %v", err)
	}
}
