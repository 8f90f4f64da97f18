package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSeeds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.bin"), []byte("bravo"))
	writeFile(t, filepath.Join(dir, "a.bin"), []byte("alpha-long-seed"))
	writeFile(t, filepath.Join(dir, "empty"), nil)
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatal(err)
	}

	seeds, err := LoadSeeds(dir, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Seed{
		{Name: "a.bin", Data: []byte("alpha-lo"), Truncated: true},
		{Name: "b.bin", Data: []byte("bravo")},
	}
	if diff := cmp.Diff(want, seeds); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadSeeds_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "empty"), nil)

	if _, err := LoadSeeds(dir, 16); !errors.Is(err, ErrNoSeeds) {
		t.Errorf("expected ErrNoSeeds, got %v", err)
	}
	if _, err := LoadSeeds(filepath.Join(dir, "missing"), 16); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name, written, err := store.Save([]byte("variant"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !written {
		t.Error("expected first save to write")
	}
	if name != FileName([]byte("variant")) {
		t.Errorf("unexpected name %s", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("variant not on disk: %v", err)
	}
	if string(data) != "variant" {
		t.Errorf("unexpected content %q", data)
	}

	if _, written, _ := store.Save([]byte("variant")); written {
		t.Error("expected duplicate to be skipped")
	}

	want := StoreStats{Written: 1, Duplicates: 1, Bytes: 7}
	if diff := cmp.Diff(want, store.Stats()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestStore_ConcurrentSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, _, err := store.Save([]byte{byte(i % 8)}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	stats := store.Stats()
	if stats.Written != 8 || stats.Duplicates != 24 {
		t.Errorf("expected 8 written / 24 duplicates, got %+v", stats)
	}

	files, _ := os.ReadDir(store.Dir())
	if len(files) != 8 {
		t.Errorf("expected 8 files, got %d", len(files))
	}
}

func TestFileName(t *testing.T) {
	name := FileName([]byte("abc"))
	// sha256("abc") = ba7816bf8f01cfea...
	if name != "ba7816bf8f01cfea.3.fuzz" {
		t.Errorf("unexpected name %s", name)
	}
}
