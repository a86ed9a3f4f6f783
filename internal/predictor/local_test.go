package predictor

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

func TestBoltSplitStoreRoundTrip(t *testing.T) {
	store, err := OpenBoltSplitStore(filepath.Join(t.TempDir(), "splits.db"))

	if err != nil {
		t.Fatalf("Could not open split store: %s", err)
	}

	defer store.Close()

	record := SplitRecord{0, 1000, 2200, 3000}

	if err := store.Save("mapA", record); err != nil {
		t.Fatalf("Could not save record: %s", err)
	}

	loaded, err := store.Load("mapA")

	if err != nil {
		t.Fatalf("Could not load record: %s", err)
	}

	if loaded.FinalTime() != 3000 || len(loaded) != 4 {
		t.Errorf("Loaded record does not match saved record: %v", loaded)
	}
}

func TestBoltSplitStoreMissingRecord(t *testing.T) {
	store, err := OpenBoltSplitStore(filepath.Join(t.TempDir(), "splits.db"))

	if err != nil {
		t.Fatalf("Could not open split store: %s", err)
	}

	defer store.Close()

	if _, err := store.Load("unknown"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("Expected ErrRecordNotFound for an unknown map, got: %v", err)
	}
}

func TestBoltSplitStoreMalformedValue(t *testing.T) {
	store, err := OpenBoltSplitStore(filepath.Join(t.TempDir(), "splits.db"))

	if err != nil {
		t.Fatalf("Could not open split store: %s", err)
	}

	defer store.Close()

	err = store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(splitsBucketName).Put([]byte("mapA"), []byte("0;banana;3000"))
	})

	if err != nil {
		t.Fatalf("Could not write corrupt value: %s", err)
	}

	if _, err := store.Load("mapA"); err == nil {
		t.Error("Expected a decode error for a corrupt record")
	}
}
