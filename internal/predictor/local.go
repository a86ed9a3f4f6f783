package predictor

import (
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var splitsBucketName = []byte("splits")

// ErrRecordNotFound distinguishes "no record for this map" from an empty or
// unreadable record.
var ErrRecordNotFound = errors.New("splits: no record for map")

// LocalStore is the key-value split file store keyed by map id.
type LocalStore interface {
	Load(mapID string) (SplitRecord, error)
	Save(mapID string, record SplitRecord) error
}

// BoltSplitStore persists best-split records in a bbolt database, one key per
// map id, values in the delimited numeric sequence encoding.
type BoltSplitStore struct {
	db *bolt.DB
}

func OpenBoltSplitStore(path string) (*BoltSplitStore, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})

	if err != nil {
		return nil, errors.Wrapf(err, "could not open split database: %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(splitsBucketName)

		return err
	})

	if err != nil {
		return nil, errors.Wrap(err, "could not initialise split database")
	}

	return &BoltSplitStore{db: db}, nil
}

func (b *BoltSplitStore) Load(mapID string) (SplitRecord, error) {
	var data []byte

	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(splitsBucketName)

		if bucket == nil {
			return ErrRecordNotFound
		}

		value := bucket.Get([]byte(mapID))

		if value == nil {
			return ErrRecordNotFound
		}

		// copy out of the transaction
		data = append(data, value...)

		return nil
	})

	if err != nil {
		return nil, err
	}

	record, err := DecodeSplitRecord(data)

	if err != nil {
		return nil, errors.Wrapf(err, "malformed split record for map: %s", mapID)
	}

	return record, nil
}

func (b *BoltSplitStore) Save(mapID string, record SplitRecord) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(splitsBucketName)

		if bucket == nil {
			return errors.New("splits bucket missing")
		}

		return bucket.Put([]byte(mapID), record.Encode())
	})

	return errors.Wrapf(err, "could not save split record for map: %s", mapID)
}

func (b *BoltSplitStore) Close() error {
	return b.db.Close()
}
