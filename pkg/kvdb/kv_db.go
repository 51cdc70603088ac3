package kvdb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

var (
	ErrorsKeyNotExists = errors.New("key not exists")
)

const (
	BBOLTDB_BUCKET = "shapedRecords"
)

// KVDB stores shaped records in bbolt, msgpack encoded, keyed by "<type>/<id>" since node and way
// ids overlap.
type KVDB struct {
	db *bbolt.DB
	sync.Mutex
}

func NewKVDB(db *bbolt.DB) (*KVDB, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BBOLTDB_BUCKET))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &KVDB{db, sync.Mutex{}}, nil
}

func recordKey(tipe, id string) []byte {
	return []byte(tipe + "/" + id)
}

// SaveRecords saves shaped records in one batch transaction.
func (db *KVDB) SaveRecords(recs []*datastructure.ShapedRecord) error {
	db.Lock()
	defer db.Unlock()
	return db.db.Batch(func(tx *bbolt.Tx) error {
		for _, rec := range recs {
			err := db.Set(rec, tx)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (db *KVDB) Set(rec *datastructure.ShapedRecord, tx *bbolt.Tx) error {
	recBytes, err := msgpack.Marshal(rec)
	if err != nil {
		return err
	}
	b := tx.Bucket([]byte(BBOLTDB_BUCKET))
	return b.Put(recordKey(rec.Type, rec.ID()), recBytes)
}

func (db *KVDB) GetRecord(tipe, id string) (rec *datastructure.ShapedRecord, err error) {
	err = db.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BBOLTDB_BUCKET))
		recBytes := b.Get(recordKey(tipe, id))
		if recBytes == nil {
			return fmt.Errorf("record %s/%s: %w", tipe, id, ErrorsKeyNotExists)
		}
		rec = &datastructure.ShapedRecord{}
		return msgpack.Unmarshal(recBytes, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ForEach calls fn for every stored record in key order. returning an error from fn stops the scan.
func (db *KVDB) ForEach(fn func(rec *datastructure.ShapedRecord) error) error {
	return db.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BBOLTDB_BUCKET))
		return b.ForEach(func(k, v []byte) error {
			rec := &datastructure.ShapedRecord{}
			if err := msgpack.Unmarshal(v, rec); err != nil {
				return fmt.Errorf("decode record %s: %w", k, err)
			}
			return fn(rec)
		})
	})
}

// Drop removes every stored record.
func (db *KVDB) Drop() error {
	db.Lock()
	defer db.Unlock()
	return db.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(BBOLTDB_BUCKET)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket([]byte(BBOLTDB_BUCKET))
		return err
	})
}
