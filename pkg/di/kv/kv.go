package kv_di

import (
	"errors"
	"time"

	"github.com/lintang-b-s/osm-wrangler/pkg/di/config"
	"github.com/lintang-b-s/osm-wrangler/pkg/kvdb"

	bolt "go.etcd.io/bbolt"
)

const defaultStorePath = "records_store.db"

var ErrStoreLocked = errors.New("record store is locked by another process")

func New(cfg *config.Config) (*kvdb.KVDB, func(), error) {
	path := cfg.Output.StorePath
	if path == "" {
		path = defaultStorePath
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, nil, ErrStoreLocked
		}
		return nil, nil, err
	}

	bboltKV, err := kvdb.NewKVDB(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	return bboltKV, cleanup, nil
}
