package mongodb

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/lintang-b-s/osm-wrangler/pkg/concurrent"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const readBufferSize = 1 << 20

// Collection is the part of *mongo.Collection the importer needs.
type Collection interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	Drop(ctx context.Context) error
}

type Importer struct {
	coll      Collection
	log       *zap.Logger
	workers   int
	batchSize int
}

func NewImporter(coll Collection, log *zap.Logger, workers, batchSize int) *Importer {
	return &Importer{
		coll:      coll,
		log:       log,
		workers:   workers,
		batchSize: batchSize,
	}
}

// ImportJSONLines drops the collection and bulk inserts every json document of r. documents may span
// several lines, so indented output imports too. they are parsed as relaxed extended json, the way
// mongoimport does.
func (im *Importer) ImportJSONLines(ctx context.Context, r io.Reader) (int, error) {
	im.log.Info("dropping collection")
	if err := im.coll.Drop(ctx); err != nil {
		return 0, fmt.Errorf("drop collection: %w", err)
	}

	bw := concurrent.NewBatchWorker(im.workers, im.batchSize, func(ctx context.Context, batch []interface{}) error {
		_, err := im.coll.InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
		if err != nil {
			return fmt.Errorf("insert %d documents: %w", len(batch), err)
		}
		im.log.Debug("inserted batch", zap.Int("documents", len(batch)))
		return nil
	})
	bw.Start(ctx)

	dec := json.NewDecoder(bufio.NewReaderSize(r, readBufferSize))
	count := 0
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			_ = bw.Close()
			return count, fmt.Errorf("document %d: %w", count+1, err)
		}

		var doc bson.M
		if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
			_ = bw.Close()
			return count, fmt.Errorf("document %d: %w", count+1, err)
		}
		if err := bw.Add(doc); err != nil {
			break
		}
		count++
	}
	if err := bw.Close(); err != nil {
		return count, err
	}

	im.log.Info("import done", zap.Int("documents", count))
	return count, nil
}
