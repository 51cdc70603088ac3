package pipeline

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
)

// Sink receives admitted records in document order.
type Sink interface {
	Write(rec *datastructure.ShapedRecord) error
	Flush() error
}

// JSONLinesWriter writes one json document per line, the format mongoimport reads.
type JSONLinesWriter struct {
	w      *bufio.Writer
	pretty bool
}

func NewJSONLinesWriter(w io.Writer, pretty bool) *JSONLinesWriter {
	return &JSONLinesWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
	}
}

func (jw *JSONLinesWriter) Write(rec *datastructure.ShapedRecord) error {
	var (
		b   []byte
		err error
	)
	if jw.pretty {
		b, err = json.MarshalIndent(rec, "", "  ")
	} else {
		b, err = json.Marshal(rec)
	}
	if err != nil {
		return err
	}
	if _, err := jw.w.Write(b); err != nil {
		return err
	}
	return jw.w.WriteByte('\n')
}

func (jw *JSONLinesWriter) Flush() error {
	return jw.w.Flush()
}

// RecordSaver is implemented by kvdb.KVDB.
type RecordSaver interface {
	SaveRecords(recs []*datastructure.ShapedRecord) error
}

// BatchSink buffers records and hands them to a RecordSaver batchSize at a time.
type BatchSink struct {
	saver     RecordSaver
	batch     []*datastructure.ShapedRecord
	batchSize int
}

func NewBatchSink(saver RecordSaver, batchSize int) *BatchSink {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &BatchSink{
		saver:     saver,
		batch:     make([]*datastructure.ShapedRecord, 0, batchSize),
		batchSize: batchSize,
	}
}

func (bs *BatchSink) Write(rec *datastructure.ShapedRecord) error {
	bs.batch = append(bs.batch, rec)
	if len(bs.batch) < bs.batchSize {
		return nil
	}
	return bs.Flush()
}

func (bs *BatchSink) Flush() error {
	if len(bs.batch) == 0 {
		return nil
	}
	err := bs.saver.SaveRecords(bs.batch)
	bs.batch = make([]*datastructure.ShapedRecord, 0, bs.batchSize)
	return err
}
