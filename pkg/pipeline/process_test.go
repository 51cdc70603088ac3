package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
	"github.com/lintang-b-s/osm-wrangler/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const processOSM = `<osm>
  <bounds minlat="31" minlon="121" maxlat="32" maxlon="122"/>
  <node id="1" lat="31.2" lon="121.4" user="a" uid="1" version="1" changeset="1" timestamp="2013-08-03T16:43:42Z"/>
  <node id="2" lat="31.23" lon="121.47">
    <tag k="amenity" v="cafe"/>
    <tag k="addr:postcode" v="200031"/>
  </node>
  <node id="3" lat="39.9" lon="116.4">
    <tag k="amenity" v="bank"/>
    <tag k="addr:city" v="Beijing"/>
  </node>
  <node id="4" lat="north" lon="121.4">
    <tag k="amenity" v="bank"/>
  </node>
  <way id="305896090">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="addr:housenumber" v="5158"/>
    <tag k="addr:street" v="North Lincoln Rd."/>
  </way>
  <relation id="9"/>
</osm>`

type memorySaver struct {
	batches [][]*datastructure.ShapedRecord
}

func (m *memorySaver) SaveRecords(recs []*datastructure.ShapedRecord) error {
	m.batches = append(m.batches, recs)
	return nil
}

func TestProcess(t *testing.T) {
	cfg := cleaner.DefaultConfig()
	var out bytes.Buffer
	saver := &memorySaver{}

	p := NewProcessor(zap.NewNop(), cleaner.New(cfg), cleaner.NewAdmitter(cfg),
		NewJSONLinesWriter(&out, false), NewBatchSink(saver, 1))

	sum, err := p.Process(context.Background(), geo.NewXMLScanner(strings.NewReader(processOSM)))
	require.NoError(t, err)

	assert.Equal(t, Summary{Seen: 7, Shaped: 4, Admitted: 2, Failed: 1}, sum)

	t.Run("json lines", func(t *testing.T) {
		var docs []map[string]any
		sc := bufio.NewScanner(&out)
		for sc.Scan() {
			var doc map[string]any
			require.NoError(t, json.Unmarshal(sc.Bytes(), &doc))
			docs = append(docs, doc)
		}
		require.Len(t, docs, 2)

		assert.Equal(t, "2", docs[0]["id"])
		assert.Equal(t, map[string]any{"postcode": "200031"}, docs[0]["address"])

		assert.Equal(t, "way", docs[1]["type"])
		assert.Equal(t, []any{"1", "2"}, docs[1]["node_refs"])
		assert.Equal(t, map[string]any{"housenumber": "5158", "street": "North Lincoln Road"}, docs[1]["address"])
	})

	t.Run("batches", func(t *testing.T) {
		assert.Len(t, saver.batches, 2)
	})
}

func TestProcessTruncated(t *testing.T) {
	cfg := cleaner.DefaultConfig()
	var out bytes.Buffer
	p := NewProcessor(zap.NewNop(), cleaner.New(cfg), cleaner.NewAdmitter(cfg), NewJSONLinesWriter(&out, false))

	sum, err := p.Process(context.Background(), geo.NewXMLScanner(strings.NewReader(`<osm><node id="1"><tag k="a" v="b"/></node><node id="2">`)))
	assert.ErrorIs(t, err, geo.ErrUnexpectedEOF)
	assert.Equal(t, 1, sum.Admitted)

	// the record admitted before the truncation is flushed as a complete line
	require.True(t, strings.HasSuffix(out.String(), "\n"))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(out.Bytes()), &doc))
	assert.Equal(t, map[string]any{"id": "1", "type": "node", "a": "b"}, doc)
}

func TestProcessTruncatedFlushesBatchSink(t *testing.T) {
	cfg := cleaner.DefaultConfig()
	saver := &memorySaver{}
	p := NewProcessor(zap.NewNop(), cleaner.New(cfg), cleaner.NewAdmitter(cfg), NewBatchSink(saver, 100))

	_, err := p.Process(context.Background(), geo.NewXMLScanner(strings.NewReader(
		`<osm><node id="1"><tag k="a" v="b"/></node><node id="2"><tag k="c" v="d"/></node><way id="3">`)))
	assert.Error(t, err)
	require.Len(t, saver.batches, 1)
	assert.Len(t, saver.batches[0], 2)
}

func TestProcessCancelledFlushes(t *testing.T) {
	cfg := cleaner.DefaultConfig()
	var out bytes.Buffer
	p := NewProcessor(zap.NewNop(), cleaner.New(cfg), cleaner.NewAdmitter(cfg), NewJSONLinesWriter(&out, false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Process(ctx, geo.NewXMLScanner(strings.NewReader(processOSM)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestJSONLinesWriterPretty(t *testing.T) {
	rec := datastructure.NewShapedRecord(datastructure.KindNode)
	rec.Fields["id"] = "1"

	var out bytes.Buffer
	w := NewJSONLinesWriter(&out, true)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Flush())
	assert.Equal(t, "{\n  \"id\": \"1\",\n  \"type\": \"node\"\n}\n", out.String())
}

func TestBatchSink(t *testing.T) {
	saver := &memorySaver{}
	bs := NewBatchSink(saver, 2)
	for i := 0; i < 5; i++ {
		require.NoError(t, bs.Write(datastructure.NewShapedRecord(datastructure.KindNode)))
	}
	assert.Len(t, saver.batches, 2)
	require.NoError(t, bs.Flush())
	require.Len(t, saver.batches, 3)
	assert.Len(t, saver.batches[2], 1)
}
