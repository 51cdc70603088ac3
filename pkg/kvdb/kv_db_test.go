package kvdb

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func openTestDB(t *testing.T) *KVDB {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "records.db"), 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	kv, err := NewKVDB(db)
	require.NoError(t, err)
	return kv
}

func newRecord(tipe datastructure.ElementKind, id string, fields map[string]string) *datastructure.ShapedRecord {
	rec := datastructure.NewShapedRecord(tipe)
	rec.Fields["id"] = id
	for k, v := range fields {
		rec.Fields[k] = v
	}
	return rec
}

func TestSaveAndGetRecord(t *testing.T) {
	kv := openTestDB(t)

	way := newRecord(datastructure.KindWay, "7", map[string]string{"highway": "primary"})
	way.NodeRefs = []string{"1", "2"}
	way.Address = map[string]string{"street": "North Lincoln Road"}
	node := newRecord(datastructure.KindNode, "7", map[string]string{"amenity": "cafe"})
	node.Pos = []float64{31.23, 121.47}
	node.Created = map[string]string{"user": "linuxUser16"}

	require.NoError(t, kv.SaveRecords([]*datastructure.ShapedRecord{way, node}))

	t.Run("node and way with the same id are kept apart", func(t *testing.T) {
		gotWay, err := kv.GetRecord("way", "7")
		require.NoError(t, err)
		assert.Equal(t, way, gotWay)

		gotNode, err := kv.GetRecord("node", "7")
		require.NoError(t, err)
		assert.Equal(t, node, gotNode)
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := kv.GetRecord("node", "8")
		assert.True(t, errors.Is(err, ErrorsKeyNotExists))
	})

	t.Run("drop", func(t *testing.T) {
		require.NoError(t, kv.Drop())
		_, err := kv.GetRecord("way", "7")
		assert.ErrorIs(t, err, ErrorsKeyNotExists)
	})
}

func TestStats(t *testing.T) {
	kv := openTestDB(t)

	recs := []*datastructure.ShapedRecord{
		newRecord(datastructure.KindNode, "1", map[string]string{"amenity": "restaurant", "contact:phone": "21555512349"}),
		newRecord(datastructure.KindNode, "2", map[string]string{"amenity": "restaurant"}),
		newRecord(datastructure.KindNode, "3", map[string]string{"amenity": "bank"}),
		newRecord(datastructure.KindNode, "4", map[string]string{"amenity": "cafe"}),
		newRecord(datastructure.KindWay, "5", map[string]string{"amenity": "cafe"}),
		newRecord(datastructure.KindWay, "6", map[string]string{"amenity": "school"}),
	}
	recs[0].Created = map[string]string{"user": "a"}
	recs[1].Created = map[string]string{"user": "b"}
	recs[2].Created = map[string]string{"user": "a"}
	recs[0].Address = map[string]string{"postcode": "200031"}
	recs[4].Address = map[string]string{"postcode": "200001"}
	recs[5].Address = map[string]string{"postcode": "200031"}
	require.NoError(t, kv.SaveRecords(recs))

	stats, err := kv.Stats(3, "contact:phone")
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Records)
	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 2, stats.Ways)
	assert.Equal(t, 2, stats.UniqueUsers)
	assert.Equal(t, []string{"200001", "200031"}, stats.Postcodes)
	assert.Equal(t, []string{"21555512349"}, stats.Phones)
	assert.Equal(t, []datastructure.ValueCount{
		{Value: "cafe", Count: 2},
		{Value: "restaurant", Count: 2},
		{Value: "bank", Count: 1},
	}, stats.TopAmenities)
	assert.Equal(t, 2, stats.AmenitiesOnce)
}
