package mongodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect opens a client and checks the server is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping %s: %w", uri, err)
	}
	return client, nil
}

// TopValuesPipeline groups records with the field by its value and keeps the n most frequent.
func TopValuesPipeline(field string, n int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: field, Value: bson.D{{Key: "$exists", Value: 1}}}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$" + field}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: n}},
	}
}

// ValuesUsedOncePipeline counts the distinct values of field that appear in exactly one record.
func ValuesUsedOncePipeline(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: field, Value: bson.D{{Key: "$exists", Value: 1}}}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$" + field}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
		{{Key: "$match", Value: bson.D{{Key: "count", Value: 1}}}},
		{{Key: "$count", Value: "values"}},
	}
}

type Queries struct {
	coll *mongo.Collection
}

func NewQueries(coll *mongo.Collection) *Queries {
	return &Queries{coll: coll}
}

func (q *Queries) Stats(ctx context.Context, topN int, phoneKey string) (datastructure.DatasetStats, error) {
	var (
		stats datastructure.DatasetStats
		err   error
	)

	if stats.Records, err = q.count(ctx, bson.D{}); err != nil {
		return stats, err
	}
	if stats.Nodes, err = q.count(ctx, bson.D{{Key: "type", Value: "node"}}); err != nil {
		return stats, err
	}
	if stats.Ways, err = q.count(ctx, bson.D{{Key: "type", Value: "way"}}); err != nil {
		return stats, err
	}

	users, err := q.distinct(ctx, "created.user")
	if err != nil {
		return stats, err
	}
	stats.UniqueUsers = len(users)

	if stats.Postcodes, err = q.distinct(ctx, "address.postcode"); err != nil {
		return stats, err
	}
	if stats.Phones, err = q.distinct(ctx, phoneKey); err != nil {
		return stats, err
	}

	cur, err := q.coll.Aggregate(ctx, TopValuesPipeline("amenity", topN))
	if err != nil {
		return stats, fmt.Errorf("top amenities: %w", err)
	}
	stats.TopAmenities = []datastructure.ValueCount{}
	if err := cur.All(ctx, &stats.TopAmenities); err != nil {
		return stats, fmt.Errorf("top amenities: %w", err)
	}

	cur, err = q.coll.Aggregate(ctx, ValuesUsedOncePipeline("amenity"))
	if err != nil {
		return stats, fmt.Errorf("amenities used once: %w", err)
	}
	var once []struct {
		Values int `bson:"values"`
	}
	if err := cur.All(ctx, &once); err != nil {
		return stats, fmt.Errorf("amenities used once: %w", err)
	}
	if len(once) > 0 {
		stats.AmenitiesOnce = once[0].Values
	}
	return stats, nil
}

func (q *Queries) count(ctx context.Context, filter bson.D) (int, error) {
	n, err := q.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %v: %w", filter, err)
	}
	return int(n), nil
}

func (q *Queries) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := q.coll.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	return stringValues(values), nil
}

func stringValues(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(v))
		}
	}
	sort.Strings(out)
	return out
}
