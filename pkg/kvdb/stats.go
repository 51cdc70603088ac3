package kvdb

import (
	"sort"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
)

// Stats scans the store once and computes the same summary the mongodb queries return.
func (db *KVDB) Stats(topN int, phoneKey string) (datastructure.DatasetStats, error) {
	stats := datastructure.DatasetStats{
		Postcodes:    []string{},
		Phones:       []string{},
		TopAmenities: []datastructure.ValueCount{},
	}
	users := make(map[string]struct{})
	postcodes := make(map[string]struct{})
	phones := make(map[string]struct{})
	amenities := make(map[string]int)

	err := db.ForEach(func(rec *datastructure.ShapedRecord) error {
		stats.Records++
		switch rec.Type {
		case string(datastructure.KindNode):
			stats.Nodes++
		case string(datastructure.KindWay):
			stats.Ways++
		}
		if user, ok := rec.Value("created.user"); ok {
			users[user] = struct{}{}
		}
		if postcode, ok := rec.Value("address.postcode"); ok {
			postcodes[postcode] = struct{}{}
		}
		if phone, ok := rec.Value(phoneKey); ok {
			phones[phone] = struct{}{}
		}
		if amenity, ok := rec.Value("amenity"); ok {
			amenities[amenity]++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	stats.UniqueUsers = len(users)
	stats.Postcodes = sortedSet(postcodes)
	stats.Phones = sortedSet(phones)

	for amenity, count := range amenities {
		stats.TopAmenities = append(stats.TopAmenities, datastructure.ValueCount{Value: amenity, Count: count})
		if count == 1 {
			stats.AmenitiesOnce++
		}
	}
	sort.Slice(stats.TopAmenities, func(i, j int) bool {
		a, b := stats.TopAmenities[i], stats.TopAmenities[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Value < b.Value
	})
	if topN >= 0 && len(stats.TopAmenities) > topN {
		stats.TopAmenities = stats.TopAmenities[:topN]
	}
	return stats, nil
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
