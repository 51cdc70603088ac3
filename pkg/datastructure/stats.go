package datastructure

// ValueCount is one row of a group-by-count query.
type ValueCount struct {
	Value string `json:"value" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

// DatasetStats model info
// @Description summary of an imported dataset, computed either by mongodb or by a scan of the local store.
type DatasetStats struct {
	Records       int          `json:"records"`
	UniqueUsers   int          `json:"unique_users"`
	Nodes         int          `json:"nodes"`
	Ways          int          `json:"ways"`
	Postcodes     []string     `json:"postcodes"`
	Phones        []string     `json:"phones"`
	TopAmenities  []ValueCount `json:"top_amenities"`
	AmenitiesOnce int          `json:"amenities_once"` // amenity values used by exactly one record
}
