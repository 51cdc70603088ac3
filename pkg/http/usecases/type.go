package usecases

import (
	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
)

type RecordStore interface {
	GetRecord(tipe, id string) (*datastructure.ShapedRecord, error)
	Stats(topN int, phoneKey string) (datastructure.DatasetStats, error)
}

// NormalizeResult is the suffix extraction and rewrite of one street name.
type NormalizeResult struct {
	Street     string `json:"street"`
	Suffix     string `json:"suffix"`
	Normalized string `json:"normalized"`
	Expected   bool   `json:"expected"`
}
