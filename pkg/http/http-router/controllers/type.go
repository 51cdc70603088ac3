package controllers

import (
	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
	"github.com/lintang-b-s/osm-wrangler/pkg/http/usecases"
)

type RecordService interface {
	Record(tipe, id string) (*datastructure.ShapedRecord, error)
	Stats(topN int) (datastructure.DatasetStats, error)
	Normalize(street string) usecases.NormalizeResult
	Classify(key, value string) cleaner.Decision
}
