package usecases

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
	"github.com/lintang-b-s/osm-wrangler/pkg/kvdb"

	"go.uber.org/zap"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidType    = errors.New("record type must be node or way")
)

type RecordService struct {
	log         *zap.Logger
	store       RecordStore
	classifier  *cleaner.FieldClassifier
	phoneKey    string
	defaultTopN int
}

func New(log *zap.Logger, store RecordStore, shaper *cleaner.Shaper, phoneKey string, defaultTopN int) *RecordService {
	if defaultTopN <= 0 {
		defaultTopN = 3
	}
	return &RecordService{
		log:         log,
		store:       store,
		classifier:  shaper.Classifier(),
		phoneKey:    phoneKey,
		defaultTopN: defaultTopN,
	}
}

func (s *RecordService) Record(tipe, id string) (*datastructure.ShapedRecord, error) {
	if datastructure.KindOf(tipe) == datastructure.KindOther {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, tipe)
	}
	rec, err := s.store.GetRecord(tipe, id)
	if errors.Is(err, kvdb.ErrorsKeyNotExists) {
		return nil, fmt.Errorf("%w: %s/%s", ErrRecordNotFound, tipe, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Stats falls back to the configured top amenities count when topN is not positive.
func (s *RecordService) Stats(topN int) (datastructure.DatasetStats, error) {
	if topN <= 0 {
		topN = s.defaultTopN
	}
	stats, err := s.store.Stats(topN, s.phoneKey)
	if err != nil {
		s.log.Error("computing dataset stats", zap.Error(err))
		return stats, err
	}
	return stats, nil
}

func (s *RecordService) Normalize(street string) NormalizeResult {
	normalizer := s.classifier.Normalizer()
	suffix, _ := normalizer.Matcher().Extract(street)
	return NormalizeResult{
		Street:     street,
		Suffix:     suffix,
		Normalized: normalizer.Normalize(street),
		Expected:   normalizer.IsExpected(suffix),
	}
}

func (s *RecordService) Classify(key, value string) cleaner.Decision {
	return s.classifier.Classify(key, value)
}
