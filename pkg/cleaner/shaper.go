package cleaner

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
)

var (
	ErrMissingAttribute  = errors.New("missing attribute")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// ElementError is a failure local to one element. the rest of the stream is still processable.
type ElementError struct {
	Element string
	Err     error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("shape %s: %v", e.Element, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

type Shaper struct {
	cfg        Config
	classifier *FieldClassifier
}

func NewShaper(cfg Config, classifier *FieldClassifier) *Shaper {
	return &Shaper{
		cfg:        cfg,
		classifier: classifier,
	}
}

// New builds the shaper with its classifier and normalizer from cfg.
func New(cfg Config) *Shaper {
	normalizer := NewSuffixNormalizer(cfg.Corrections, cfg.ExpectedSuffixes, NewSuffixMatcher(DefaultRoadMarker))
	return NewShaper(cfg, NewFieldClassifier(cfg, normalizer))
}

func (s *Shaper) Classifier() *FieldClassifier {
	return s.classifier
}

// Shape turns a node or way into a ShapedRecord. other elements give (nil, nil).
func (s *Shaper) Shape(el datastructure.SourceElement) (*datastructure.ShapedRecord, error) {
	if el.Kind != datastructure.KindNode && el.Kind != datastructure.KindWay {
		return nil, nil
	}

	rec := datastructure.NewShapedRecord(el.Kind)
	created := make(map[string]string)
	address := make(map[string]string)
	nodeRefs := []string{}
	var lat, lon *float64

	for name, value := range el.Attrs {
		d := s.classifier.ClassifyAttribute(name, value)
		switch d.Action {
		case ActionCreated:
			created[d.Key] = d.Value
		case ActionPosition:
			coord, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, &ElementError{Element: el.String(), Err: fmt.Errorf("%w: %s=%q", ErrInvalidCoordinate, name, value)}
			}
			if name == "lat" {
				lat = &coord
			} else {
				lon = &coord
			}
		default:
			rec.Fields[d.Key] = d.Value
		}
	}

	for _, child := range el.Children {
		switch child.Kind {
		case datastructure.ChildTag:
			k, ok := child.Attrs["k"]
			if !ok {
				return nil, &ElementError{Element: el.String(), Err: fmt.Errorf("%w: tag k", ErrMissingAttribute)}
			}
			v, ok := child.Attrs["v"]
			if !ok {
				return nil, &ElementError{Element: el.String(), Err: fmt.Errorf("%w: tag %s v", ErrMissingAttribute, k)}
			}
			s.apply(rec, address, s.classifier.Classify(k, v))
		case datastructure.ChildNd:
			ref, ok := child.Attrs["ref"]
			if !ok {
				return nil, &ElementError{Element: el.String(), Err: fmt.Errorf("%w: nd ref", ErrMissingAttribute)}
			}
			nodeRefs = append(nodeRefs, ref)
		}
	}

	if len(nodeRefs) != 0 {
		rec.NodeRefs = nodeRefs
	}
	if len(address) != 0 {
		rec.Address = address
	}
	if lat != nil && lon != nil {
		rec.Pos = []float64{*lat, *lon}
	}
	if len(created) != 0 {
		rec.Created = created
	}
	return rec, nil
}

func (s *Shaper) apply(rec *datastructure.ShapedRecord, address map[string]string, d Decision) {
	switch d.Action {
	case ActionFlat:
		rec.Fields[d.Key] = d.Value
	case ActionAddress:
		address[d.Key] = d.Value
	case ActionSuppressed:
		if d.OutOfRegion {
			rec.RegionFlag = s.cfg.Region.FlagKey()
		}
	}
}
