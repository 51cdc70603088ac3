package audit

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
	"github.com/lintang-b-s/osm-wrangler/pkg/geo"
)

// Findings is what an audit pass collects. nothing in it is applied to the data, it is read by a
// human to curate the correction table.
type Findings struct {
	Elements int
	// street type -> street names with that type, only for types outside the expected list
	StreetTypes map[string]map[string]struct{}
	// raw phone -> normalized phone
	Phones           map[string]string
	InvalidPostcodes map[string]int
	NotInRegion      map[string]int
	MalformedTags    int
}

func NewFindings() *Findings {
	return &Findings{
		StreetTypes:      make(map[string]map[string]struct{}),
		Phones:           make(map[string]string),
		InvalidPostcodes: make(map[string]int),
		NotInRegion:      make(map[string]int),
	}
}

type Auditor struct {
	cfg        cleaner.Config
	classifier *cleaner.FieldClassifier
	normalizer *cleaner.SuffixNormalizer
}

func NewAuditor(cfg cleaner.Config) *Auditor {
	classifier := cleaner.New(cfg).Classifier()
	return &Auditor{
		cfg:        cfg,
		classifier: classifier,
		normalizer: classifier.Normalizer(),
	}
}

func (a *Auditor) Normalizer() *cleaner.SuffixNormalizer {
	return a.normalizer
}

// Fold adds the tags of one element to f. only nodes and ways are looked at.
func (a *Auditor) Fold(f *Findings, el datastructure.SourceElement) *Findings {
	if el.Kind != datastructure.KindNode && el.Kind != datastructure.KindWay {
		return f
	}
	f.Elements++

	streetKey := a.cfg.AddressPrefix + "street"
	postcodeKey := a.cfg.AddressPrefix + "postcode"
	cityKey := a.cfg.AddressPrefix + "city"

	for _, child := range el.Children {
		if child.Kind != datastructure.ChildTag {
			continue
		}
		k, okK := child.Attrs["k"]
		v, okV := child.Attrs["v"]
		if !okK || !okV {
			f.MalformedTags++
			continue
		}

		switch {
		case k == streetKey:
			a.auditStreetType(f, v)
		case k == a.cfg.PhoneKey:
			f.Phones[v] = cleaner.NormalizePhone(v, a.cfg.PhoneDigits)
		case k == postcodeKey && !a.classifier.IsValidPostcode(v):
			f.InvalidPostcodes[v]++
		case k == cityKey && !a.classifier.InRegion(v):
			f.NotInRegion[v]++
		}
	}
	return f
}

func (a *Auditor) auditStreetType(f *Findings, street string) {
	streetType, ok := a.normalizer.Matcher().Extract(street)
	if !ok || a.normalizer.IsExpected(streetType) {
		return
	}
	names, ok := f.StreetTypes[streetType]
	if !ok {
		names = make(map[string]struct{})
		f.StreetTypes[streetType] = names
	}
	names[street] = struct{}{}
}

// Audit runs Fold over the whole scanner.
func (a *Auditor) Audit(ctx context.Context, scanner geo.Scanner) (*Findings, error) {
	f := NewFindings()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return f, err
		}
		a.Fold(f, scanner.Element())
	}
	if err := scanner.Err(); err != nil {
		return f, fmt.Errorf("audit: %w", err)
	}
	return f, nil
}
