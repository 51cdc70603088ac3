package audit

import (
	"fmt"
	"io"
	"sort"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// WriteReport prints the findings section by section, each street name next to its normalized form.
func WriteReport(w io.Writer, f *Findings, normalizer *cleaner.SuffixNormalizer) error {
	pw := &printer{w: w}

	pw.printf("==========Street names and the formatted ones==========\n")
	streetTypes := maps.Keys(f.StreetTypes)
	slices.Sort(streetTypes)
	for _, st := range streetTypes {
		names := maps.Keys(f.StreetTypes[st])
		slices.Sort(names)
		for _, name := range names {
			pw.printf("%s => %s\n", name, normalizer.Normalize(name))
		}
	}

	pw.printf("==========Phone numbers and the formatted ones==========\n")
	phones := maps.Keys(f.Phones)
	slices.Sort(phones)
	for _, phone := range phones {
		pw.printf("%s => %s\n", phone, f.Phones[phone])
	}

	pw.printf("==========Invalid postcodes==========\n")
	for _, kv := range sortedCounts(f.InvalidPostcodes) {
		pw.printf("%s (%d)\n", kv.key, kv.count)
	}

	pw.printf("==========Cities outside the region==========\n")
	for _, kv := range sortedCounts(f.NotInRegion) {
		pw.printf("%q (%d)\n", kv.key, kv.count)
	}

	pw.printf("==========%d elements audited, %d malformed tags==========\n", f.Elements, f.MalformedTags)
	return pw.err
}

type suggestion struct {
	Corrections []cleaner.Correction `yaml:"corrections"`
}

// SuggestCorrections writes a yaml corrections block, one entry per unformatted street type.
// entries the table already handles keep their replacement, the others are left with an empty "to".
func SuggestCorrections(w io.Writer, f *Findings, table cleaner.CorrectionTable) error {
	streetTypes := maps.Keys(f.StreetTypes)
	slices.Sort(streetTypes)

	s := suggestion{Corrections: make([]cleaner.Correction, 0, len(table)+len(streetTypes))}
	s.Corrections = append(s.Corrections, table...)
	for _, st := range streetTypes {
		if _, ok := table.Lookup(st); ok {
			continue
		}
		s.Corrections = append(s.Corrections, cleaner.Correction{From: st})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// WriteSurvey prints element name and tag key counts, most frequent first.
func WriteSurvey(w io.Writer, s *Survey) error {
	pw := &printer{w: w}
	pw.printf("==========Different TAGs and their counts==========\n")
	for _, kv := range sortedCounts(s.Tags) {
		pw.printf("%s: %d\n", kv.key, kv.count)
	}
	pw.printf("==========Different fields and their counts==========\n")
	for _, kv := range sortedCounts(s.Keys) {
		pw.printf("%s: %d\n", kv.key, kv.count)
	}
	return pw.err
}

type keyCount struct {
	key   string
	count int
}

func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, c := range m {
		out = append(out, keyCount{k, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
