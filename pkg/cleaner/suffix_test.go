package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuffixMatcherExtract(t *testing.T) {
	m := NewSuffixMatcher(DefaultRoadMarker)

	tests := []struct {
		name   string
		street string
		want   string
		found  bool
	}{
		{"last token", "North Lincoln Avenue", "Avenue", true},
		{"last token with period", "North Lincoln Rd.", "Rd.", true},
		{"pinyin marker", "Huaihailu", "Huaihailu", true},
		{"pinyin marker keeps the rest", "Xinzhalu Bridge", "Xinzhalu Bridge", true},
		{"pinyin marker case insensitive", "Nanjing XiLU", "XiLU", true},
		{"single word", "Street", "Street", true},
		{"empty", "", "", false},
		{"chinese only", "南京西路", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := m.Extract(tt.street)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceLongest(t *testing.T) {
	table := DefaultConfig().Corrections

	t.Run("longest key wins", func(t *testing.T) {
		assert.Equal(t, "North Lincoln Road", ReplaceLongest("North Lincoln Rd.", table))
	})

	t.Run("no key leaves the name alone", func(t *testing.T) {
		assert.Equal(t, "Xujiahui", ReplaceLongest("Xujiahui", table))
	})

	t.Run("keys match inside words", func(t *testing.T) {
		assert.Equal(t, "Century BoulevaRoad", ReplaceLongest("Century Boulevard", table))
	})

	t.Run("every occurrence of the key is replaced", func(t *testing.T) {
		assert.Equal(t, "Road 1 Road", ReplaceLongest("Raod 1 Raod", table))
	})

	t.Run("equal length keys keep table order", func(t *testing.T) {
		tieTable := CorrectionTable{{From: "Ab", To: "first"}, {From: "cd", To: "second"}}
		assert.Equal(t, "first cd", ReplaceLongest("Ab cd", tieTable))
	})

	t.Run("a shorter key is not applied after the longest one", func(t *testing.T) {
		assert.Equal(t, "Huashan Road St", ReplaceLongest("Huashan Rd. St", CorrectionTable{
			{From: "St", To: "Street"},
			{From: "Rd.", To: "Road"},
		}))
	})
}

func TestSuffixNormalizer(t *testing.T) {
	cfg := DefaultConfig()
	n := NewSuffixNormalizer(cfg.Corrections, cfg.ExpectedSuffixes, NewSuffixMatcher(DefaultRoadMarker))

	t.Run("expected suffixes are unchanged", func(t *testing.T) {
		for _, suffix := range cfg.ExpectedSuffixes {
			assert.Equal(t, suffix, n.Normalize(suffix))
			assert.Equal(t, "Century "+suffix, n.Normalize("Century "+suffix))
		}
	})

	t.Run("abbreviation is expanded", func(t *testing.T) {
		assert.Equal(t, "North Lincoln Road", n.Normalize("North Lincoln Rd."))
		assert.Equal(t, "Huaihai Road", n.Normalize("Huaihai lu"))
		assert.Equal(t, "Fuxing Avenue", n.Normalize("Fuxing avenue"))
	})

	t.Run("second application may differ", func(t *testing.T) {
		once := n.Normalize("Jinqiao Ave.")
		assert.Equal(t, "Jinqiao Avenue.", once)
		assert.Equal(t, "Jinqiao Avenueenue.", n.Normalize(once))
	})

	t.Run("names without a table key are idempotent", func(t *testing.T) {
		name := "Xujiahui Plaza"
		assert.Equal(t, name, n.Normalize(name))
		assert.Equal(t, n.Normalize(name), n.Normalize(n.Normalize(name)))
	})
}
