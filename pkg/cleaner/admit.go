package cleaner

import "github.com/lintang-b-s/osm-wrangler/pkg/datastructure"

// Admitter keeps records that carry something beyond bookkeeping keys and that are inside the region.
type Admitter struct {
	bookkeeping map[string]struct{}
	flagKey     string
}

func NewAdmitter(cfg Config) *Admitter {
	set := make(map[string]struct{}, len(cfg.BookkeepingKeys))
	for _, k := range cfg.BookkeepingKeys {
		set[k] = struct{}{}
	}
	return &Admitter{
		bookkeeping: set,
		flagKey:     cfg.Region.FlagKey(),
	}
}

func (a *Admitter) Admit(rec *datastructure.ShapedRecord) bool {
	if rec == nil || rec.RegionFlag != "" {
		return false
	}
	doc := rec.Document()
	if _, flagged := doc[a.flagKey]; flagged {
		return false
	}
	uninformative := 0
	for k := range doc {
		if _, ok := a.bookkeeping[k]; ok {
			uninformative++
		}
	}
	return len(doc) > uninformative
}
