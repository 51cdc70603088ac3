package cleaner_di

import (
	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/di/config"
)

func NewShaper(cfg *config.Config) *cleaner.Shaper {
	return cleaner.New(cfg.Cleaner)
}

func NewAdmitter(cfg *config.Config) *cleaner.Admitter {
	return cleaner.NewAdmitter(cfg.Cleaner)
}
