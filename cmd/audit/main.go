package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lintang-b-s/osm-wrangler/pkg/audit"
	"github.com/lintang-b-s/osm-wrangler/pkg/di/config"
	shortcontext "github.com/lintang-b-s/osm-wrangler/pkg/di/context"
	logger_di "github.com/lintang-b-s/osm-wrangler/pkg/di/logger"
	"github.com/lintang-b-s/osm-wrangler/pkg/geo"

	"go.uber.org/zap"
)

var (
	mapFile    = flag.String("f", "shanghai_china.osm", "openstreetmap extract to audit")
	survey     = flag.Bool("survey", false, "count element names and tag keys instead of auditing")
	suggest    = flag.Bool("suggest", false, "print a yaml corrections block for the unformatted street types")
	configPath = flag.String("config", "", "config file, defaults to ./config.yaml")
)

func main() {
	flag.Parse()

	logger, cleanup, err := logger_di.New()
	if err != nil {
		log.Fatal(err)
	}

	err = run()
	if err != nil {
		logger.Error("audit failed", zap.Error(err))
	}
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewFromFile(*configPath)
	if err != nil {
		return err
	}

	opts := geo.OpenOptions{
		Decoder:     cfg.Input.Decoder,
		Progress:    cfg.Input.Progress,
		Description: "auditing",
	}

	if *survey {
		return runSurvey(opts)
	}

	ctx, stop := shortcontext.New()
	defer stop()

	scanner, err := geo.Open(ctx, *mapFile, opts)
	if err != nil {
		return fmt.Errorf("open map file %s: %w", *mapFile, err)
	}
	defer scanner.Close()

	auditor := audit.NewAuditor(cfg.Cleaner)
	findings, err := auditor.Audit(ctx, scanner)
	if err != nil {
		return err
	}

	if *suggest {
		return audit.SuggestCorrections(os.Stdout, findings, cfg.Cleaner.Corrections)
	}
	return audit.WriteReport(os.Stdout, findings, auditor.Normalizer())
}

// runSurvey walks xml extracts token by token so the root and nested elements are counted too.
func runSurvey(opts geo.OpenOptions) error {
	var s *audit.Survey
	if geo.IsPBF(*mapFile) {
		ctx, stop := shortcontext.New()
		defer stop()

		scanner, err := geo.Open(ctx, *mapFile, opts)
		if err != nil {
			return fmt.Errorf("open map file %s: %w", *mapFile, err)
		}
		defer scanner.Close()
		if s, err = audit.RunSurvey(scanner); err != nil {
			return err
		}
	} else {
		src, err := geo.OpenSource(*mapFile, opts)
		if err != nil {
			return fmt.Errorf("open map file %s: %w", *mapFile, err)
		}
		defer src.Close()
		if s, err = audit.SurveyXML(src); err != nil {
			return err
		}
	}
	return audit.WriteSurvey(os.Stdout, s)
}
