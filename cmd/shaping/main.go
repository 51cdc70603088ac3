package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	cleaner_di "github.com/lintang-b-s/osm-wrangler/pkg/di/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/di/config"
	shortcontext "github.com/lintang-b-s/osm-wrangler/pkg/di/context"
	kv_di "github.com/lintang-b-s/osm-wrangler/pkg/di/kv"
	logger_di "github.com/lintang-b-s/osm-wrangler/pkg/di/logger"
	"github.com/lintang-b-s/osm-wrangler/pkg/geo"
	"github.com/lintang-b-s/osm-wrangler/pkg/pipeline"

	"go.uber.org/zap"
)

var (
	mapFile    = flag.String("f", "shanghai_china.osm", "openstreetmap extract (.osm, .osm.pbf, optionally .gz/.zst/.bz2)")
	outFile    = flag.String("o", "", "output json lines file, defaults to <f>.json")
	pretty     = flag.Bool("pretty", false, "indent every json document")
	storePath  = flag.String("store", "", "also save the records to this bbolt file")
	configPath = flag.String("config", "", "config file, defaults to ./config.yaml")
)

func main() {
	flag.Parse()

	logger, cleanup, err := logger_di.New()
	if err != nil {
		log.Fatal(err)
	}

	err = run(logger)
	if err != nil {
		logger.Error("shaping failed", zap.Error(err))
	}
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// run returns instead of exiting so the output file, the store and the input are always closed.
func run(logger *zap.Logger) error {
	cfg, err := config.NewFromFile(*configPath)
	if err != nil {
		return err
	}
	if *pretty {
		cfg.Output.Pretty = true
	}
	if *storePath != "" {
		cfg.Output.StorePath = *storePath
	}
	if *outFile == "" {
		*outFile = *mapFile + ".json"
	}

	ctx, stop := shortcontext.New()
	defer stop()

	scanner, err := geo.Open(ctx, *mapFile, geo.OpenOptions{
		Decoder:     cfg.Input.Decoder,
		Progress:    cfg.Input.Progress,
		Description: "shaping",
	})
	if err != nil {
		return fmt.Errorf("open map file %s: %w", *mapFile, err)
	}
	defer scanner.Close()

	out, err := os.Create(*outFile)
	if err != nil {
		return fmt.Errorf("create output %s: %w", *outFile, err)
	}
	defer out.Close()

	sinks := []pipeline.Sink{pipeline.NewJSONLinesWriter(out, cfg.Output.Pretty)}
	if cfg.Output.StorePath != "" {
		db, closeDB, err := kv_di.New(cfg)
		if err != nil {
			return fmt.Errorf("open record store %s: %w", cfg.Output.StorePath, err)
		}
		defer closeDB()
		sinks = append(sinks, pipeline.NewBatchSink(db, cfg.Output.BatchSize))
	}

	processor := pipeline.NewProcessor(logger, cleaner_di.NewShaper(cfg), cleaner_di.NewAdmitter(cfg), sinks...)
	summary, err := processor.Process(ctx, scanner)
	if err != nil {
		// admitted records up to the failure are already flushed to the output
		return fmt.Errorf("%w (%d records written to %s)", err, summary.Admitted, *outFile)
	}
	if err := out.Close(); err != nil {
		return err
	}

	logger.Info("wrote records",
		zap.String("file", *outFile),
		zap.Int("admitted", summary.Admitted),
		zap.Int("failed", summary.Failed))
	return nil
}
