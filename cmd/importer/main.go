package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
	"github.com/lintang-b-s/osm-wrangler/pkg/di/config"
	shortcontext "github.com/lintang-b-s/osm-wrangler/pkg/di/context"
	kv_di "github.com/lintang-b-s/osm-wrangler/pkg/di/kv"
	logger_di "github.com/lintang-b-s/osm-wrangler/pkg/di/logger"
	"github.com/lintang-b-s/osm-wrangler/pkg/mongodb"

	"go.uber.org/zap"
)

var (
	mapFile    = flag.String("osm", "shanghai_china.osm", "source openstreetmap extract, only used for the size report")
	jsonFile   = flag.String("f", "", "shaped json file to import, defaults to <osm>.json")
	local      = flag.Bool("local", false, "report from the bbolt record store instead of importing into mongodb")
	skipImport = flag.Bool("query-only", false, "run the queries against the existing collection")
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
		logger.Error("import failed", zap.Error(err))
	}
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.NewFromFile(*configPath)
	if err != nil {
		return err
	}
	if *jsonFile == "" {
		*jsonFile = *mapFile + ".json"
	}

	ctx, stop := shortcontext.New()
	defer stop()

	printFileSizes(os.Stdout, *mapFile, *jsonFile)

	var stats datastructure.DatasetStats
	if *local {
		db, closeDB, err := kv_di.New(cfg)
		if err != nil {
			return fmt.Errorf("open record store: %w", err)
		}
		defer closeDB()
		if stats, err = db.Stats(cfg.TopN, cfg.Cleaner.PhoneKey); err != nil {
			return fmt.Errorf("local stats: %w", err)
		}
	} else {
		if stats, err = importAndQuery(ctx, logger, cfg); err != nil {
			return fmt.Errorf("mongodb: %w", err)
		}
	}

	printStats(os.Stdout, stats)
	return nil
}

func importAndQuery(ctx context.Context, logger *zap.Logger, cfg *config.Config) (datastructure.DatasetStats, error) {
	client, err := mongodb.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return datastructure.DatasetStats{}, err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)

	if !*skipImport {
		f, err := os.Open(*jsonFile)
		if err != nil {
			return datastructure.DatasetStats{}, err
		}
		defer f.Close()

		importer := mongodb.NewImporter(coll, logger, cfg.Mongo.Workers, cfg.Mongo.BatchSize)
		n, err := importer.ImportJSONLines(ctx, f)
		if err != nil {
			return datastructure.DatasetStats{}, err
		}
		logger.Info("imported", zap.Int("documents", n), zap.String("collection", cfg.Mongo.Collection))
	}

	return mongodb.NewQueries(coll).Stats(ctx, cfg.TopN, cfg.Cleaner.PhoneKey)
}

func printFileSizes(w io.Writer, paths ...string) {
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", p, err)
			continue
		}
		fmt.Fprintf(w, "%s is %.1f MB\n", p, float64(fi.Size())/1024/1024)
	}
}

func printStats(w io.Writer, stats datastructure.DatasetStats) {
	fmt.Fprintf(w, "Number of records: %d\n", stats.Records)
	fmt.Fprintf(w, "Number of unique users: %d\n", stats.UniqueUsers)
	fmt.Fprintf(w, "Number of nodes: %d\n", stats.Nodes)
	fmt.Fprintf(w, "Number of ways: %d\n", stats.Ways)
	fmt.Fprintf(w, "Postcodes (%d): %v\n", len(stats.Postcodes), stats.Postcodes)
	fmt.Fprintf(w, "Phone numbers (%d): %v\n", len(stats.Phones), stats.Phones)
	fmt.Fprintf(w, "Top %d amenities:\n", len(stats.TopAmenities))
	for _, vc := range stats.TopAmenities {
		fmt.Fprintf(w, "  %s: %d\n", vc.Value, vc.Count)
	}
	fmt.Fprintf(w, "Amenities used only once: %d\n", stats.AmenitiesOnce)
}
