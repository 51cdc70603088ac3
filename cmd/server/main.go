package main

import (
	"flag"
	"log"

	"github.com/lintang-b-s/osm-wrangler/pkg/di"
	shortcontext "github.com/lintang-b-s/osm-wrangler/pkg/di/context"
)

var (
	configPath = flag.String("config", "", "config file, defaults to ./config.yaml")
)

func main() {
	flag.Parse()

	ctx, stop := shortcontext.New()
	defer stop()

	server, cleanup, err := di.InitializeRecordsService(ctx, *configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if err := server.Wait(); err != nil {
		log.Println(err)
	}
}
