//go:build wireinject

//go:generate wire
package di

import (
	"context"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"
	cleaner_di "github.com/lintang-b-s/osm-wrangler/pkg/di/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/di/config"
	kv_di "github.com/lintang-b-s/osm-wrangler/pkg/di/kv"
	logger_di "github.com/lintang-b-s/osm-wrangler/pkg/di/logger"
	recordsHttp "github.com/lintang-b-s/osm-wrangler/pkg/http"
	"github.com/lintang-b-s/osm-wrangler/pkg/http/http-router/controllers"
	"github.com/lintang-b-s/osm-wrangler/pkg/http/usecases"
	"github.com/lintang-b-s/osm-wrangler/pkg/kvdb"

	"github.com/google/wire"
	"go.uber.org/zap"
)

var defaultSet = wire.NewSet(
	config.NewFromFile,
	logger_di.New,
	kv_di.New,
	cleaner_di.NewShaper,
)

var recordsSet = wire.NewSet(
	defaultSet,
	NewRecordService,
	NewRecordsAPIServer,
)

func NewRecordService(log *zap.Logger, cfg *config.Config, db *kvdb.KVDB, shaper *cleaner.Shaper) controllers.RecordService {
	return usecases.New(log, db, shaper, cfg.Cleaner.PhoneKey, cfg.TopN)
}

func NewRecordsAPIServer(ctx context.Context, log *zap.Logger, cfg *config.Config,
	recordService controllers.RecordService) (*recordsHttp.Server, error) {
	api := recordsHttp.NewServer(log)

	apiService, err := api.Use(
		ctx, log, cfg, recordService,
	)
	if err != nil {
		return nil, err
	}

	return apiService, nil
}

func InitializeRecordsService(ctx context.Context, configPath string) (*recordsHttp.Server, func(), error) {

	panic(wire.Build(recordsSet))
}
