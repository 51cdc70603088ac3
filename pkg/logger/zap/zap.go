package zap

import (
	"os"

	"github.com/lintang-b-s/osm-wrangler/pkg/logger/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a json logger writing to stderr, so stdout stays free for reports.
func New(cfg config.Configuration) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	encoderCfg.TimeKey = "time"

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(zapcore.Level(cfg.Level)),
	)

	return zap.New(core, zap.AddCaller()), nil
}
