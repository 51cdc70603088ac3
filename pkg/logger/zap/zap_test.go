package zap

import (
	"testing"
	"time"

	"github.com/lintang-b-s/osm-wrangler/pkg/logger/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		log, err := New(config.Configuration{Level: config.WARN_LEVEL, TimeFormat: time.RFC3339Nano})
		assert.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := New(config.Configuration{Level: 42, TimeFormat: time.RFC3339})
		assert.ErrorIs(t, err, config.ErrInvalidLevel)

		_, err = New(config.Configuration{Level: config.INFO_LEVEL})
		assert.Error(t, err)
	})
}
