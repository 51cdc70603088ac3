package config

import (
	"errors"
	"fmt"
)

// levels follow zapcore: DEBUG_LEVEL = -1 ... FATAL_LEVEL = 5
const (
	DEBUG_LEVEL int = iota - 1
	INFO_LEVEL
	WARN_LEVEL
	ERROR_LEVEL
	DPANIC_LEVEL
	PANIC_LEVEL
	FATAL_LEVEL
)

var ErrInvalidLevel = errors.New("invalid log level")

type Configuration struct {
	Level      int
	TimeFormat string
}

func (c Configuration) Validate() error {
	if c.Level < DEBUG_LEVEL || c.Level > FATAL_LEVEL {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, c.Level)
	}
	if c.TimeFormat == "" {
		return errors.New("log time format is empty")
	}
	return nil
}
