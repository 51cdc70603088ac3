package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/lintang-b-s/osm-wrangler/pkg/cleaner"
	"github.com/lintang-b-s/osm-wrangler/pkg/geo"

	"go.uber.org/zap"
)

const progressEvery = 10000

// Summary counts a processing run. Seen counts every top level element, Shaped only nodes and ways.
type Summary struct {
	Seen     int `json:"seen"`
	Shaped   int `json:"shaped"`
	Admitted int `json:"admitted"`
	Failed   int `json:"failed"`
}

type Processor struct {
	log      *zap.Logger
	shaper   *cleaner.Shaper
	admitter *cleaner.Admitter
	sinks    []Sink
}

func NewProcessor(log *zap.Logger, shaper *cleaner.Shaper, admitter *cleaner.Admitter, sinks ...Sink) *Processor {
	return &Processor{
		log:      log,
		shaper:   shaper,
		admitter: admitter,
		sinks:    sinks,
	}
}

// Process shapes every element of scanner and writes the admitted ones to the sinks. element level
// shaping errors are logged and counted, scanner and sink errors stop the run.
func (p *Processor) Process(ctx context.Context, scanner geo.Scanner) (Summary, error) {
	var sum Summary

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return sum, errors.Join(err, p.flush())
		}
		el := scanner.Element()
		sum.Seen++
		if sum.Seen%progressEvery == 0 {
			p.log.Debug("processing", zap.Int("seen", sum.Seen), zap.Int("admitted", sum.Admitted))
		}

		rec, err := p.shaper.Shape(el)
		if err != nil {
			var elErr *cleaner.ElementError
			if !errors.As(err, &elErr) {
				return sum, err
			}
			sum.Failed++
			p.log.Warn("skip element", zap.String("element", el.String()), zap.Error(err))
			continue
		}
		if rec == nil {
			continue
		}
		sum.Shaped++

		if !p.admitter.Admit(rec) {
			continue
		}
		sum.Admitted++

		for _, sink := range p.sinks {
			if err := sink.Write(rec); err != nil {
				return sum, fmt.Errorf("write %s: %w", el.String(), err)
			}
		}
	}

	// records admitted before a stream error still reach the sinks, the caller decides what to keep
	if err := scanner.Err(); err != nil {
		return sum, errors.Join(err, p.flush())
	}

	if err := p.flush(); err != nil {
		return sum, err
	}

	p.log.Info("processing done",
		zap.Int("seen", sum.Seen),
		zap.Int("shaped", sum.Shaped),
		zap.Int("admitted", sum.Admitted),
		zap.Int("failed", sum.Failed))
	return sum, nil
}

func (p *Processor) flush() error {
	var errs []error
	for _, sink := range p.sinks {
		if err := sink.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
