package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
)

// ApplyError is a structural failure that aborted the run.
type ApplyError struct {
	// Position is the 1-based ordinal of the record among those the source
	// returned. Rows the source skipped are not counted.
	Position int
	// Line is the input line of the record, zero if the source does not
	// implement LineReporter.
	Line   int
	Record domain.Record
	Err    error
}

func (e *ApplyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record %d (line %d, %s): %v", e.Position, e.Line, e.Record, e.Err)
	}
	return fmt.Sprintf("record %d (%s): %v", e.Position, e.Record, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// ProcessorConfig selects and sizes the processor.
type ProcessorConfig struct {
	// Workers is the shard count. Zero runs everything on the caller's goroutine.
	Workers     int
	MailboxSize int
}

// NewProcessor returns a sequential processor for zero workers and a sharded one otherwise.
func NewProcessor(cfg ProcessorConfig, observer Observer, logger zerolog.Logger) (Processor, error) {
	if cfg.Workers == 0 {
		return NewSequentialProcessor(observer, logger), nil
	}
	p, err := NewShardedProcessor(cfg, observer, logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SequentialProcessor applies every record to a single ledger.
type SequentialProcessor struct {
	observer Observer
	logger   zerolog.Logger
}

func NewSequentialProcessor(observer Observer, logger zerolog.Logger) *SequentialProcessor {
	if observer == nil {
		observer = NopObserver{}
	}
	return &SequentialProcessor{observer: observer, logger: logger}
}

// Process consumes src until io.EOF.
func (p *SequentialProcessor) Process(ctx context.Context, src RecordSource) (domain.Snapshot, error) {
	ledger := NewLedger()

	for pos := 1; ; pos++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", pos, err)
		}

		outcome, err := ledger.Apply(rec)
		if err != nil {
			return nil, &ApplyError{Position: pos, Line: sourceLine(src), Record: rec, Err: err}
		}

		report(p.observer, p.logger, pos, rec, outcome)
	}

	if err := ledger.CheckConsistency(); err != nil {
		return nil, err
	}

	return ledger.Snapshot(), nil
}

func sourceLine(src RecordSource) int {
	if lr, ok := src.(LineReporter); ok {
		return lr.Line()
	}
	return 0
}

func report(observer Observer, logger zerolog.Logger, pos int, rec domain.Record, outcome Outcome) {
	if outcome.Applied {
		observer.RecordApplied(outcome.Kind)
		return
	}

	observer.RecordIgnored(outcome.Kind, outcome.Reason)
	logger.Debug().
		Int("position", pos).
		Stringer("record", rec).
		Err(outcome.Reason).
		Msg("record ignored")
}

// NopObserver discards outcomes.
type NopObserver struct{}

func (NopObserver) RecordApplied(domain.Kind)        {}
func (NopObserver) RecordIgnored(domain.Kind, error) {}
