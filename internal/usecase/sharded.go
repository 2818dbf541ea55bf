package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/txledger/internal/domain"
)

// ErrInvalidProcessorConfig is returned for unusable shard settings.
var ErrInvalidProcessorConfig = errors.New("invalid processor config")

// ShardedProcessor partitions records by client across a fixed set of
// workers. Each worker owns a private ledger and reads its mailbox in FIFO
// order, so every client's records are applied in input order by exactly
// one goroutine.
type ShardedProcessor struct {
	workers     int
	mailboxSize int
	observer    Observer
	logger      zerolog.Logger
}

type envelope struct {
	pos  int
	line int
	rec  domain.Record
}

type shard struct {
	index    int
	mailbox  chan envelope
	ledger   *Ledger
	snapshot domain.Snapshot
}

func NewShardedProcessor(cfg ProcessorConfig, observer Observer, logger zerolog.Logger) (*ShardedProcessor, error) {
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidProcessorConfig, cfg.Workers)
	}
	if cfg.MailboxSize < 1 {
		return nil, fmt.Errorf("%w: mailbox size must be at least 1, got %d", ErrInvalidProcessorConfig, cfg.MailboxSize)
	}
	if observer == nil {
		observer = NopObserver{}
	}

	return &ShardedProcessor{
		workers:     cfg.Workers,
		mailboxSize: cfg.MailboxSize,
		observer:    observer,
		logger:      logger,
	}, nil
}

// ShardFor returns the worker index that owns client.
func ShardFor(client domain.ClientID, workers int) int {
	return int(client) % workers
}

// Process routes src to the workers, drains them and merges their snapshots.
func (p *ShardedProcessor) Process(ctx context.Context, src RecordSource) (domain.Snapshot, error) {
	g, gctx := errgroup.WithContext(ctx)

	shards := make([]*shard, p.workers)
	for i := range shards {
		s := &shard{
			index:   i,
			mailbox: make(chan envelope, p.mailboxSize),
			ledger:  newShardLedger(),
		}
		shards[i] = s
		g.Go(func() error { return p.run(s) })
	}

	routeErr := p.route(gctx, src, shards)

	// Closing a mailbox is the drain signal.
	for _, s := range shards {
		close(s.mailbox)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if routeErr != nil {
		return nil, routeErr
	}

	return merge(shards)
}

// route owns the id set for the whole stream, so duplicates spanning
// shards are caught exactly as a single ledger would catch them.
func (p *ShardedProcessor) route(ctx context.Context, src RecordSource, shards []*shard) error {
	ids := NewIDSet()

	for pos := 1; ; pos++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read record %d: %w", pos, err)
		}

		line := sourceLine(src)
		if rec.Kind.CarriesAmount() {
			if err := ids.Claim(rec.Tx); err != nil {
				return &ApplyError{Position: pos, Line: line, Record: rec, Err: err}
			}
		}

		s := shards[ShardFor(rec.Client, len(shards))]
		select {
		case s.mailbox <- envelope{pos: pos, line: line, rec: rec}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *ShardedProcessor) run(s *shard) error {
	logger := p.logger.With().Int("shard", s.index).Logger()

	for env := range s.mailbox {
		outcome, err := s.ledger.Apply(env.rec)
		if err != nil {
			return &ApplyError{Position: env.pos, Line: env.line, Record: env.rec, Err: err}
		}

		report(p.observer, logger, env.pos, env.rec, outcome)
	}

	if err := s.ledger.CheckConsistency(); err != nil {
		return fmt.Errorf("shard %d: %w", s.index, err)
	}

	s.snapshot = s.ledger.Snapshot()
	logger.Debug().Int("accounts", len(s.snapshot)).Msg("shard drained")

	return nil
}

func merge(shards []*shard) (domain.Snapshot, error) {
	size := 0
	for _, s := range shards {
		size += len(s.snapshot)
	}

	merged := make(domain.Snapshot, size)
	owner := make(map[domain.ClientID]int, size)
	for _, s := range shards {
		for id, acc := range s.snapshot {
			if prev, exists := owner[id]; exists {
				return nil, fmt.Errorf("client %d reported by shards %d and %d", id, prev, s.index)
			}
			owner[id] = s.index
			merged[id] = acc
		}
	}

	return merged, nil
}
