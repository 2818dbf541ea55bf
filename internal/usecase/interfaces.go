package usecase

import (
	"context"

	"github.com/iho/txledger/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// RecordSource yields transaction records in input order.
// Next returns io.EOF once the input is exhausted.
type RecordSource interface {
	Next() (domain.Record, error)
}

// LineReporter is implemented by sources that can tell which input line
// the record returned by the last Next call came from.
type LineReporter interface {
	Line() int
}

// Processor turns a full record stream into the final account snapshot.
type Processor interface {
	Process(ctx context.Context, src RecordSource) (domain.Snapshot, error)
}

// Observer is told about every record outcome. Implementations must be safe
// for concurrent use: sharded runs report from every worker.
type Observer interface {
	RecordApplied(kind domain.Kind)
	RecordIgnored(kind domain.Kind, reason error)
}
