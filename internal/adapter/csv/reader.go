// Package csv decodes transaction rows and encodes account snapshots.
package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/txledger/internal/domain"
)

// ErrMalformedRow marks a row that could not be decoded into a record.
var ErrMalformedRow = errors.New("malformed row")

// RowError describes a skipped input row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reader decodes `type, client, tx, amount` rows. The header is optional,
// whitespace around fields is ignored and the amount column may be missing
// for dispute, resolve and chargeback rows. Malformed rows are logged and skipped.
type Reader struct {
	r       *stdcsv.Reader
	logger  zerolog.Logger
	started bool
	skipped int
	line    int
}

func NewReader(r io.Reader, logger zerolog.Logger) *Reader {
	cr := stdcsv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &Reader{r: cr, logger: logger}
}

// Next returns the next well-formed record, or io.EOF.
func (r *Reader) Next() (domain.Record, error) {
	for {
		fields, err := r.r.Read()
		if errors.Is(err, io.EOF) {
			return domain.Record{}, io.EOF
		}

		var parseErr *stdcsv.ParseError
		if errors.As(err, &parseErr) {
			r.skip(&RowError{Line: parseErr.Line, Err: fmt.Errorf("%w: %v", ErrMalformedRow, parseErr.Err)})
			continue
		}
		if err != nil {
			return domain.Record{}, err
		}

		line, _ := r.r.FieldPos(0)

		if !r.started {
			r.started = true
			if isHeader(fields) {
				continue
			}
		}

		rec, err := decode(fields)
		if err != nil {
			r.skip(&RowError{Line: line, Err: err})
			continue
		}

		r.line = line
		return rec, nil
	}
}

// Line returns the input line of the record last returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Skipped returns how many rows were dropped as malformed so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

func (r *Reader) skip(err *RowError) {
	r.skipped++
	r.logger.Warn().Int("line", err.Line).Err(err.Err).Msg("skipping row")
}

func isHeader(fields []string) bool {
	return len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "type")
}

func decode(fields []string) (domain.Record, error) {
	if len(fields) != 3 && len(fields) != 4 {
		return domain.Record{}, fmt.Errorf("%w: expected 3 or 4 fields, got %d", ErrMalformedRow, len(fields))
	}

	kind, err := domain.ParseKind(fields[0])
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: client %q", ErrMalformedRow, fields[1])
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: tx %q", ErrMalformedRow, fields[2])
	}

	rec := domain.Record{Kind: kind, Client: domain.ClientID(client), Tx: domain.TxID(tx)}

	if kind.CarriesAmount() && len(fields) == 4 {
		if raw := strings.TrimSpace(fields[3]); raw != "" {
			amount, err := domain.ParseMoney(raw)
			if err != nil {
				return domain.Record{}, fmt.Errorf("%w: %w", ErrMalformedRow, err)
			}
			rec.Amount = amount
		}
	}

	return rec, nil
}
