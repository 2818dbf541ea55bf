package csv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/iho/txledger/internal/domain"
)

// GenerateOptions shapes a synthetic deposit stream.
type GenerateOptions struct {
	Rows    int
	Clients int
	Amount  domain.Money
}

// Generate writes opts.Rows deposits spread round-robin over clients 1..opts.Clients
// with transaction ids 1..opts.Rows.
func Generate(w io.Writer, opts GenerateOptions) error {
	if opts.Rows < 0 {
		return errors.New("rows must not be negative")
	}
	if opts.Clients < 1 || opts.Clients > math.MaxUint16 {
		return fmt.Errorf("clients must be between 1 and %d", math.MaxUint16)
	}
	if uint64(opts.Rows) > math.MaxUint32 {
		return fmt.Errorf("rows must not exceed %d", uint64(math.MaxUint32))
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("type, client, tx, amount\n"); err != nil {
		return err
	}

	amount := opts.Amount.Decimal().String()
	for i := range opts.Rows {
		client := i%opts.Clients + 1
		if _, err := fmt.Fprintf(bw, "deposit,%d,%d,%s\n", client, i+1, amount); err != nil {
			return err
		}
	}

	return bw.Flush()
}
