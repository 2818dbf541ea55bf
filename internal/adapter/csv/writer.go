package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iho/txledger/internal/domain"
)

var snapshotHeader = []string{"client", "available", "held", "total", "locked"}

// Writer encodes account snapshots, one row per client in ascending client order.
type Writer struct {
	w *stdcsv.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: stdcsv.NewWriter(w)}
}

// WriteSnapshot writes the header and every account, then flushes.
func (w *Writer) WriteSnapshot(snap domain.Snapshot) error {
	if err := w.w.Write(snapshotHeader); err != nil {
		return err
	}

	row := make([]string, len(snapshotHeader))
	for _, acc := range snap.Sorted() {
		total, err := acc.Total()
		if err != nil {
			return fmt.Errorf("client %d: %w", acc.ClientID, err)
		}

		row[0] = strconv.FormatUint(uint64(acc.ClientID), 10)
		row[1] = acc.Available.String()
		row[2] = acc.Held.String()
		row[3] = total.String()
		row[4] = strconv.FormatBool(acc.Locked)

		if err := w.w.Write(row); err != nil {
			return err
		}
	}

	w.w.Flush()
	return w.w.Error()
}
