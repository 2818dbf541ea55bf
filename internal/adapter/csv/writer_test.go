package csv_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/txledger/internal/adapter/csv"
	"github.com/iho/txledger/internal/domain"
	"github.com/iho/txledger/internal/usecase"
)

func TestWriter_WriteSnapshot(t *testing.T) {
	snap := domain.Snapshot{
		2: {ClientID: 2, Available: domain.MustParseMoney("2"), Held: domain.Zero},
		1: {ClientID: 1, Available: domain.MustParseMoney("-1.5"), Held: domain.MustParseMoney("3.0001"), Locked: true},
	}

	var out bytes.Buffer
	require.NoError(t, csv.NewWriter(&out).WriteSnapshot(snap))

	assert.Equal(t, "client,available,held,total,locked\n"+
		"1,-1.5000,3.0001,1.5001,true\n"+
		"2,2.0000,0.0000,2.0000,false\n", out.String())
}

func TestWriter_EmptySnapshot(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, csv.NewWriter(&out).WriteSnapshot(domain.Snapshot{}))

	assert.Equal(t, "client,available,held,total,locked\n", out.String())
}

func TestRoundTrip_BasicExample(t *testing.T) {
	input := "type, client, tx, amount\n" +
		"deposit, 1, 1, 1.0\n" +
		"deposit, 2, 2, 2.0\n" +
		"deposit, 1, 3, 2.0\n" +
		"withdrawal, 1, 4, 1.5\n" +
		"withdrawal, 2, 5, 3.0\n"

	for _, workers := range []int{0, 1, 10} {
		p, err := usecase.NewProcessor(usecase.ProcessorConfig{Workers: workers, MailboxSize: 4}, nil, zerolog.Nop())
		require.NoError(t, err)

		snap, err := p.Process(context.Background(), csv.NewReader(strings.NewReader(input), zerolog.Nop()))
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, csv.NewWriter(&out).WriteSnapshot(snap))

		assert.Equal(t, "client,available,held,total,locked\n"+
			"1,1.5000,0.0000,1.5000,false\n"+
			"2,2.0000,0.0000,2.0000,false\n", out.String(), "workers=%d", workers)
	}
}
