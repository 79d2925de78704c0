package report_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/recargo-engine/planilla"
	"github.com/warp/recargo-engine/recargo"
	"github.com/warp/recargo-engine/report"
)

func sampleMonth() *planilla.Month {
	holiday := recargo.Totals{
		RD:         decimal.NewFromInt(8),
		HEFD:       decimal.NewFromInt(4),
		TotalHours: decimal.NewFromInt(12),
	}
	return &planilla.Month{
		DriverID: "d-1",
		Year:     2025,
		Month:    time.July,
		Rows: []planilla.Row{
			{
				Entry: planilla.Entry{
					Date:  time.Date(2025, time.July, 16, 0, 0, 0, 0, time.UTC),
					Plate: "ABC123",
					Start: decimal.NewFromInt(9),
					End:   decimal.NewFromInt(9),
				},
				Err: errors.New("invalid shift: zero duration"),
			},
			{
				Entry: planilla.Entry{
					Date:  time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC),
					Plate: "ABC123",
					Start: decimal.NewFromInt(6),
					End:   decimal.NewFromInt(18),
				},
				Totals:  holiday,
				Sunday:  true,
				Holiday: true,
			},
		},
		Totals:  holiday,
		Invalid: 1,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, sampleMonth()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header + 2 rows + totals")

	header := records[0]
	assert.Equal(t, "fecha", header[0])
	assert.Contains(t, header, "HEFD")

	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %s", name)
		return -1
	}

	broken := records[1]
	assert.Equal(t, "2025-07-16", broken[col("fecha")])
	assert.Contains(t, broken[col("error")], "zero duration")
	assert.Empty(t, broken[col("RD")])

	holiday := records[2]
	assert.Equal(t, "8", holiday[col("RD")])
	assert.Equal(t, "4", holiday[col("HEFD")])
	assert.Equal(t, "si", holiday[col("dominical_festivo")])

	totals := records[3]
	assert.Equal(t, "TOTAL", totals[col("fecha")])
	assert.Equal(t, "12", totals[col("total_horas")])
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	d := planilla.Driver{ID: "d-1", Name: "José Núñez", Document: "1020304050"}
	require.NoError(t, report.WritePDF(&buf, d, sampleMonth()))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}
