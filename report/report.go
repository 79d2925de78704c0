// Package report renders a monthly planilla as CSV or PDF.
package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/warp/recargo-engine/planilla"
	"github.com/warp/recargo-engine/recargo"
)

const dateLayout = "2006-01-02"

// csvLine is one exported planilla row. The last line carries the totals
// with Date set to "TOTAL".
type csvLine struct {
	Date    string `csv:"fecha"`
	Plate   string `csv:"placa"`
	Start   string `csv:"hora_inicio"`
	End     string `csv:"hora_fin"`
	Total   string `csv:"total_horas"`
	HED     string `csv:"HED"`
	HEN     string `csv:"HEN"`
	HEFD    string `csv:"HEFD"`
	HEFN    string `csv:"HEFN"`
	RN      string `csv:"RN"`
	RD      string `csv:"RD"`
	Special string `csv:"dominical_festivo"`
	Error   string `csv:"error"`
}

// WriteCSV writes one line per planilla row followed by a totals line.
func WriteCSV(w io.Writer, m *planilla.Month) error {
	lines := make([]*csvLine, 0, len(m.Rows)+1)
	for _, row := range m.Rows {
		line := &csvLine{
			Date:  row.Entry.Date.Format(dateLayout),
			Plate: row.Entry.Plate,
			Start: row.Entry.Start.String(),
			End:   row.Entry.End.String(),
		}
		if row.Valid() {
			fillTotals(line, row.Totals)
			line.Special = yesNo(row.Sunday || row.Holiday)
		} else {
			line.Error = row.Err.Error()
		}
		lines = append(lines, line)
	}

	total := &csvLine{Date: "TOTAL"}
	fillTotals(total, m.Totals)
	lines = append(lines, total)

	if err := gocsv.Marshal(lines, w); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func fillTotals(line *csvLine, t recargo.Totals) {
	line.Total = t.TotalHours.String()
	line.HED = t.HED.String()
	line.HEN = t.HEN.String()
	line.HEFD = t.HEFD.String()
	line.HEFN = t.HEFN.String()
	line.RN = t.RN.String()
	line.RD = t.RD.String()
}

func yesNo(b bool) string {
	if b {
		return "si"
	}
	return "no"
}

// =============================================================================
// PDF
// =============================================================================

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Fecha", 24}, {"Placa", 20}, {"Inicio", 14}, {"Fin", 14}, {"Horas", 15},
	{"HED", 14}, {"HEN", 14}, {"HEFD", 14}, {"HEFN", 14}, {"RN", 14}, {"RD", 14}, {"D/F", 11},
}

// WritePDF renders the planilla as an A4 table with a bucket legend.
func WritePDF(w io.Writer, d planilla.Driver, m *planilla.Month) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("Planilla de recargos %04d-%02d", m.Year, int(m.Month))), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Planilla de recargos"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Conductor: %s", d.Name)))
	pdf.Ln(6)
	if d.Document != "" {
		pdf.Cell(0, 7, tr(fmt.Sprintf("Documento: %s", d.Document)))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Periodo: %04d-%02d", m.Year, int(m.Month)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(220, 220, 220)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range m.Rows {
		cells := []string{
			row.Entry.Date.Format(dateLayout),
			tr(row.Entry.Plate),
			row.Entry.Start.String(),
			row.Entry.End.String(),
		}
		if row.Valid() {
			cells = append(cells, bucketCells(row.Totals)...)
			cells = append(cells, flag(row.Sunday || row.Holiday))
		} else {
			cells = append(cells, "inválido", "", "", "", "", "", "", "")
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, tr(cells[i]), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	totals := append([]string{"TOTAL", "", "", ""}, bucketCells(m.Totals)...)
	totals = append(totals, "")
	for i, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, totals[i], "1", 0, "C", true, 0, "")
	}
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 8)
	for _, b := range recargo.Buckets {
		pct := b.Multiplier().Mul(decimal.NewFromInt(100)).StringFixed(0)
		pdf.Cell(0, 5, tr(fmt.Sprintf("%s: %s (%s%%)", b, b.Description(), pct)))
		pdf.Ln(4)
	}
	if m.Invalid > 0 {
		pdf.Ln(2)
		pdf.Cell(0, 5, tr(fmt.Sprintf("Filas inválidas excluidas del total: %d", m.Invalid)))
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func bucketCells(t recargo.Totals) []string {
	return []string{
		t.TotalHours.String(),
		t.HED.String(), t.HEN.String(), t.HEFD.String(),
		t.HEFN.String(), t.RN.String(), t.RD.String(),
	}
}

func flag(b bool) string {
	if b {
		return "X"
	}
	return ""
}
