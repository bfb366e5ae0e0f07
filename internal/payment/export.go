package payment

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []interface{}{"Aluno", "Mês", "Vencimento", "Valor", "Status", "Data de pagamento"}

// Export writes the month's payments as an .xlsx workbook with a totals row
// per status under the list.
func (s *Service) Export(ctx context.Context, month string, w io.Writer) error {
	summary, err := s.List(ctx, Filter{Month: month})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WarnContext(ctx, "failed to close workbook", "error", err)
		}
	}()

	sheet := summary.Month
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	for _, p := range summary.Payments {
		values := []interface{}{
			p.Student.Name,
			p.ReferenceMonth,
			p.DueDate,
			p.Amount.InexactFloat64(),
			string(p.Status),
			derefOr(p.PaidAt, ""),
		}
		if err := f.SetSheetRow(sheet, cell(row), &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
	}

	row++
	totals := []struct {
		label  string
		amount float64
	}{
		{"Total recebido", summary.Received.InexactFloat64()},
		{"Total pendente", summary.Pending.InexactFloat64()},
		{"Total atrasado", summary.Overdue.InexactFloat64()},
	}
	for _, t := range totals {
		values := []interface{}{t.label, nil, nil, t.amount}
		if err := f.SetSheetRow(sheet, cell(row), &values); err != nil {
			return fmt.Errorf("failed to write totals: %w", err)
		}
		row++
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportFilename is the download name for a month's workbook.
func ExportFilename(month string) string {
	return "pagamentos-" + month + ".xlsx"
}

func cell(row int) string {
	name, _ := excelize.CoordinatesToCellName(1, row)
	return name
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
