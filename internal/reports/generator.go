package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"onhostel/internal/dates"
	"onhostel/internal/domain"
	"onhostel/internal/metrics"
	"onhostel/internal/models"
	"onhostel/internal/service"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Generator создает выгружаемые месячные отчеты в формате xlsx:
// табличная часть плюс текстовый блок итогов. Точная разметка не
// является контрактом совместимости.
type Generator struct {
	store  domain.Store
	path   string
	logger *zerolog.Logger
}

func NewGenerator(store domain.Store, path string, logger *zerolog.Logger) *Generator {
	if path == "" {
		path = "reports"
	}
	return &Generator{
		store:  store,
		path:   path,
		logger: logger,
	}
}

// MonthlyReport выгружает бронирования и расходы месяца с блоком итогов.
func (g *Generator) MonthlyReport(ctx context.Context, month time.Time) (string, error) {
	if err := os.MkdirAll(g.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating report directory: %v", err)
	}

	bookings, err := g.store.GetBookings(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting bookings: %v", err)
	}
	expenses, err := g.store.GetExpenses(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting expenses: %v", err)
	}
	senderoRecords, err := g.store.GetSenderoRecords(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting sendero records: %v", err)
	}

	summary := service.Aggregate(month, bookings, expenses, senderoRecords)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Resumen mensual"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Mes: %s", month.Format("01.2006")))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.MergeCell(sheetName, "A1", "F1")
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 3
	row = g.writeBookingsTable(f, sheetName, headerStyle, row, month, bookings)
	row += 2
	row = g.writeExpensesTable(f, sheetName, headerStyle, row, month, expenses)
	row += 2
	g.writeSummaryBlock(f, sheetName, headerStyle, row, summary)

	_ = f.SetColWidth(sheetName, "A", "A", 25)
	_ = f.SetColWidth(sheetName, "B", "F", 16)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("report_%s.xlsx", month.Format("2006-01"))
	filePath := filepath.Join(g.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	metrics.IncReport()
	g.logger.Info().Str("file_path", filePath).Msg("monthly report created")
	return filePath, nil
}

func (g *Generator) writeBookingsTable(f *excelize.File, sheetName string, headerStyle, row int, month time.Time, bookings []models.Booking) int {
	headers := []string{"Huésped", "Alojamiento", "Entrada", "Salida", "Total", "Pendiente"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	row++

	for i := range bookings {
		b := &bookings[i]
		if !dates.InMonth(b.CheckIn, month) {
			continue
		}
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), b.GuestName)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), b.UnitID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), b.CheckIn.Format("02.01.2006"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), b.CheckOut.Format("02.01.2006"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), b.Total)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), b.Remaining)
		row++
	}
	return row
}

func (g *Generator) writeExpensesTable(f *excelize.File, sheetName string, headerStyle, row int, month time.Time, expenses []models.Expense) int {
	headers := []string{"Fecha", "Concepto", "Importe", "Pago"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	row++

	for i := range expenses {
		e := &expenses[i]
		if !dates.InMonth(e.Date, month) {
			continue
		}
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Date.Format("02.01.2006"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Description)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Amount)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.PaymentMethod)
		row++
	}
	return row
}

func (g *Generator) writeSummaryBlock(f *excelize.File, sheetName string, headerStyle, row int, summary *models.MonthlySummary) {
	lines := []struct {
		label string
		value float64
	}{
		{"Total facturado", summary.TotalIncome},
		{"Total gastos", summary.TotalExpenses},
		{"Beneficio neto", summary.NetProfit},
		{"Total cobrado", summary.TotalIncome - summary.PendingCollection},
		{"Pendiente de cobro", summary.PendingCollection},
	}

	cell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetCellValue(sheetName, cell, "Resumen")
	_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	row++

	for _, line := range lines {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.label)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.value)
		row++
	}
}

// BarReport выгружает операции бара за месяц с итогами кассы.
func (g *Generator) BarReport(ctx context.Context, month time.Time) (string, error) {
	if err := os.MkdirAll(g.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating report directory: %v", err)
	}

	txs, err := g.store.GetBarTransactions(ctx)
	if err != nil {
		return "", fmt.Errorf("error getting bar transactions: %v", err)
	}
	summary := service.AggregateBar(month, txs)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bar"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bar: %s", month.Format("01.2006")))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.MergeCell(sheetName, "A1", "D1")
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	headers := []string{"Fecha", "Concepto", "Tipo", "Importe"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 4
	for i := range summary.Transactions {
		tx := &summary.Transactions[i]
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tx.Date.Format("02.01.2006"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tx.Description)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), tx.Type)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tx.Amount)
		row++
	}

	row++
	totals := []struct {
		label string
		value float64
	}{
		{"Ingresos", summary.TotalIncome},
		{"Gastos", summary.TotalExpense},
		{"Balance", summary.Balance},
	}
	for _, line := range totals {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), line.label)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), line.value)
		row++
	}

	_ = f.SetColWidth(sheetName, "A", "A", 14)
	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "D", 12)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bar_report_%s.xlsx", month.Format("2006-01"))
	filePath := filepath.Join(g.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	metrics.IncReport()
	g.logger.Info().Str("file_path", filePath).Msg("bar report created")
	return filePath, nil
}
