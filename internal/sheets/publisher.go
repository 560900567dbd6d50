package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"onhostel/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Publisher выкладывает готовую месячную сводку в Google-таблицу.
// Необязательная интеграция: ошибки публикации логируются вызывающим
// кодом и не влияют на работу панели.
type Publisher struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewPublisher создает клиент Sheets по учетным данным сервисного аккаунта.
func NewPublisher(ctx context.Context, credentialsFile, spreadsheetID string) (*Publisher, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &Publisher{
		service:       srv,
		spreadsheetID: spreadsheetID,
	}, nil
}

// ServiceAccountEmail возвращает e-mail сервисного аккаунта, которому
// нужно выдать доступ к таблице.
func ServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}
	return creds.ClientEmail, nil
}

// TestConnection проверяет доступ к таблице.
func (p *Publisher) TestConnection(ctx context.Context) error {
	_, err := p.service.Spreadsheets.Values.Get(p.spreadsheetID, "Resumen!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// PublishSummary перезаписывает лист сводки целиком: строка итогов
// месяца плюс лента движений.
func (p *Publisher) PublishSummary(ctx context.Context, summary *models.MonthlySummary) error {
	values := [][]interface{}{
		{"Mes", summary.Month.Format("01.2006")},
		{"Total facturado", summary.TotalIncome},
		{"Reservas", summary.BookingIncome},
		{"Sendero", summary.SenderoIncome},
		{"Total gastos", summary.TotalExpenses},
		{"Beneficio neto", summary.NetProfit},
		{"Pendiente de cobro", summary.PendingCollection},
		{},
		{"Fecha", "Categoría", "Concepto", "Importe"},
	}

	for _, m := range summary.Movements {
		values = append(values, []interface{}{
			m.Date.Format("2006-01-02"),
			m.Category,
			m.Description,
			m.Amount,
		})
	}

	clearRange := "Resumen!A:Z"
	if _, err := p.service.Spreadsheets.Values.Clear(p.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear summary sheet: %v", err)
	}

	valueRange := &sheets.ValueRange{Values: values}
	_, err := p.service.Spreadsheets.Values.Update(p.spreadsheetID, "Resumen!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update summary sheet: %v", err)
	}
	return nil
}
