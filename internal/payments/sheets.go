package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsSource reads candidate transactions from a Google Sheets range.
// Each row is date | title | amount | category | notes; title-less or
// amount-less rows are still returned so the engine can decide to skip
// them.
type SheetsSource struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

var _ budget.PaymentSource = (*SheetsSource)(nil)

// NewSheetsSource creates a Sheets-backed source using Service Account
// credentials from the environment. Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewSheetsSource(ctx context.Context, spreadsheetID, readRange string) (*SheetsSource, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	readRange = strings.TrimSpace(readRange)
	if readRange == "" {
		readRange = "Payments!A2:E"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

func (s *SheetsSource) Fetch(ctx context.Context) ([]budget.Payment, error) {
	if s.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.readRange, err)
	}

	payments := make([]budget.Payment, 0, len(resp.Values))
	for _, row := range resp.Values {
		p, ok := parsePaymentRow(row)
		if !ok {
			continue
		}
		payments = append(payments, p)
	}

	slog.InfoContext(ctx, "Fetched payments from Google Sheets",
		"range", s.readRange,
		"rows", len(resp.Values),
		"payments", len(payments))

	return payments, nil
}

// parsePaymentRow maps one sheet row to a Payment. Completely empty rows
// are dropped; partially filled rows are kept as-is.
func parsePaymentRow(row []any) (budget.Payment, bool) {
	cols := make([]string, len(row))
	for i, v := range row {
		cols[i] = strings.TrimSpace(fmt.Sprint(v))
	}

	var p budget.Payment
	if len(cols) > 0 {
		p.Date = cols[0]
	}
	if len(cols) > 1 {
		p.Title = cols[1]
	}
	if len(cols) > 2 && cols[2] != "" {
		raw := strings.ReplaceAll(strings.TrimPrefix(cols[2], "$"), ",", ".")
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			p.Amount = f
		}
	}
	if len(cols) > 3 {
		p.Category = cols[3]
	}
	if len(cols) > 4 {
		p.Notes = cols[4]
	}

	if p.Title == "" && p.Date == "" && p.Amount == 0 {
		return budget.Payment{}, false
	}
	return p, true
}
