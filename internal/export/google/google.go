// Package google implements the export port on top of the Google Sheets API.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"watchdog/internal/core"
	"watchdog/internal/export"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ export.RowAppender = (*Client)(nil)

// New creates a Sheets client bound to the given spreadsheet and sheet.
// Credentials are resolved from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or Application Default Credentials.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Ledger"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	var opts []goption.ClientOption
	switch {
	case serviceAccountJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		opts = append(opts, goption.WithCredentialsJSON([]byte(serviceAccountJSON)))
	case serviceAccountFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		credentialsJSON, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		opts = append(opts, goption.WithCredentialsJSON(credentialsJSON))
	default:
		slog.InfoContext(ctx, "Using application default credentials")
	}
	opts = append(opts, goption.WithScopes(gsheet.SpreadsheetsScope))

	service, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendEntry appends one entry as a row and returns the updated range
// reported by the API.
func (c *Client) AppendEntry(ctx context.Context, e core.Entry) (string, error) {
	if e.ID == "" || strings.TrimSpace(e.Title) == "" {
		return "", errors.New("entry missing id or title")
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	row := EntryRow(e)
	rng := fmt.Sprintf("%s!A:J", c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", c.sheetName, err)
	}
	if resp.Updates == nil || resp.Updates.UpdatedRange == "" {
		return "", errors.New("append reported no updated range")
	}

	slog.InfoContext(ctx, "Appended ledger entry to sheet",
		"entry_id", e.ID,
		"range", resp.Updates.UpdatedRange)
	return resp.Updates.UpdatedRange, nil
}

// EntryRow flattens an entry into the column layout used by the export sheet:
// ID, Date, Title, Giver, Recipients, Amount, County, Town, Tags, Source URL.
func EntryRow(e core.Entry) []interface{} {
	return []interface{}{
		e.ID,
		e.Date.ISO(),
		e.Title,
		e.Giver,
		e.Recipients,
		e.Amount,
		e.Location.County,
		e.Location.Town,
		strings.Join(e.Tags, ", "),
		e.SourceURL,
	}
}
