// Package sheets provides a thin client over the Google Sheets values API.
// The spreadsheet is the system's only durable store: the season catalog,
// the weekly schedule, and the append-only results log are all tabs of a
// single configured spreadsheet.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/openclassical/league-data/internal/config"
)

// Client wraps the Sheets service for one spreadsheet.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// ValueUpdate addresses a single cell (or range) and the values to write.
type ValueUpdate struct {
	Range  string
	Values [][]interface{}
}

// New creates a client authenticated with the service-account JSON from
// configuration.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsJSON([]byte(cfg.GoogleCredsJSON)),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

// NewWithService creates a client over an already-constructed service.
// Used by tests to point the client at a fake endpoint.
func NewWithService(svc *sheetsapi.Service, spreadsheetID string) *Client {
	return &Client{svc: svc, spreadsheetID: spreadsheetID}
}

// ReadRange fetches a range and coerces every cell to a string. Sheets
// returns untyped JSON values; everything this system stores is text.
func (c *Client) ReadRange(ctx context.Context, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", rng, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprintf("%v", cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Append adds rows after the last data row of the given range. INSERT_ROWS
// guarantees existing rows are never overwritten.
func (c *Client) Append(ctx context.Context, rng string, rows [][]interface{}) error {
	vr := &sheetsapi.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows to %s: %w", len(rows), rng, err)
	}
	return nil
}

// BatchUpdate patches the given cells in a single request.
func (c *Client) BatchUpdate(ctx context.Context, updates []ValueUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]*sheetsapi.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsapi.ValueRange{Range: u.Range, Values: u.Values})
	}

	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	_, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("batch update %d cells: %w", len(updates), err)
	}
	return nil
}

// HealthCheck verifies the spreadsheet is reachable by reading the catalog
// header row.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ReadRange(ctx, "Seasons!A1:A1")
	return err
}
