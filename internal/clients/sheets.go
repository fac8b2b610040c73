package clients

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/MiltonKlun/TickSnap/internal/domain"
)

type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	Worksheet       string
}

// SheetsClient talks to the Google Sheets ledger. The underlying service is
// created lazily and cached; a cached service found stale on next use is
// discarded and re-established, so callers only ever see a connection error
// when re-establishment itself fails.
type SheetsClient struct {
	cfg SheetsConfig
	log *logrus.Logger

	mu  sync.Mutex
	svc *sheets.Service
}

func NewSheetsClient(cfg SheetsConfig, log *logrus.Logger) (*SheetsClient, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("%w: spreadsheet id is not configured", domain.ErrConnection)
	}
	if cfg.Worksheet == "" {
		cfg.Worksheet = "Sheet1"
	}
	return &SheetsClient{cfg: cfg, log: log}, nil
}

func (c *SheetsClient) connect(ctx context.Context) (*sheets.Service, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if c.cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.cfg.CredentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return svc, nil
}

// service returns the cached Sheets service, probing it for staleness first.
func (c *SheetsClient) service(ctx context.Context) (*sheets.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.svc != nil {
		_, err := c.svc.Spreadsheets.Get(c.cfg.SpreadsheetID).
			Fields("properties.title").Context(ctx).Do()
		if err == nil {
			return c.svc, nil
		}
		c.log.WithError(err).Warn("cached sheets connection is stale, re-establishing")
		c.svc = nil
	}

	svc, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := svc.Spreadsheets.Get(c.cfg.SpreadsheetID).
		Fields("properties.title").Context(ctx).Do(); err != nil {
		return nil, wrapSheetsError(err)
	}

	c.log.WithField("spreadsheet_id", c.cfg.SpreadsheetID).Info("connected to ledger spreadsheet")
	c.svc = svc
	return svc, nil
}

// Ping verifies that the ledger is reachable, reconnecting if needed.
func (c *SheetsClient) Ping(ctx context.Context) error {
	_, err := c.service(ctx)
	return err
}

// ReadRange reads the cells between topLeft and bottomRight (A1 notation
// corners, e.g. "M2", "R500"). Rows are returned in table order; trailing
// empty cells may be absent.
func (c *SheetsClient) ReadRange(ctx context.Context, topLeft, bottomRight string) ([][]string, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	rng := fmt.Sprintf("%s!%s:%s", c.cfg.Worksheet, topLeft, bottomRight)
	resp, err := svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, wrapSheetsError(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		rows = append(rows, cellsToStrings(raw))
	}
	return rows, nil
}

// ReadRow reads one full 1-based row.
func (c *SheetsClient) ReadRow(ctx context.Context, row int) ([]string, error) {
	if row < 1 {
		return nil, fmt.Errorf("%w: row %d out of range", domain.ErrInvalidLedgerData, row)
	}

	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	rng := fmt.Sprintf("%s!%d:%d", c.cfg.Worksheet, row, row)
	resp, err := svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, wrapSheetsError(err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return cellsToStrings(resp.Values[0]), nil
}

// WriteRow writes cells into the A1 range (e.g. "A12:I12") with USER_ENTERED
// semantics, matching what an operator typing into the sheet would produce.
func (c *SheetsClient) WriteRow(ctx context.Context, a1Range string, cells []string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}

	raw := make([]interface{}, len(cells))
	for i, cell := range cells {
		raw[i] = cell
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{raw}}

	rng := fmt.Sprintf("%s!%s", c.cfg.Worksheet, a1Range)
	_, err = svc.Spreadsheets.Values.Update(c.cfg.SpreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return wrapSheetsError(err)
	}
	return nil
}

func cellsToStrings(raw []interface{}) []string {
	cells := make([]string, len(raw))
	for i, v := range raw {
		switch t := v.(type) {
		case string:
			cells[i] = t
		case nil:
			cells[i] = ""
		default:
			cells[i] = fmt.Sprint(t)
		}
	}
	return cells
}

// wrapSheetsError maps service-reported errors to ErrRemoteAPI and everything
// else (network, auth transport) to ErrConnection.
func wrapSheetsError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("%w: %v", domain.ErrRemoteAPI, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrConnection, err)
}
