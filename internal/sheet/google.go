package sheet

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleCredentials identifies the service account used to reach the sheet.
// Either CredentialsFile or ClientEmail+PrivateKey must be set.
type GoogleCredentials struct {
	ClientEmail     string
	PrivateKey      string
	CredentialsFile string
}

// GoogleStore talks to one spreadsheet through the Sheets v4 API.
type GoogleStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewGoogleStore authenticates with a service-account JWT and returns a store
// bound to spreadsheetID.
func NewGoogleStore(ctx context.Context, creds GoogleCredentials, spreadsheetID string) (*GoogleStore, error) {
	conf, err := jwtConfig(creds)
	if err != nil {
		return nil, err
	}
	return NewGoogleStoreWithOptions(ctx, spreadsheetID, option.WithHTTPClient(conf.Client(ctx)))
}

// NewGoogleStoreWithOptions builds a store from raw client options.
func NewGoogleStoreWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleStore, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func jwtConfig(creds GoogleCredentials) (*jwt.Config, error) {
	if creds.CredentialsFile != "" {
		data, err := os.ReadFile(creds.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
		return conf, nil
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, fmt.Errorf("service account email and private key are required")
	}
	return &jwt.Config{
		Email:      creds.ClientEmail,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}, nil
}

func (g *GoogleStore) Get(ctx context.Context, r Range) ([][]string, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, r.A1()).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = CellString(v)
		}
	}
	return rows, nil
}

func (g *GoogleStore) Append(ctx context.Context, r Range, rows [][]any) error {
	if err := r.validate(); err != nil {
		return err
	}
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, r.A1(), valueRange(rows)).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %s: %w", r, err)
	}
	return nil
}

func (g *GoogleStore) Update(ctx context.Context, r Range, rows [][]any) error {
	if err := r.validate(); err != nil {
		return err
	}
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, r.A1(), valueRange(rows)).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", r, err)
	}
	return nil
}

func valueRange(rows [][]any) *sheets.ValueRange {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		copy(values[i], row)
	}
	return &sheets.ValueRange{Values: values}
}
