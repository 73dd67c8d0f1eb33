// Package client is a typed Go client for the homestock HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/homestock/internal/model"
)

// Error is a non-success envelope returned by the server.
type Error struct {
	Status  int
	Message string
	Detail  string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 envelope.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the server at baseURL. A nil httpClient gets a
// 15 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Detail: "undecodable response"}
	}
	if !env.Success || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: env.Message, Detail: env.Error}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s data: %w", path, err)
		}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, "/api"+path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, "/api"+path, nil, out)
}

// AddInventory appends item. An empty ID is allocated by the server.
func (c *Client) AddInventory(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	var out model.InventoryItem
	err := c.post(ctx, "/add-data", map[string]any{"item": item}, &out)
	return out, err
}

func (c *Client) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	return c.post(ctx, "/update-data", map[string]any{"id": id, "newQuantity": quantity}, nil)
}

// Consume returns the quantity left after subtracting amount.
func (c *Client) Consume(ctx context.Context, id string, amount int) (int, error) {
	var out struct {
		Quantity int `json:"quantity"`
	}
	if err := c.post(ctx, "/consume", map[string]any{"id": id, "amount": amount}, &out); err != nil {
		return 0, err
	}
	return out.Quantity, nil
}

// NewEntry is the input for AddToBuy. Zero values take server defaults.
type NewEntry struct {
	Name     string
	Quantity int
	Location string
	Price    decimal.Decimal
	Priority model.Priority
}

func (c *Client) AddToBuy(ctx context.Context, e NewEntry) (model.ToBuyEntry, error) {
	body := map[string]any{
		"action":   "add",
		"name":     e.Name,
		"location": e.Location,
		"price":    e.Price,
		"priority": e.Priority,
	}
	if e.Quantity > 0 {
		body["quantity"] = e.Quantity
	}
	var out model.ToBuyEntry
	err := c.post(ctx, "/add-to-buy", body, &out)
	return out, err
}

func (c *Client) shoppingAction(ctx context.Context, action, id string, fields map[string]any) error {
	body := map[string]any{"action": action, "id": id}
	for k, v := range fields {
		body[k] = v
	}
	return c.post(ctx, "/add-to-buy", body, nil)
}

func (c *Client) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	return c.shoppingAction(ctx, "updateStatus", id, map[string]any{"status": status})
}

func (c *Client) UpdatePriority(ctx context.Context, id string, p model.Priority) error {
	return c.shoppingAction(ctx, "updatePriority", id, map[string]any{"priority": p})
}

func (c *Client) UpdateEntryQuantity(ctx context.Context, id string, quantity int) error {
	return c.shoppingAction(ctx, "updateQuantity", id, map[string]any{"quantity": quantity})
}

func (c *Client) UpdateLocation(ctx context.Context, id, location string) error {
	return c.shoppingAction(ctx, "updateLocation", id, map[string]any{"location": location})
}

func (c *Client) UpdateDetails(ctx context.Context, id string, quantity int, location string, price decimal.Decimal) error {
	return c.shoppingAction(ctx, "updateDetails", id, map[string]any{
		"quantity": quantity, "location": location, "price": price,
	})
}

// Promotion mirrors the promote action's fields.
type Promotion struct {
	ID             string          `json:"id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Location       string          `json:"location,omitempty"`
	CategoryID     string          `json:"categoryId,omitempty"`
	Category       string          `json:"category,omitempty"`
	PurchaseDate   string          `json:"purchaseDate,omitempty"`
	ExpirationDate string          `json:"expirationDate,omitempty"`
}

func (c *Client) Promote(ctx context.Context, p Promotion) (model.InventoryItem, error) {
	body := struct {
		Action string `json:"action"`
		Promotion
	}{"promote", p}
	var out model.InventoryItem
	err := c.post(ctx, "/add-to-buy", body, &out)
	return out, err
}

func (c *Client) LogAction(ctx context.Context, e model.LogEntry) (model.LogEntry, error) {
	var out model.LogEntry
	err := c.post(ctx, "/log-action", e, &out)
	return out, err
}

func (c *Client) Inventory(ctx context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	err := c.get(ctx, "/inventory", &out)
	return out, err
}

func (c *Client) ToBuy(ctx context.Context) ([]model.ToBuyEntry, error) {
	var out []model.ToBuyEntry
	err := c.get(ctx, "/to-buy", &out)
	return out, err
}

func (c *Client) Goods(ctx context.Context) ([]model.CatalogEntry, error) {
	var out []model.CatalogEntry
	err := c.get(ctx, "/goods", &out)
	return out, err
}

func (c *Client) Locations(ctx context.Context) ([]string, error) {
	var out []string
	err := c.get(ctx, "/locations", &out)
	return out, err
}

type NextIDs struct {
	Inventory string `json:"inventory"`
	Shopping  string `json:"shopping"`
}

func (c *Client) NextIDs(ctx context.Context) (NextIDs, error) {
	var out NextIDs
	err := c.get(ctx, "/next-ids", &out)
	return out, err
}
