package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/model"
	"github.com/dukerupert/homestock/internal/store"
	"github.com/dukerupert/homestock/internal/websocket"
)

type ShoppingHandler struct {
	shop     *store.ShoppingStore
	promoter *store.Promoter
	notify   Notifier
	logger   *slog.Logger
}

func NewShoppingHandler(shop *store.ShoppingStore, promoter *store.Promoter, notify Notifier, logger *slog.Logger) *ShoppingHandler {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &ShoppingHandler{shop: shop, promoter: promoter, notify: notify, logger: logger.With("component", "shopping")}
}

// addToBuyRequest is the union of every action's fields. Each action reads
// only the ones it needs.
type addToBuyRequest struct {
	Action         string   `json:"action" validate:"required"`
	NewRow         []scalar `json:"newRow"`
	ID             scalar   `json:"id"`
	Name           scalar   `json:"name"`
	Quantity       scalar   `json:"quantity"`
	Location       scalar   `json:"location"`
	Price          scalar   `json:"price"`
	UnitPrice      scalar   `json:"unitPrice"`
	Status         scalar   `json:"status"`
	Priority       scalar   `json:"priority"`
	CategoryID     scalar   `json:"categoryId"`
	Category       scalar   `json:"category"`
	PurchaseDate   scalar   `json:"purchaseDate"`
	ExpirationDate scalar   `json:"expirationDate"`
}

type shoppingAction func(h *ShoppingHandler, r *http.Request, req *addToBuyRequest) (string, any, error)

var shoppingActions = map[string]shoppingAction{
	"add":            (*ShoppingHandler).add,
	"updateStatus":   (*ShoppingHandler).updateStatus,
	"update":         (*ShoppingHandler).updateStatus,
	"updatePriority": (*ShoppingHandler).updatePriority,
	"updateQuantity": (*ShoppingHandler).updateQuantity,
	"updateLocation": (*ShoppingHandler).updateLocation,
	"updateDetails":  (*ShoppingHandler).updateDetails,
	"promote":        (*ShoppingHandler).promote,
}

// Dispatch handles POST /add-to-buy.
func (h *ShoppingHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req addToBuyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	act, ok := shoppingActions[req.Action]
	if !ok {
		writeError(w, r, h.logger, apperr.Validation("Invalid action"))
		return
	}
	if req.Action != "add" && req.ID.IsEmpty() {
		writeError(w, r, h.logger, apperr.Validation("id is required"))
		return
	}
	msg, data, err := act(h, r, &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, msg, data)
}

func (h *ShoppingHandler) add(r *http.Request, req *addToBuyRequest) (string, any, error) {
	if len(req.NewRow) > 0 {
		// id, name, quantity, location, price, status, priority
		row := req.NewRow
		req.ID, req.Name, req.Quantity, req.Location = rowCell(row, 0), rowCell(row, 1), rowCell(row, 2), rowCell(row, 3)
		req.Price, req.Priority = rowCell(row, 4), rowCell(row, 6)
	}
	if req.Name.IsEmpty() {
		return "", nil, apperr.Validation("name is required")
	}
	qty, err := req.Quantity.IntOr("quantity", 1)
	if err != nil {
		return "", nil, err
	}
	price, err := req.Price.PriceOr("price", decimal.Zero)
	if err != nil {
		return "", nil, err
	}
	priority, ok := model.ParsePriority(req.Priority.String())
	if !ok {
		return "", nil, apperr.Validation("priority must be high, medium, low or empty")
	}
	entry, err := h.shop.Add(r.Context(), model.ToBuyEntry{
		ID:       req.ID.String(),
		Name:     req.Name.String(),
		Quantity: qty,
		Location: location(req.Location),
		Price:    price,
		Priority: priority,
	})
	if err != nil {
		return "", nil, err
	}
	h.notify.Broadcast(websocket.NewChange(store.ShoppingSheet, "add", entry.ID, entry))
	return "Item added successfully", entry, nil
}

func (h *ShoppingHandler) updateStatus(r *http.Request, req *addToBuyRequest) (string, any, error) {
	status, ok := model.ParseStatus(req.Status.String())
	if !ok {
		return "", nil, apperr.Validation("status must be pending or bought")
	}
	id := req.ID.String()
	if err := h.shop.SetStatus(r.Context(), id, status); err != nil {
		return "", nil, err
	}
	data := map[string]any{"id": id, "status": status}
	h.notify.Broadcast(websocket.NewChange(store.ShoppingSheet, "updateStatus", id, data))
	return "Status updated successfully", data, nil
}

func (h *ShoppingHandler) updatePriority(r *http.Request, req *addToBuyRequest) (string, any, error) {
	priority, ok := model.ParsePriority(req.Priority.String())
	if !ok {
		return "", nil, apperr.Validation("priority must be high, medium, low or empty")
	}
	id := req.ID.String()
	if err := h.shop.SetPriority(r.Context(), id, priority); err != nil {
		return "", nil, err
	}
	data := map[string]any{"id": id, "priority": priority}
	h.notify.Broadcast(websocket.NewChange(store.ShoppingSheet, "updatePriority", id, data))
	return "Priority updated successfully", data, nil
}

func (h *ShoppingHandler) updateQuantity(r *http.Request, req *addToBuyRequest) (string, any, error) {
	qty, err := req.Quantity.Int("quantity")
	if err != nil {
		return "", nil, err
	}
	id := req.ID.String()
	if err := h.shop.SetQuantity(r.Context(), id, qty); err != nil {
		return "", nil, err
	}
	data := map[string]any{"id": id, "quantity": qty}
	h.notify.Broadcast(websocket.NewChange(store.ShoppingSheet, "updateQuantity", id, data))
	return "Quantity updated successfully", data, nil
}

func (h *ShoppingHandler) updateLocation(r *http.Request, req *addToBuyRequest) (string, any, error) {
	id := req.ID.String()
	loc := location(req.Location)
	if err := h.shop.SetLocation(r.Context(), id, loc); err != nil {
		return "", nil, err
	}
	if loc == "" {
		loc = model.LocationPending
	}
	data := map[string]any{"id": id, "location": loc}
	h.notify.Broadcast(websocket.NewChange(store.ShoppingSheet, "updateLocation", id, data))
	return "Location updated successfully", data, nil
}

func (h *ShoppingHandler) updateDetails(r *http.Request, req *addToBuyRequest) (string, any, error) {
	qty, err := req.Quantity.Int("quantity")
	if err != nil {
		return "", nil, err
	}
	price, err := h.price(req)
	if err != nil {
		return "", nil, err
	}
	id := req.ID.String()
	loc := location(req.Location)
	if err := h.shop.SetDetails(r.Context(), id, qty, loc, price); err != nil {
		return "", nil, err
	}
	if loc == "" {
		loc = model.LocationPending
	}
	data := map[string]any{"id": id, "quantity": qty, "location": loc, "price": price}
	h.notify.Broadcast(websocket.NewChange(store.ShoppingSheet, "updateDetails", id, data))
	return "Details updated successfully", data, nil
}

func (h *ShoppingHandler) promote(r *http.Request, req *addToBuyRequest) (string, any, error) {
	qty, err := req.Quantity.Int("quantity")
	if err != nil {
		return "", nil, err
	}
	price, err := h.price(req)
	if err != nil {
		return "", nil, err
	}
	bought, err := req.PurchaseDate.Date("purchaseDate")
	if err != nil {
		return "", nil, err
	}
	expires, err := req.ExpirationDate.Date("expirationDate")
	if err != nil {
		return "", nil, err
	}
	id := req.ID.String()
	item, err := h.promoter.Promote(r.Context(), store.Promotion{
		ShoppingID:     id,
		Quantity:       qty,
		UnitPrice:      price,
		Location:       location(req.Location),
		CategoryID:     req.CategoryID.String(),
		Category:       req.Category.String(),
		PurchaseDate:   bought,
		ExpirationDate: expires,
	})
	if err != nil {
		return "", nil, err
	}
	h.notify.Broadcast(websocket.NewChange(store.InventorySheet, "add", item.ID, item))
	h.notify.Broadcast(websocket.NewChange(store.ShoppingSheet, "promote", id, item))
	return "Item promoted to inventory", item, nil
}

// price reads unitPrice, falling back to price.
func (h *ShoppingHandler) price(req *addToBuyRequest) (decimal.Decimal, error) {
	if !req.UnitPrice.IsEmpty() {
		return req.UnitPrice.PriceOr("unitPrice", decimal.Zero)
	}
	return req.Price.PriceOr("price", decimal.Zero)
}

// List handles GET /api/to-buy.
func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.shop.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, "ok", entries)
}
