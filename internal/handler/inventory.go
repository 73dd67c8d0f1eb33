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

type InventoryHandler struct {
	inv    *store.InventoryStore
	notify Notifier
	logger *slog.Logger
}

func NewInventoryHandler(inv *store.InventoryStore, notify Notifier, logger *slog.Logger) *InventoryHandler {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &InventoryHandler{inv: inv, notify: notify, logger: logger.With("component", "inventory")}
}

type inventoryItemRequest struct {
	ID               scalar `json:"id"`
	CategoryID       scalar `json:"categoryId" validate:"required"`
	Category         scalar `json:"category" validate:"required"`
	Name             scalar `json:"name" validate:"required"`
	Quantity         scalar `json:"quantity" validate:"required"`
	UnitPrice        scalar `json:"unitPrice"`
	PurchaseLocation scalar `json:"purchaseLocation"`
	PurchaseDate     scalar `json:"purchaseDate"`
	ExpirationDate   scalar `json:"expirationDate"`
}

type addDataRequest struct {
	NewRow []scalar              `json:"newRow"`
	Item   *inventoryItemRequest `json:"item"`
}

// itemRequestFromRow reads the positional layout. Eight cells is the older layout
// without a location column; nine is the current A:I order.
func itemRequestFromRow(row []scalar) (*inventoryItemRequest, error) {
	switch len(row) {
	case 8:
		return &inventoryItemRequest{
			ID: row[0], CategoryID: row[1], Category: row[2], Name: row[3],
			Quantity: row[4], UnitPrice: row[5],
			PurchaseDate: row[6], ExpirationDate: row[7],
		}, nil
	case 9:
		return &inventoryItemRequest{
			ID: row[0], CategoryID: row[1], Category: row[2], Name: row[3],
			Quantity: row[4], UnitPrice: row[5], PurchaseLocation: row[6],
			PurchaseDate: row[7], ExpirationDate: row[8],
		}, nil
	}
	return nil, apperr.Validation("newRow must have 8 or 9 cells, got %d", len(row))
}

func (req *inventoryItemRequest) item() (model.InventoryItem, error) {
	if err := validateStruct(req); err != nil {
		return model.InventoryItem{}, err
	}
	qty, err := req.Quantity.Int("quantity")
	if err != nil {
		return model.InventoryItem{}, err
	}
	price, err := req.UnitPrice.PriceOr("unitPrice", decimal.Zero)
	if err != nil {
		return model.InventoryItem{}, err
	}
	bought, err := req.PurchaseDate.Date("purchaseDate")
	if err != nil {
		return model.InventoryItem{}, err
	}
	expires, err := req.ExpirationDate.Date("expirationDate")
	if err != nil {
		return model.InventoryItem{}, err
	}
	return model.InventoryItem{
		ID:               req.ID.String(),
		CategoryID:       req.CategoryID.String(),
		Category:         req.Category.String(),
		Name:             req.Name.String(),
		Quantity:         qty,
		UnitPrice:        price,
		PurchaseLocation: location(req.PurchaseLocation),
		PurchaseDate:     bought,
		ExpirationDate:   expires,
	}, nil
}

// Add handles POST /add-data.
func (h *InventoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addDataRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	itemReq := req.Item
	if itemReq == nil {
		if req.NewRow == nil {
			writeError(w, r, h.logger, apperr.Validation("Invalid request body"))
			return
		}
		var err error
		if itemReq, err = itemRequestFromRow(req.NewRow); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	item, err := itemReq.item()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	added, err := h.inv.Add(r.Context(), item)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.notify.Broadcast(websocket.NewChange(store.InventorySheet, "add", added.ID, added))
	writeOK(w, "Data added successfully", added)
}

type updateQuantityRequest struct {
	ID          scalar `json:"id" validate:"required"`
	NewQuantity scalar `json:"newQuantity" validate:"required"`
}

type quantityResult struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// UpdateQuantity handles POST /update-data.
func (h *InventoryHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	qty, err := req.NewQuantity.Int("newQuantity")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id := req.ID.String()
	if err := h.inv.SetQuantity(r.Context(), id, qty); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res := quantityResult{ID: id, Quantity: qty}
	h.notify.Broadcast(websocket.NewChange(store.InventorySheet, "updateQuantity", id, res))
	writeOK(w, "Data updated successfully", res)
}

type consumeRequest struct {
	ID     scalar `json:"id" validate:"required"`
	Amount scalar `json:"amount" validate:"required"`
}

// Consume handles POST /consume.
func (h *InventoryHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req consumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	amount, err := req.Amount.Int("amount")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id := req.ID.String()
	left, err := h.inv.Consume(r.Context(), id, amount)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	res := quantityResult{ID: id, Quantity: left}
	h.notify.Broadcast(websocket.NewChange(store.InventorySheet, "consume", id, res))
	writeOK(w, "Item consumed", res)
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.inv.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, "ok", items)
}
