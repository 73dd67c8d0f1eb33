package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/homestock/internal/model"
	"github.com/dukerupert/homestock/internal/store"
	"github.com/dukerupert/homestock/internal/websocket"
)

type ActionLogHandler struct {
	logs   *store.ActionLogStore
	notify Notifier
	logger *slog.Logger
}

func NewActionLogHandler(logs *store.ActionLogStore, notify Notifier, logger *slog.Logger) *ActionLogHandler {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &ActionLogHandler{logs: logs, notify: notify, logger: logger.With("component", "action_log")}
}

type logActionRequest struct {
	Timestamp   scalar `json:"timestamp"`
	Action      scalar `json:"action" validate:"required"`
	ItemTypeID  scalar `json:"itemTypeId"`
	ItemName    scalar `json:"itemName" validate:"required"`
	Quantity    scalar `json:"quantity"`
	NewQuantity scalar `json:"newQuantity"`
}

// Log handles POST /log-action.
func (h *ActionLogHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req logActionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	entry, err := h.logs.Append(r.Context(), model.LogEntry{
		Timestamp:  req.Timestamp.String(),
		Action:     req.Action.String(),
		CategoryID: req.ItemTypeID.String(),
		ItemName:   req.ItemName.String(),
		Quantity:   req.Quantity.String(),
		Result:     req.NewQuantity.String(),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.notify.Broadcast(websocket.NewChange(store.ActionLogSheet, "append", "", entry))
	writeOK(w, "Action logged successfully", entry)
}

// List handles GET /api/action-log.
func (h *ActionLogHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.logs.List(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, "ok", entries)
}
