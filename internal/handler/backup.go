package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/homestock/internal/apperr"
	"github.com/dukerupert/homestock/internal/backup"
)

type BackupHandler struct {
	manager *backup.Manager
	logger  *slog.Logger
}

func NewBackupHandler(m *backup.Manager, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: m, logger: logger.With("component", "backup")}
}

// Run handles POST /api/backup.
func (h *BackupHandler) Run(w http.ResponseWriter, r *http.Request) {
	res, err := h.manager.RunNow(r.Context())
	switch {
	case errors.Is(err, backup.ErrDisabled):
		writeJSON(w, http.StatusServiceUnavailable, Envelope{Message: "Backup not configured"})
		return
	case errors.Is(err, backup.ErrInProgress):
		writeJSON(w, http.StatusConflict, Envelope{Message: "Backup already running"})
		return
	case err != nil:
		writeError(w, r, h.logger, apperr.Store("Backup failed", err))
		return
	}
	writeOK(w, "Backup uploaded", res)
}

// Status handles GET /api/backup/status.
func (h *BackupHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "ok", h.manager.Status())
}
