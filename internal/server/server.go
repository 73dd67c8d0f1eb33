package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/homestock/internal/backup"
	"github.com/dukerupert/homestock/internal/handler"
	"github.com/dukerupert/homestock/internal/middleware"
	"github.com/dukerupert/homestock/internal/sheet"
	"github.com/dukerupert/homestock/internal/store"
	ws "github.com/dukerupert/homestock/internal/websocket"
)

const (
	writeLimit  = 30
	writeWindow = time.Minute
)

type Options struct {
	Timezone *time.Location
	Backup   backup.Config
}

type Server struct {
	hub           *ws.Hub
	inventoryH    *handler.InventoryHandler
	shoppingH     *handler.ShoppingHandler
	actionLogH    *handler.ActionLogHandler
	catalogH      *handler.CatalogHandler
	backupH       *handler.BackupHandler
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

// New wires stores, handlers and background services around src.
func New(src sheet.Store, opts Options, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger)

	inventoryStore := store.NewInventoryStore(src)
	shoppingStore := store.NewShoppingStore(src)
	catalogStore := store.NewCatalogStore(src)
	actionLogStore := store.NewActionLogStore(src, catalogStore, opts.Timezone)
	promoter := &store.Promoter{Inventory: inventoryStore, Shopping: shoppingStore, Catalog: catalogStore}

	backupMgr := backup.NewManager(opts.Backup, src, store.Layouts(), logger, func(s backup.Status) {
		hub.Broadcast(ws.NewChange("backup", string(s.State), "", s))
	})

	return &Server{
		hub:           hub,
		inventoryH:    handler.NewInventoryHandler(inventoryStore, hub, logger),
		shoppingH:     handler.NewShoppingHandler(shoppingStore, promoter, hub, logger),
		actionLogH:    handler.NewActionLogHandler(actionLogStore, hub, logger),
		catalogH:      handler.NewCatalogHandler(catalogStore, inventoryStore, shoppingStore, logger),
		backupH:       handler.NewBackupHandler(backupMgr, logger),
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

func (s *Server) Hub() *ws.Hub { return s.hub }

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter { return s.rateLimiter }

func (s *Server) BackupManager() *backup.Manager { return s.backupManager }

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Write routes answer at both the bare and /api paths. They carry no
	// method in the pattern so PostOnly can send the 405 envelope.
	writes := map[string]http.HandlerFunc{
		"add-data":    s.inventoryH.Add,
		"update-data": s.inventoryH.UpdateQuantity,
		"consume":     s.inventoryH.Consume,
		"add-to-buy":  s.shoppingH.Dispatch,
		"log-action":  s.actionLogH.Log,
	}
	for name, h := range writes {
		wrapped := s.writeHandler(h)
		mux.Handle("/"+name, wrapped)
		mux.Handle("/api/"+name, wrapped)
	}

	mux.HandleFunc("GET /api/inventory", s.inventoryH.List)
	mux.HandleFunc("GET /api/to-buy", s.shoppingH.List)
	mux.HandleFunc("GET /api/goods", s.catalogH.Goods)
	mux.HandleFunc("GET /api/locations", s.catalogH.Locations)
	mux.HandleFunc("GET /api/next-ids", s.catalogH.NextIDs)
	mux.HandleFunc("GET /api/action-log", s.actionLogH.List)

	mux.Handle("POST /api/backup", s.rateLimited(s.backupH.Run))
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)

	mux.HandleFunc("GET /ws", ws.Handler(s.hub))
	mux.HandleFunc("GET /health", handler.Health)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) writeHandler(h http.HandlerFunc) http.Handler {
	return handler.PostOnly(s.rateLimited(h).ServeHTTP)
}

func (s *Server) rateLimited(h http.HandlerFunc) http.Handler {
	return middleware.RateLimit(s.rateLimiter, middleware.RealIP, writeLimit, writeWindow)(h)
}
