package handler

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dukerupert/homestock/internal/store"
)

// CatalogHandler serves the read-only vocabularies and the ID preview.
type CatalogHandler struct {
	catalog *store.CatalogStore
	inv     *store.InventoryStore
	shop    *store.ShoppingStore
	logger  *slog.Logger
}

func NewCatalogHandler(catalog *store.CatalogStore, inv *store.InventoryStore, shop *store.ShoppingStore, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, inv: inv, shop: shop, logger: logger.With("component", "catalog")}
}

// Goods handles GET /api/goods.
func (h *CatalogHandler) Goods(w http.ResponseWriter, r *http.Request) {
	goods, err := h.catalog.Goods(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, "ok", goods)
}

// Locations handles GET /api/locations.
func (h *CatalogHandler) Locations(w http.ResponseWriter, r *http.Request) {
	locs, err := h.catalog.Locations(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, "ok", locs)
}

type nextIDs struct {
	Inventory string `json:"inventory"`
	Shopping  string `json:"shopping"`
}

// NextIDs handles GET /api/next-ids. The values are a preview; writes
// allocate again.
func (h *CatalogHandler) NextIDs(w http.ResponseWriter, r *http.Request) {
	var ids nextIDs
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		id, err := h.inv.NextID(ctx)
		ids.Inventory = id
		return err
	})
	g.Go(func() error {
		id, err := h.shop.NextID(ctx)
		ids.Shopping = id
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, "ok", ids)
}
