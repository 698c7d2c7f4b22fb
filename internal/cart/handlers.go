package cart

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-galeri/internal/catalog"
	"github.com/noah-isme/backend-galeri/internal/common"
	"github.com/noah-isme/backend-galeri/internal/events"
)

// Handler wires the cart registry to HTTP.
type Handler struct {
	Registry *Registry
	Catalog  *catalog.Service
	Events   *events.Bus
	Currency string
}

// Create registers a new empty cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart registry not configured", nil)
		return
	}
	id, store := h.Registry.Create()
	common.JSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"cartId":   id,
			"cart":     store.State(),
			"currency": h.Currency,
		},
	})
}

// Get returns the current cart state.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	store, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	h.writeState(w, cartID, store.State())
}

// AddItem puts a catalog image into the cart. Adding an image already in the
// cart leaves it untouched.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	store, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	if h.Catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	var payload struct {
		ImageID string `json:"imageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.ImageID = strings.TrimSpace(payload.ImageID)
	if payload.ImageID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "imageId is required", nil)
		return
	}
	item, found := h.Catalog.Lookup(payload.ImageID)
	if !found {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "image not found", nil)
		return
	}
	state := store.Add(item)
	h.emit(r, events.TopicCartItemAdded, cartID, map[string]any{
		"imageId": item.ID,
		"total":   state.TotalCost,
	})
	h.writeState(w, cartID, state)
}

// RemoveItem deletes a line item. Removing an absent item succeeds with the
// unchanged cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "itemId")
	state := store.Remove(itemID)
	h.emit(r, events.TopicCartItemRemoved, cartID, map[string]any{
		"imageId": itemID,
		"total":   state.TotalCost,
	})
	h.writeState(w, cartID, state)
}

// UpdateQuantity adjusts a line item quantity. The payload carries either an
// op ("increment" or "decrement") or an explicit qty. Quantity changes for
// ids not in the cart are absorbed as no-ops by the store.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	store, cartID, ok := h.resolveCart(w, r)
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "itemId")
	var payload struct {
		Op  string `json:"op"`
		Qty *int   `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	var state State
	switch strings.ToLower(strings.TrimSpace(payload.Op)) {
	case "increment":
		state = store.IncrementQuantity(itemID)
	case "decrement":
		state = store.DecrementQuantity(itemID)
	case "":
		if payload.Qty == nil {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "op or qty is required", nil)
			return
		}
		state = store.SetQuantity(itemID, *payload.Qty)
	default:
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "op must be increment or decrement", nil)
		return
	}
	h.writeState(w, cartID, state)
}

func (h *Handler) resolveCart(w http.ResponseWriter, r *http.Request) (*Store, string, bool) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "cart registry not configured", nil)
		return nil, "", false
	}
	cartID := chi.URLParam(r, "id")
	store, ok := h.Registry.Get(cartID)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
		return nil, "", false
	}
	return store, cartID, true
}

func (h *Handler) writeState(w http.ResponseWriter, cartID string, state State) {
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"cartId":   cartID,
			"cart":     state,
			"currency": h.Currency,
		},
	})
}

func (h *Handler) emit(r *http.Request, topic, cartID string, payload map[string]any) {
	if h.Events == nil {
		return
	}
	_, _ = h.Events.Emit(r.Context(), topic, cartID, payload)
}
