package collection

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/treyfatech/sitecms/internal/auth"
	"github.com/treyfatech/sitecms/internal/transport"
	"github.com/treyfatech/sitecms/pkg/logger"
)

type ServiceAPI interface {
	Label() string
	List() ([]Item, error)
	Add(item Item, actor *auth.Actor) (Item, error)
	Update(id string, patch Item, actor *auth.Actor) (Item, error)
	Delete(id string, actor *auth.Actor) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// ListItems is public and returns the bare item array.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var item Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Add(item, actor)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": h.Service.Label() + " item added successfully",
		"item":    created,
	})
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var patch Item
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.Update(id, patch, actor)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": h.Service.Label() + " item updated successfully",
		"item":    updated,
	})
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.Service.Delete(id, actor); err != nil {
		h.serviceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": h.Service.Label() + " item deleted successfully",
	})
}

func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrCollectionMissing) {
		h.WriteError(w, http.StatusNotFound, h.Service.Label()+" not found")
		return
	}
	h.HandleServiceError(w, err)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return actor, true
}
