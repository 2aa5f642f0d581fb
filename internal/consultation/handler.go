package consultation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/treyfatech/sitecms/internal/auth"
	"github.com/treyfatech/sitecms/internal/transport"
	"github.com/treyfatech/sitecms/pkg/logger"
)

type ServiceAPI interface {
	Create(dto CreateConsultationDTO) (*Consultation, error)
	List(q ListQuery, permissions []string) ([]*Consultation, *Pagination, error)
	Get(id int64, permissions []string) (*Consultation, error)
	UpdateStatus(id int64, dto UpdateStatusDTO, actorID int64, permissions []string) (*Consultation, error)
	AddFollowUp(id int64, dto CreateFollowUpDTO, actorID int64, permissions []string) (*Consultation, error)
	UpdateFollowUp(id int64, followUpID string, dto UpdateFollowUpDTO, permissions []string) (*Consultation, error)
	Stats(permissions []string) (*Stats, error)
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

// CreateConsultation handles the public submission form; no credential needed.
func (h *Handler) CreateConsultation(w http.ResponseWriter, r *http.Request) {
	var dto CreateConsultationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Consultation request submitted successfully",
		"consultation": c,
	})
}

func (h *Handler) ListConsultations(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	q := ListQuery{
		Status: r.URL.Query().Get("status"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
	}

	items, pagination, err := h.Service.List(q, actor.Permissions)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"consultations": items,
		"pagination":    pagination,
	})
}

func (h *Handler) GetConsultation(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.consultationID(w, r)
	if !ok {
		return
	}

	c, err := h.Service.Get(id, actor.Permissions)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.consultationID(w, r)
	if !ok {
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.UpdateStatus(id, dto, actor.ID, actor.Permissions)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Consultation status updated successfully",
		"consultation": c,
	})
}

func (h *Handler) AddFollowUp(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.consultationID(w, r)
	if !ok {
		return
	}

	var dto CreateFollowUpDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.AddFollowUp(id, dto, actor.ID, actor.Permissions)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Follow-up added successfully",
		"consultation": c,
	})
}

func (h *Handler) UpdateFollowUp(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.consultationID(w, r)
	if !ok {
		return
	}

	followUpID := chi.URLParam(r, "followupId")

	var dto UpdateFollowUpDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.UpdateFollowUp(id, followUpID, dto, actor.Permissions)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Follow-up updated successfully",
		"consultation": c,
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	stats, err := h.Service.Stats(actor.Permissions)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return actor, true
}

func (h *Handler) consultationID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid consultation ID")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return def
}
