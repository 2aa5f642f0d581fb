package blog

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
	Create(dto CreatePostDTO, author *auth.Actor) (*Post, error)
	Get(id int64) (*Post, error)
	List(q ListQuery) ([]*Post, *Pagination, error)
	Update(id int64, dto UpdatePostDTO, actor *auth.Actor) (*Post, error)
	Delete(id int64, actor *auth.Actor) error
	Meta() (*Meta, error)
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

// ListPosts is public; without a status filter it returns every post.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 10),
	}

	posts, pagination, err := h.Service.List(q)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"posts":      posts,
		"pagination": pagination,
	})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.Service.Get(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var dto CreatePostDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.Service.Create(dto, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Blog post created successfully",
		"post":    post,
	})
}

func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	var dto UpdatePostDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.Service.Update(id, dto, actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Blog post updated successfully",
		"post":    post,
	})
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	id, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id, actor); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Blog post deleted successfully",
	})
}

// GetCategories returns the bare array of distinct categories.
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	meta, err := h.Service.Meta()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, meta.Categories)
}

// GetTags returns the bare array of distinct tags.
func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	meta, err := h.Service.Meta()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, meta.Tags)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (*auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return actor, true
}

func (h *Handler) postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid post ID")
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
