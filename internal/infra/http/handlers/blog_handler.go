package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/elevenxsolutions/elevenx-api/internal/infra/http/middleware"
	"github.com/elevenxsolutions/elevenx-api/internal/infra/integration/wordpress"
)

// BlogHandler proxies the headless CMS so the browser talks to one origin.
type BlogHandler struct {
	CMS *wordpress.Client
}

func NewBlogHandler(cms *wordpress.Client) *BlogHandler {
	return &BlogHandler{CMS: cms}
}

func (h *BlogHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 9)
	category := queryInt(r, "category", 0)

	posts, err := h.CMS.ListPosts(r.Context(), page, perPage, category)
	if err != nil {
		log.Printf("cms list posts failed: %v", err)
		middleware.RecordIntegrationError("cms")
		writeErrorResponse(w, http.StatusInternalServerError, "CMS_ERROR", "failed to load posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *BlogHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.CMS.GetPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, wordpress.ErrPostNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "post not found")
			return
		}
		log.Printf("cms get post failed: %v", err)
		middleware.RecordIntegrationError("cms")
		writeErrorResponse(w, http.StatusInternalServerError, "CMS_ERROR", "failed to load post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CMS.ListCategories(r.Context())
	if err != nil {
		log.Printf("cms list categories failed: %v", err)
		middleware.RecordIntegrationError("cms")
		writeErrorResponse(w, http.StatusInternalServerError, "CMS_ERROR", "failed to load categories")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
