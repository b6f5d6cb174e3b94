package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

// ContentHandler serves the public read endpoints for every content kind.
type ContentHandler struct {
	service schoolcontent.Service
}

// NewContentHandler creates a new content handler
func NewContentHandler(service schoolcontent.Service) *ContentHandler {
	return &ContentHandler{service: service}
}

// kindPaths maps URL path segments to content kinds, in route order.
var kindPaths = []struct {
	Path string
	Kind schoolcontent.Kind
}{
	{"news", schoolcontent.KindNews},
	{"publications", schoolcontent.KindPublication},
	{"achievements", schoolcontent.KindAchievement},
	{"galleries", schoolcontent.KindGallery},
	{"downloads", schoolcontent.KindDownload},
}

// Register adds the public read routes to r. Each kind gets a list and a
// detail endpoint; publications accept a ?type= filter and achievements a
// ?level= filter.
func (h *ContentHandler) Register(r chi.Router) {
	for _, kp := range kindPaths {
		r.Get("/"+kp.Path, h.list(kp.Kind))
		r.Get("/"+kp.Path+"/{idOrSlug}", h.detail(kp.Kind))
	}
}

func (h *ContentHandler) list(kind schoolcontent.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := schoolcontent.ListPostsRequest{
			Kind:  kind,
			Type:  r.URL.Query().Get("type"),
			Level: r.URL.Query().Get("level"),
		}
		req.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
		req.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

		list, err := h.service.ListPosts(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		render.JSON(w, r, list)
	}
}

func (h *ContentHandler) detail(kind schoolcontent.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idOrSlug := chi.URLParam(r, "idOrSlug")
		if idOrSlug == "" {
			respondError(w, r, http.StatusBadRequest, "id or slug is required")
			return
		}

		post, err := h.service.GetPost(r.Context(), kind, idOrSlug)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		render.JSON(w, r, post)
	}
}
