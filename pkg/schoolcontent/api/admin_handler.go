package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

// AdminHandler serves the authenticated content management endpoints.
type AdminHandler struct {
	service schoolcontent.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service schoolcontent.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// Routes returns the cross-kind admin content routes. Callers are expected
// to mount them behind the admin session middleware.
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/content-posts", h.ListContentPosts)
	r.Post("/content-posts", h.CreateContentPost)
	r.Put("/content-posts", h.UpdateContentPost)
	r.Put("/content-posts/{id}", h.UpdateContentPost)
	r.Delete("/content-posts/{id}", h.DeleteContentPost)

	return r
}

// KindRoutes registers write endpoints for one kind on r, next to the public
// read routes: the kind comes from the path instead of the body. The param
// name matches the read routes because chi requires one name per segment.
func (h *AdminHandler) KindRoutes(r chi.Router, path string, kind schoolcontent.Kind) {
	r.Post("/"+path, h.create(kind))
	r.Put("/"+path+"/{idOrSlug}", h.update(kind))
	r.Delete("/"+path+"/{idOrSlug}", h.delete(kind))
}

// urlID reads the post id param from either the admin {id} form or the
// shared {idOrSlug} form. Empty when the route carries no id.
func urlID(r *http.Request) string {
	if param := chi.URLParam(r, "id"); param != "" {
		return param
	}
	return chi.URLParam(r, "idOrSlug")
}

// PostPayload carries the writable post row fields. ID is only read on
// updates addressed by body instead of path.
type PostPayload struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	AuthorName  string     `json:"authorName"`
	PublishedAt *time.Time `json:"publishedAt"`
	EventName   string     `json:"eventName"`
	EventLevel  string     `json:"eventLevel"`
	Rank        string     `json:"rank"`
	AchievedAt  *time.Time `json:"achievedAt"`
	EventDate   *time.Time `json:"eventDate"`
	FileURL     string     `json:"fileUrl"`
	FileType    string     `json:"fileType"`
	FileSizeKB  int64      `json:"fileSizeKb"`
	IsPublished *bool      `json:"isPublished"`
	IsPinned    *bool      `json:"isPinned"`
}

// WriteRequest is the admin write body: the post row plus an optional media
// list. An absent media key leaves existing media untouched; an empty list
// clears it.
type WriteRequest struct {
	Post  PostPayload                `json:"post"`
	Media []*schoolcontent.MediaItem `json:"media"`
}

func (req *WriteRequest) toCreateRequest(kind schoolcontent.Kind) schoolcontent.CreatePostRequest {
	if kind == "" {
		kind = schoolcontent.Kind(req.Post.Type)
	}
	return schoolcontent.CreatePostRequest{
		Kind:        kind,
		Title:       req.Post.Title,
		Slug:        req.Post.Slug,
		Excerpt:     req.Post.Excerpt,
		Content:     req.Post.Content,
		AuthorName:  req.Post.AuthorName,
		PublishedAt: req.Post.PublishedAt,
		EventName:   req.Post.EventName,
		EventLevel:  req.Post.EventLevel,
		Rank:        req.Post.Rank,
		AchievedAt:  req.Post.AchievedAt,
		EventDate:   req.Post.EventDate,
		FileURL:     req.Post.FileURL,
		FileType:    req.Post.FileType,
		FileSizeKB:  req.Post.FileSizeKB,
		IsPublished: req.Post.IsPublished,
		IsPinned:    req.Post.IsPinned,
		Media:       req.Media,
	}
}

// ListContentPosts lists posts of one kind, or the combined cross-kind feed
// when type is "all" or absent.
func (h *AdminHandler) ListContentPosts(w http.ResponseWriter, r *http.Request) {
	kind := schoolcontent.Kind(r.URL.Query().Get("type"))

	if kind == "" || kind == schoolcontent.KindAll {
		posts, err := h.service.ListAllContent(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		render.JSON(w, r, schoolcontent.PostList{Items: posts, Total: len(posts)})
		return
	}

	req := schoolcontent.ListPostsRequest{Kind: kind}
	req.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	req.PageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))

	list, err := h.service.ListPosts(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, list)
}

// CreateContentPost creates a post and its media in one request. The kind
// comes from the post.type field.
func (h *AdminHandler) CreateContentPost(w http.ResponseWriter, r *http.Request) {
	h.create("")(w, r)
}

// UpdateContentPost replaces a post's mutable fields and, when a media key
// is present, its media set. The post id comes from the {id} path param or,
// on the bare route, from post.id in the body.
func (h *AdminHandler) UpdateContentPost(w http.ResponseWriter, r *http.Request) {
	h.update("")(w, r)
}

// DeleteContentPost deletes a post and every media item attached to it.
// The kind comes from the type query parameter.
func (h *AdminHandler) DeleteContentPost(w http.ResponseWriter, r *http.Request) {
	kind := schoolcontent.Kind(r.URL.Query().Get("type"))
	if kind == "" {
		respondError(w, r, http.StatusBadRequest, "type is required")
		return
	}
	h.delete(kind)(w, r)
}

func (h *AdminHandler) create(kind schoolcontent.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		post, err := h.service.CreatePost(r.Context(), req.toCreateRequest(kind))
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, post)
	}
}

func (h *AdminHandler) update(kind schoolcontent.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WriteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		// The id comes from the path when present, from post.id otherwise.
		id := req.Post.ID
		if param := urlID(r); param != "" {
			parsed, err := uuid.Parse(param)
			if err != nil {
				respondError(w, r, http.StatusBadRequest, "invalid post id")
				return
			}
			id = parsed
		}
		if id == uuid.Nil {
			respondError(w, r, http.StatusBadRequest, "id is required")
			return
		}

		post, err := h.service.UpdatePost(r.Context(), schoolcontent.UpdatePostRequest{
			ID:                id,
			CreatePostRequest: req.toCreateRequest(kind),
		})
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		render.JSON(w, r, post)
	}
}

func (h *AdminHandler) delete(kind schoolcontent.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(urlID(r))
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "invalid post id")
			return
		}

		if err := h.service.DeletePost(r.Context(), kind, id); err != nil {
			respondServiceError(w, r, err)
			return
		}

		render.JSON(w, r, map[string]bool{"success": true})
	}
}
