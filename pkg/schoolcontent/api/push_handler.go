package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
	"github.com/sekolahkita/school-content/pkg/schoolcontent/push"
)

// PushHandler serves Web Push subscription endpoints and the admin broadcast.
type PushHandler struct {
	service  schoolcontent.Service
	notifier *push.Notifier
	vapidKey string
}

// NewPushHandler creates a new push handler. The notifier may be nil when
// push delivery is not configured; subscription storage still works.
func NewPushHandler(service schoolcontent.Service, notifier *push.Notifier, vapidPublicKey string) *PushHandler {
	return &PushHandler{service: service, notifier: notifier, vapidKey: vapidPublicKey}
}

// Routes returns the public push subscription routes.
func (h *PushHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/public-key", h.PublicKey)
	r.Post("/subscribe", h.Subscribe)
	r.Delete("/subscribe", h.Unsubscribe)
	return r
}

// SubscribeRequest mirrors the browser PushSubscription JSON shape.
type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// PublicKey returns the VAPID public key browsers need to subscribe.
func (h *PushHandler) PublicKey(w http.ResponseWriter, r *http.Request) {
	if h.vapidKey == "" {
		respondError(w, r, http.StatusNotFound, "push notifications are not configured")
		return
	}
	render.JSON(w, r, map[string]string{"publicKey": h.vapidKey})
}

// Subscribe stores a push subscription, upserting on endpoint.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		respondError(w, r, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub := &schoolcontent.PushSubscription{
		ID:        uuid.New(),
		Endpoint:  req.Endpoint,
		P256dh:    req.Keys.P256dh,
		Auth:      req.Keys.Auth,
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.service.SubscribePush(r.Context(), sub); err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]bool{"success": true})
}

// Unsubscribe removes the subscription for the endpoint in the body.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		respondError(w, r, http.StatusBadRequest, "endpoint is required")
		return
	}

	if err := h.service.UnsubscribePush(r.Context(), req.Endpoint); err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]bool{"success": true})
}

// BroadcastRequest is the admin notification payload.
type BroadcastRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Broadcast sends a notification to every stored subscription. Mounted under
// the admin routes.
func (h *PushHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	if h.notifier == nil {
		respondError(w, r, http.StatusServiceUnavailable, "push notifications are not configured")
		return
	}

	var req BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		respondError(w, r, http.StatusBadRequest, "title is required")
		return
	}

	sent, err := h.notifier.Broadcast(r.Context(), push.Notification{
		Title: req.Title,
		Body:  req.Body,
		URL:   req.URL,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]int{"sent": sent})
}
