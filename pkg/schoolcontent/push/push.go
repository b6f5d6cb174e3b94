// Package push sends Web Push notifications to subscribed browsers when new
// content is published.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

// Config holds VAPID material for the notifier.
type Config struct {
	Subscriber      string // mailto: contact address for the push services
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	TTL             int // seconds; 0 falls back to one day
}

// Notification is the payload delivered to subscribed browsers.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
	URL   string `json:"url,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// Notifier broadcasts notifications to all stored push subscriptions.
type Notifier struct {
	cfg    Config
	repo   schoolcontent.Repository
	logger *slog.Logger
}

// New creates a Notifier. VAPID keys are required.
func New(cfg Config, repo schoolcontent.Repository, logger *slog.Logger) (*Notifier, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, errors.New("VAPID key pair is required")
	}
	if cfg.Subscriber == "" {
		cfg.Subscriber = "mailto:admin@localhost"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 86400
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{cfg: cfg, repo: repo, logger: logger}, nil
}

// Broadcast sends the notification to every stored subscription. Endpoints
// the push service reports as gone (404 or 410) are removed from the store.
// Individual delivery failures are logged and do not abort the broadcast;
// the returned count is the number of successful deliveries.
func (n *Notifier) Broadcast(ctx context.Context, notification Notification) (int, error) {
	subs, err := n.repo.ListPushSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list push subscriptions: %w", err)
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return 0, fmt.Errorf("marshal notification: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		if err := n.send(ctx, payload, sub); err != nil {
			n.logger.Warn("push delivery failed",
				"endpoint", sub.Endpoint, "error", err)
			continue
		}
		sent++
	}

	return sent, nil
}

func (n *Notifier) send(ctx context.Context, payload []byte, sub *schoolcontent.PushSubscription) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      n.cfg.Subscriber,
		VAPIDPublicKey:  n.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: n.cfg.VAPIDPrivateKey,
		TTL:             n.cfg.TTL,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		// The browser dropped the subscription; forget it.
		if err := n.repo.DeletePushSubscription(ctx, sub.Endpoint); err != nil &&
			!errors.Is(err, schoolcontent.ErrSubscriptionNotFound) {
			n.logger.Warn("failed to prune stale push subscription",
				"endpoint", sub.Endpoint, "error", err)
		}
		return fmt.Errorf("subscription gone (status %d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned status %d", resp.StatusCode)
	}

	return nil
}
