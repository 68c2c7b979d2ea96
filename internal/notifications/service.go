package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bilingo/internal/config"
)

const userAgent = "bilingo/0.1.0"

// Event names a notification type.
type Event string

const (
	EventRunCompleted Event = "run_completed"
	EventRunFailed    Event = "run_failed"
	EventTest         Event = "test"
)

// Payload carries event fields. Unknown keys are ignored.
type Payload map[string]string

// Service publishes run events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg config.Notify) Service {
	topic := strings.TrimSpace(cfg.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	field := func(key string) string { return strings.TrimSpace(payload[key]) }
	switch event {
	case EventRunCompleted:
		body := fmt.Sprintf("🎞️ %s slides from %s ready", field("slides"), field("input"))
		if length := field("length"); length != "" {
			body += " (" + length + ")"
		}
		if output := field("output"); output != "" {
			body += "\nFile: " + output
		}
		if url := field("url"); url != "" {
			body += "\nUploaded: " + url
		}
		return message{
			title: "bilingo - Slideshow Ready",
			body:  body,
			tags:  []string{"bilingo", "run", "completed"},
		}, true
	case EventRunFailed:
		body := "❌ Generation failed"
		if input := field("input"); input != "" {
			body += " for " + input
		}
		body += ": "
		if errText := field("error"); errText != "" {
			body += errText
		} else {
			body += "unknown"
		}
		return message{
			title:    "bilingo - Error",
			body:     body,
			tags:     []string{"bilingo", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "bilingo - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"bilingo", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
