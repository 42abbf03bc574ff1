package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrymomot/onboardkit/pkg/file"
	"github.com/dmitrymomot/onboardkit/pkg/sanitizer"
)

// DevOutboxPrefix is the storage prefix DevSender writes under.
const DevOutboxPrefix = "outbox/"

// DevSender implements Sender for local development.
// It saves each message as .html, .txt and .json objects in file storage
// instead of sending them.
type DevSender struct {
	store file.Storage
	now   func() time.Time
}

// NewDevSender creates a development email sender backed by store.
func NewDevSender(store file.Storage) *DevSender {
	return &DevSender{store: store, now: time.Now}
}

// emailMetadata contains the email data saved to JSON (excluding bodies).
type emailMetadata struct {
	Timestamp string   `json:"timestamp"`
	To        []string `json:"to"`
	Cc        []string `json:"cc,omitempty"`
	Subject   string   `json:"subject"`
	Tag       string   `json:"tag,omitempty"`
}

// Send writes the message parts and returns the first storage error.
func (d *DevSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	now := d.now()
	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}
	base := path.Join(DevOutboxPrefix, fmt.Sprintf("%s_%s", now.Format("2006_01_02_150405"), devFilename(identifier)))

	meta, err := json.MarshalIndent(emailMetadata{
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		Cc:        msg.Cc,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}

	parts := []struct {
		ext, contentType string
		body             []byte
	}{
		{".json", "application/json", meta},
		{".txt", "text/plain; charset=utf-8", []byte(msg.Text)},
		{".html", "text/html; charset=utf-8", []byte(msg.HTML)},
	}
	for _, p := range parts {
		if len(p.body) == 0 {
			continue
		}
		if _, err := d.store.Put(ctx, base+p.ext, bytes.NewReader(p.body), file.WithContentType(p.contentType)); err != nil {
			return fmt.Errorf("%w: failed to write %s: %v", ErrFailedToSendEmail, p.ext, err)
		}
	}
	return nil
}

// devFilename lowercases and truncates a sanitized identifier.
func devFilename(s string) string {
	s = sanitizer.SanitizeFilename(strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(s))
	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	return strings.ToLower(s)
}
