package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/dmitrymomot/onboardkit/pkg/email"
	"github.com/dmitrymomot/onboardkit/pkg/file"
	"github.com/dmitrymomot/onboardkit/pkg/logger"
	"github.com/dmitrymomot/onboardkit/pkg/sanitizer"
)

// DownloadPrefix is the storage prefix for downloaded emails.
const DownloadPrefix = "exports/"

// Export actions reported to a Recorder.
const (
	ActionClipboard = "clipboard"
	ActionDownload  = "download"
	ActionMailto    = "mailto"
	ActionSend      = "send"
)

// Recorder observes finished export actions.
type Recorder interface {
	ObserveExport(action string, err error)
}

// Exporter is the export adapter. Targets that are not configured return
// ErrNotConfigured.
type Exporter struct {
	clipboard Clipboard
	opener    Opener
	store     file.Storage
	sender    email.Sender
	logger    *slog.Logger
	recorder  Recorder
}

type Option func(*Exporter)

func WithClipboard(c Clipboard) Option { return func(e *Exporter) { e.clipboard = c } }
func WithOpener(o Opener) Option { return func(e *Exporter) { e.opener = o } }
func WithStorage(s file.Storage) Option { return func(e *Exporter) { e.store = s } }
func WithSender(s email.Sender) Option { return func(e *Exporter) { e.sender = s } }
func WithRecorder(r Recorder) Option { return func(e *Exporter) { e.recorder = r } }

func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{logger: logger.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CopyFormatted places html and plain on the clipboard together, so targets
// without rich text support still paste the plain version. When the backend
// holds a single representation only the plain text is placed. A failed
// write is retried with plain text alone; if that fails too the error wraps
// ErrClipboardWrite.
func (e *Exporter) CopyFormatted(ctx context.Context, html, plain string) (err error) {
	defer func() { e.observe(ctx, ActionClipboard, err) }()

	if e.clipboard == nil {
		return fmt.Errorf("%w: clipboard", ErrNotConfigured)
	}

	writeErr := e.clipboard.Write(ctx, Content{HTML: html, Plain: plain})
	switch {
	case writeErr == nil:
		return nil
	case errors.Is(writeErr, ErrRichUnsupported):
		e.logger.DebugContext(ctx, "clipboard holds plain text only, html dropped",
			logger.Component("export"), logger.Error(writeErr))
		return nil
	}
	e.logger.WarnContext(ctx, "clipboard write failed, retrying with plain text",
		logger.Component("export"), logger.Error(writeErr))

	if plainErr := e.clipboard.Write(ctx, Content{Plain: plain}); plainErr != nil {
		return errors.Join(ErrClipboardWrite, writeErr, plainErr)
	}
	return nil
}

// Download stores html under DownloadPrefix and returns its public URL.
func (e *Exporter) Download(ctx context.Context, html, filename string) (u string, err error) {
	defer func() { e.observe(ctx, ActionDownload, err) }()

	if e.store == nil {
		return "", fmt.Errorf("%w: storage", ErrNotConfigured)
	}

	key := path.Join(DownloadPrefix, sanitizer.SanitizeFilename(filename))
	obj, err := e.store.Put(ctx, key, strings.NewReader(html), file.WithContentType("text/html; charset=utf-8"))
	if err != nil {
		return "", err
	}
	return e.store.URL(obj.Key), nil
}

// MailtoURL builds a mailto: URI with recipients, cc and subject. The body is
// left out; the user pastes the copied email.
func MailtoURL(to, cc, subject string) string {
	var b strings.Builder
	b.WriteString("mailto:")
	b.WriteString(encodeAddresses(to))

	var query []string
	if c := encodeAddresses(cc); c != "" {
		query = append(query, "cc="+c)
	}
	if subject != "" {
		query = append(query, "subject="+encodeComponent(subject))
	}
	if len(query) > 0 {
		b.WriteString("?")
		b.WriteString(strings.Join(query, "&"))
	}
	return b.String()
}

// OpenInMailClient opens the mailto: URI and returns it.
func (e *Exporter) OpenInMailClient(ctx context.Context, to, cc, subject string) (uri string, err error) {
	defer func() { e.observe(ctx, ActionMailto, err) }()

	uri = MailtoURL(to, cc, subject)
	if e.opener == nil {
		return uri, fmt.Errorf("%w: opener", ErrNotConfigured)
	}
	if err := e.opener.Open(ctx, uri); err != nil {
		return uri, err
	}
	return uri, nil
}

// Send delivers msg through the configured sender.
func (e *Exporter) Send(ctx context.Context, msg email.Message) (err error) {
	defer func() { e.observe(ctx, ActionSend, err) }()

	if e.sender == nil {
		return fmt.Errorf("%w: sender", ErrNotConfigured)
	}
	return e.sender.Send(ctx, msg)
}

func (e *Exporter) observe(ctx context.Context, action string, err error) {
	if err != nil {
		e.logger.ErrorContext(ctx, "export failed",
			logger.Component("export"), slog.String("action", action), logger.Error(err))
	}
	if e.recorder != nil {
		e.recorder.ObserveExport(action, err)
	}
}

func encodeAddresses(list string) string {
	addrs := sanitizer.SplitList(list)
	for i, a := range addrs {
		addrs[i] = url.PathEscape(a)
	}
	return strings.Join(addrs, ",")
}

// encodeComponent escapes like JavaScript's encodeURIComponent.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
