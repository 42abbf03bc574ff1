package onboarding

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/onboardkit/pkg/i18n"
	"github.com/dmitrymomot/onboardkit/pkg/logger"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

// Output formats reported to a Recorder.
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Recorder observes finished renders. pkg/metrics provides the Prometheus
// implementation.
type Recorder interface {
	ObserveRender(format, tierKey, language string, elapsed time.Duration, err error)
}

// Engine turns FormData into localized text and HTML emails.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog    *tier.Catalog
	translator *i18n.Translator
	logger     *slog.Logger
	recorder   Recorder
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// NewEngine returns an Engine over catalog and translator.
func NewEngine(catalog *tier.Catalog, translator *i18n.Translator, opts ...Option) *Engine {
	e := &Engine{
		catalog:    catalog,
		translator: translator,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result bundles every artifact of one render.
type Result struct {
	Subject  string        `json:"subject"`
	Text     string        `json:"text"`
	HTML     string        `json:"html"`
	Filename string        `json:"filename"`
	Language string        `json:"language"`
	Sections []SectionKind `json:"sections"`
}

// BuildEmailBody renders the plain-text email.
func (e *Engine) BuildEmailBody(data FormData) (string, error) {
	start := time.Now()
	email, err := e.Compose(data)
	if err != nil {
		e.observe(FormatText, data, start, err)
		return "", err
	}
	out := RenderText(email)
	e.observe(FormatText, data, start, nil)
	return out, nil
}

// BuildEmailHTML renders the HTML email document.
func (e *Engine) BuildEmailHTML(ctx context.Context, data FormData) (string, error) {
	start := time.Now()
	email, err := e.Compose(data)
	if err != nil {
		e.observe(FormatHTML, data, start, err)
		return "", err
	}
	out, err := RenderHTML(ctx, email)
	e.observe(FormatHTML, data, start, err)
	return out, err
}

// Build composes once and renders both formats.
func (e *Engine) Build(ctx context.Context, data FormData) (*Result, error) {
	start := time.Now()
	email, err := e.Compose(data)
	if err != nil {
		e.observe(FormatText, data, start, err)
		e.observe(FormatHTML, data, start, err)
		return nil, err
	}

	text := RenderText(email)
	e.observe(FormatText, data, start, nil)

	html, err := RenderHTML(ctx, email)
	e.observe(FormatHTML, data, start, err)
	if err != nil {
		return nil, err
	}

	e.logger.DebugContext(ctx, "onboarding email built",
		logger.Tier(email.Tier.Key),
		logger.Language(email.Language),
		slog.Int("sections", len(email.Sections)),
	)

	return &Result{
		Subject:  email.Subject,
		Text:     text,
		HTML:     html,
		Filename: Filename(data.CompanyName),
		Language: email.Language,
		Sections: email.Kinds(),
	}, nil
}

// Languages lists the languages the engine can render, sorted.
func (e *Engine) Languages() []string {
	return e.translator.SupportedLanguages()
}

// Subject returns data.Subject or the localized default subject.
func (e *Engine) Subject(data FormData) (string, error) {
	t, err := e.catalog.Get(data.SelectedTier)
	if err != nil {
		return "", err
	}
	return e.subject(data, t, e.language(data.Language)), nil
}

// Filename is the suggested download name for the HTML email.
func Filename(companyName string) string {
	return strings.ReplaceAll(companyName, " ", "_") + "_Onboarding_Email.html"
}

// language resolves the render language: the requested one when the
// translator has it, the translator default otherwise.
func (e *Engine) language(requested string) string {
	if lang := i18n.NormalizeLanguage(requested); lang != "" && e.translator.Supports(lang) {
		return lang
	}
	return e.translator.DefaultLanguage()
}

func (e *Engine) observe(format string, data FormData, start time.Time, err error) {
	if err != nil && !errors.Is(err, tier.ErrUnknownTier) {
		e.logger.Error("render failed", slog.String("format", format), logger.Tier(data.SelectedTier), logger.Error(err))
	}
	if e.recorder != nil {
		e.recorder.ObserveRender(format, data.SelectedTier, e.language(data.Language), time.Since(start), err)
	}
}
