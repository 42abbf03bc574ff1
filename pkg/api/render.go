package api

import (
	"net/http"

	"github.com/dmitrymomot/onboardkit/pkg/email"
	"github.com/dmitrymomot/onboardkit/pkg/export"
	"github.com/dmitrymomot/onboardkit/pkg/i18n"
	"github.com/dmitrymomot/onboardkit/pkg/onboarding"
	"github.com/dmitrymomot/onboardkit/pkg/sanitizer"
)

// EmailTag labels onboarding emails at the delivery provider.
const EmailTag = "onboarding"

// prepare normalizes and validates data. A missing language becomes the one
// negotiated for the request; unsupported languages fall back at render time.
func prepare(r *http.Request, data onboarding.FormData) (onboarding.FormData, error) {
	data = data.Normalize()
	if data.Language == "" {
		data.Language = i18n.GetLocale(r.Context())
	}
	if err := data.Validate(); err != nil {
		return data, err
	}
	return data, nil
}

func (a *API) render(r *http.Request, data onboarding.FormData) Response {
	data, err := prepare(r, data)
	if err != nil {
		return errorResponse(err)
	}
	res, err := a.engine.Build(r.Context(), data)
	if err != nil {
		return errorResponse(err)
	}
	return JSON(res)
}

func (a *API) renderHTML(r *http.Request, data onboarding.FormData) Response {
	data, err := prepare(r, data)
	if err != nil {
		return errorResponse(err)
	}
	html, err := a.engine.BuildEmailHTML(r.Context(), data)
	if err != nil {
		return errorResponse(err)
	}
	return HTML(html)
}

func (a *API) renderText(r *http.Request, data onboarding.FormData) Response {
	data, err := prepare(r, data)
	if err != nil {
		return errorResponse(err)
	}
	text, err := a.engine.BuildEmailBody(data)
	if err != nil {
		return errorResponse(err)
	}
	return Text(text)
}

func (a *API) renderDownload(r *http.Request, data onboarding.FormData) Response {
	data, err := prepare(r, data)
	if err != nil {
		return errorResponse(err)
	}
	html, err := a.engine.BuildEmailHTML(r.Context(), data)
	if err != nil {
		return errorResponse(err)
	}
	return Attachment(html, "text/html; charset=utf-8", onboarding.Filename(data.CompanyName))
}

type exportResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

func (a *API) renderExport(r *http.Request, data onboarding.FormData) Response {
	if a.exporter == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	data, err := prepare(r, data)
	if err != nil {
		return errorResponse(err)
	}
	html, err := a.engine.BuildEmailHTML(r.Context(), data)
	if err != nil {
		return errorResponse(err)
	}
	filename := onboarding.Filename(data.CompanyName)
	u, err := a.exporter.Download(r.Context(), html, filename)
	if err != nil {
		return errorResponse(err)
	}
	return JSON(exportResponse{URL: u, Filename: filename}, WithStatus(http.StatusCreated))
}

type mailtoResponse struct {
	URL string `json:"url"`
}

func (a *API) renderMailto(r *http.Request, data onboarding.FormData) Response {
	data, err := prepare(r, data)
	if err != nil {
		return errorResponse(err)
	}
	subject, err := a.engine.Subject(data)
	if err != nil {
		return errorResponse(err)
	}
	return JSON(mailtoResponse{URL: export.MailtoURL(data.To, data.Cc, subject)})
}

type sendResponse struct {
	Subject string   `json:"subject"`
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
}

// renderSend delivers the email to To (or the contact email) and Cc.
func (a *API) renderSend(r *http.Request, data onboarding.FormData) Response {
	if a.exporter == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	data, err := prepare(r, data)
	if err != nil {
		return errorResponse(err)
	}
	res, err := a.engine.Build(r.Context(), data)
	if err != nil {
		return errorResponse(err)
	}

	to := sanitizer.SplitList(data.To)
	if len(to) == 0 && data.ContactEmail != "" {
		to = []string{data.ContactEmail}
	}
	msg := email.Message{
		To:      to,
		Cc:      sanitizer.SplitList(data.Cc),
		Subject: res.Subject,
		Text:    res.Text,
		HTML:    res.HTML,
		Tag:     EmailTag,
	}
	if err := a.exporter.Send(r.Context(), msg); err != nil {
		return errorResponse(err)
	}
	return JSON(sendResponse{Subject: msg.Subject, To: msg.To, Cc: msg.Cc}, WithStatus(http.StatusAccepted))
}
