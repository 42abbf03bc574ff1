package api

import (
	"net/http"

	"github.com/dmitrymomot/onboardkit/pkg/crm"
	"github.com/dmitrymomot/onboardkit/pkg/i18n"
	"github.com/dmitrymomot/onboardkit/pkg/onboarding"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

type customerInput struct {
	ID           string                     `json:"id,omitempty"`
	CompanyName  string                     `json:"companyName"`
	ContactName  string                     `json:"contactName,omitempty"`
	ContactEmail string                     `json:"contactEmail,omitempty"`
	TenantID     string                     `json:"tenantId,omitempty"`
	Tier         string                     `json:"tier"`
	Language     string                     `json:"language,omitempty"`
	Tenants      []onboarding.TenantRecord  `json:"tenants,omitempty"`
	Contacts     []onboarding.ContactRecord `json:"contacts,omitempty"`
	Notes        string                     `json:"notes,omitempty"`
}

func (in customerInput) customer() crm.Customer {
	return crm.Customer{
		ID:           in.ID,
		CompanyName:  in.CompanyName,
		ContactName:  in.ContactName,
		ContactEmail: in.ContactEmail,
		TenantID:     in.TenantID,
		Tier:         in.Tier,
		Language:     in.Language,
		Tenants:      in.Tenants,
		Contacts:     in.Contacts,
		Notes:        in.Notes,
	}
}

type customerPath struct {
	ID string `path:"id" json:"-"`
}

type customerUpdate struct {
	customerPath
	customerInput
}

func (a *API) listCustomers(r *http.Request, _ struct{}) Response {
	if a.customers == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	list, err := a.customers.List(r.Context())
	if err != nil {
		return errorResponse(err)
	}
	return JSON(list, WithMeta(map[string]any{"total": len(list)}))
}

func (a *API) createCustomer(r *http.Request, in customerInput) Response {
	if a.customers == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	c, err := a.customers.Create(r.Context(), in.customer())
	if err != nil {
		return errorResponse(err)
	}
	return JSON(c,
		WithStatus(http.StatusCreated),
		WithETag(c.ETag),
		WithHeader("Location", "/v1/customers/"+c.ID),
	)
}

func (a *API) getCustomer(r *http.Request, req customerPath) Response {
	if a.customers == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	c, err := a.customers.Get(r.Context(), req.ID)
	if err != nil {
		return errorResponse(err)
	}
	if notModified(r, c.ETag) {
		return notModifiedResponse(c.ETag)
	}
	return JSON(c, WithETag(c.ETag))
}

// updateCustomer replaces the record. The client must echo the ETag it read.
func (a *API) updateCustomer(r *http.Request, req customerUpdate) Response {
	if a.customers == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	etag := ifMatch(r)
	if etag == "" {
		return errorResponse(ErrPreconditionRequired)
	}
	c := req.customer()
	c.ID = req.customerPath.ID
	updated, err := a.customers.Update(r.Context(), c, etag)
	if err != nil {
		return errorResponse(err)
	}
	return JSON(updated, WithETag(updated.ETag))
}

func (a *API) deleteCustomer(r *http.Request, req customerPath) Response {
	if a.customers == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	if err := a.customers.Delete(r.Context(), req.ID); err != nil {
		return errorResponse(err)
	}
	return NoContent()
}

type tierChangeRequest struct {
	customerPath
	Tier string `json:"tier"`
}

type tierChangeResponse struct {
	Customer   *crm.Customer   `json:"customer"`
	Comparison tier.Comparison `json:"comparison"`
}

// changeTier moves the customer to another tier. If-Match is optional here;
// when present a stale value fails with 412.
func (a *API) changeTier(r *http.Request, req tierChangeRequest) Response {
	if a.customers == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	c, cmp, err := a.customers.ChangeTier(r.Context(), req.ID, req.Tier, ifMatch(r))
	if err != nil {
		return errorResponse(err)
	}
	return JSON(tierChangeResponse{Customer: c, Comparison: cmp},
		WithETag(c.ETag),
		WithMeta(map[string]any{"downgrade": cmp.IsDowngrade()}),
	)
}

type customerEmailRequest struct {
	customerPath
	Lang string `query:"lang"`
}

// customerEmail renders the onboarding email prefilled from the record.
func (a *API) customerEmail(r *http.Request, req customerEmailRequest) Response {
	if a.customers == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	c, err := a.customers.Get(r.Context(), req.ID)
	if err != nil {
		return errorResponse(err)
	}
	data := c.FormData()
	switch {
	case req.Lang != "":
		data.Language = req.Lang
	case data.Language == "":
		data.Language = i18n.GetLocale(r.Context())
	}
	res, err := a.engine.Build(r.Context(), data.Normalize())
	if err != nil {
		return errorResponse(err)
	}
	return JSON(res, WithETag(c.ETag))
}

type notModifiedResponse string

func (n notModifiedResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("ETag", quoteETag(string(n)))
	w.WriteHeader(http.StatusNotModified)
	return nil
}
