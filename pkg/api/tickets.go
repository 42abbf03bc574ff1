package api

import (
	"net/http"

	"github.com/dmitrymomot/onboardkit/pkg/crm"
	"github.com/dmitrymomot/onboardkit/pkg/tickets"
)

type ticketsResponse struct {
	Tickets   []tickets.Ticket  `json:"tickets"`
	Allowance tickets.Allowance `json:"allowance"`
}

// allowance loads the customer, its tickets and what its tier still permits
// in the current period.
func (a *API) allowance(r *http.Request, id string) (*crm.Customer, []tickets.Ticket, tickets.Allowance, error) {
	c, err := a.customers.Get(r.Context(), id)
	if err != nil {
		return nil, nil, tickets.Allowance{}, err
	}
	t, err := a.catalog.Get(c.Tier)
	if err != nil {
		return nil, nil, tickets.Allowance{}, err
	}
	since := tickets.PeriodStart(a.now())
	list, err := a.tickets.List(r.Context(), tickets.Filter{CustomerID: c.ID, Since: since})
	if err != nil {
		return nil, nil, tickets.Allowance{}, err
	}
	return c, list, tickets.AllowanceFor(t, list, since), nil
}

func (a *API) listTickets(r *http.Request, req customerPath) Response {
	if a.customers == nil || a.tickets == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	_, list, allowance, err := a.allowance(r, req.ID)
	if err != nil {
		return errorResponse(err)
	}
	if list == nil {
		list = []tickets.Ticket{}
	}
	return JSON(ticketsResponse{Tickets: list, Allowance: allowance})
}

type ticketRequest struct {
	customerPath
	TenantID    string `json:"tenantId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Severity    string `json:"severity"`
	Requester   string `json:"requester,omitempty"`
}

// createTicket opens a ticket if the customer's tier covers its severity and
// the yearly allowance is not used up.
func (a *API) createTicket(r *http.Request, req ticketRequest) Response {
	if a.customers == nil || a.tickets == nil {
		return errorResponse(ErrFeatureDisabled)
	}
	c, _, allowance, err := a.allowance(r, req.ID)
	if err != nil {
		return errorResponse(err)
	}
	if err := allowance.Check(req.Severity); err != nil {
		return errorResponse(err)
	}

	tenantID := req.TenantID
	if tenantID == "" {
		tenantID = c.TenantID
	}
	requester := req.Requester
	if requester == "" {
		requester = c.ContactEmail
	}
	tk, err := a.tickets.Create(r.Context(), tickets.NewTicket{
		CustomerID:  c.ID,
		TenantID:    tenantID,
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		Requester:   requester,
	})
	if err != nil {
		return errorResponse(err)
	}
	return JSON(tk, WithStatus(http.StatusCreated))
}
