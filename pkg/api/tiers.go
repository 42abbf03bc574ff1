package api

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/onboardkit/pkg/i18n"
	"github.com/dmitrymomot/onboardkit/pkg/tier"
)

type tierView struct {
	tier.Tier
	Narrative []string `json:"narrative"`
}

func viewTier(t tier.Tier, lang string) tierView {
	return tierView{Tier: t, Narrative: tier.Narrative(t.Key, lang)}
}

func (a *API) listTiers(r *http.Request, _ struct{}) Response {
	lang := i18n.GetLocale(r.Context())
	all := a.catalog.All()
	views := make([]tierView, 0, len(all))
	for _, t := range all {
		views = append(views, viewTier(t, lang))
	}
	return JSON(views, WithMeta(map[string]any{"language": lang}))
}

type tierKeyRequest struct {
	Key string `path:"key"`
}

func (a *API) getTier(r *http.Request, req tierKeyRequest) Response {
	t, err := a.catalog.Get(req.Key)
	if err != nil {
		return errorResponse(fmt.Errorf("%w: tier %q", ErrNotFound, req.Key))
	}
	return JSON(viewTier(t, i18n.GetLocale(r.Context())))
}

type compareRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
}

func (a *API) compareTiers(_ *http.Request, req compareRequest) Response {
	if req.From == "" || req.To == "" {
		return errorResponse(fmt.Errorf("%w: from and to are required", ErrInvalidRequest))
	}
	from, err := a.catalog.Get(req.From)
	if err != nil {
		return errorResponse(err)
	}
	to, err := a.catalog.Get(req.To)
	if err != nil {
		return errorResponse(err)
	}
	cmp := tier.Compare(from, to)
	return JSON(cmp, WithMeta(map[string]any{"downgrade": cmp.IsDowngrade()}))
}
