package tier

import "slices"

// Limit names a tier quota.
type Limit string

const (
	LimitTenants            Limit = "tenants"
	LimitAuthorizedContacts Limit = "authorizedContacts"
	LimitSupportRequests    Limit = "supportRequests"
)

// Change is a quota moving from one value to another.
type Change struct {
	From Quota `json:"from"`
	To   Quota `json:"to"`
}

// Comparison lists the differences between two tiers.
type Comparison struct {
	From              string           `json:"from"`
	To                string           `json:"to"`
	Increased         map[Limit]Change `json:"increased,omitempty"`
	Decreased         map[Limit]Change `json:"decreased,omitempty"`
	GainedCritical    bool             `json:"gainedCriticalSituation,omitempty"`
	LostCritical      bool             `json:"lostCriticalSituation,omitempty"`
	DroppedSeverities []string         `json:"droppedSeverities,omitempty"`
}

// IsDowngrade reports whether any limit or capability shrinks.
func (c Comparison) IsDowngrade() bool {
	return len(c.Decreased) > 0 || c.LostCritical || len(c.DroppedSeverities) > 0
}

// Compare returns the differences going from current to target.
// Moving away from Unlimited always counts as a decrease.
func Compare(current, target Tier) Comparison {
	cmp := Comparison{
		From:      current.Key,
		To:        target.Key,
		Increased: make(map[Limit]Change),
		Decreased: make(map[Limit]Change),
	}

	limits := []struct {
		name     Limit
		from, to Quota
	}{
		{LimitTenants, current.TenantsLimit, target.TenantsLimit},
		{LimitAuthorizedContacts, current.AuthorizedContactsLimit, target.AuthorizedContactsLimit},
		{LimitSupportRequests, current.SupportRequestsIncluded, target.SupportRequestsIncluded},
	}
	for _, l := range limits {
		switch {
		case l.to.Less(l.from):
			cmp.Decreased[l.name] = Change{From: l.from, To: l.to}
		case l.from.Less(l.to):
			cmp.Increased[l.name] = Change{From: l.from, To: l.to}
		}
	}

	cmp.GainedCritical = !current.CriticalSituation && target.CriticalSituation
	cmp.LostCritical = current.CriticalSituation && !target.CriticalSituation

	for _, sev := range current.SeverityLevels {
		if !slices.Contains(target.SeverityLevels, sev) {
			cmp.DroppedSeverities = append(cmp.DroppedSeverities, sev)
		}
	}
	return cmp
}

