package tier

// Tier is one support plan. Values are read-only once a catalog is built.
type Tier struct {
	Key                     string   `yaml:"key" json:"key"`
	Name                    string   `yaml:"name" json:"name"`
	Color                   string   `yaml:"color" json:"color"`
	Description             string   `yaml:"description" json:"description"`
	CriticalSituation       bool     `yaml:"criticalSituation" json:"criticalSituation"`
	SupportHours            string   `yaml:"supportHours" json:"supportHours"`
	TenantsLimit            Quota    `yaml:"tenantsLimit" json:"tenantsLimit"`
	AuthorizedContactsLimit Quota    `yaml:"authorizedContactsLimit" json:"authorizedContactsLimit"`
	SupportRequestsIncluded Quota    `yaml:"supportRequestsIncluded" json:"supportRequestsIncluded"`
	SeverityLevels          []string `yaml:"severityLevels" json:"severityLevels"`
}

// CSSClass is the class name the HTML renderer attaches to the tier header.
func (t Tier) CSSClass() string {
	return "tier-" + t.Key
}
