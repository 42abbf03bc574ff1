package tier

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed tiers.yaml
var defaultCatalogYAML []byte

// Catalog is an immutable set of tiers keyed by Tier.Key.
type Catalog struct {
	tiers map[string]Tier
	keys  []string
}

// NewCatalog builds a catalog from tiers in the given order.
// Keys must be non-empty and unique; limits must be non-negative or Unlimited.
func NewCatalog(tiers ...Tier) (*Catalog, error) {
	c := &Catalog{
		tiers: make(map[string]Tier, len(tiers)),
		keys:  make([]string, 0, len(tiers)),
	}
	for _, t := range tiers {
		if t.Key == "" {
			return nil, fmt.Errorf("%w: tier without key", ErrInvalidCatalog)
		}
		if _, dup := c.tiers[t.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate tier %q", ErrInvalidCatalog, t.Key)
		}
		for _, q := range []Quota{t.TenantsLimit, t.AuthorizedContactsLimit, t.SupportRequestsIncluded} {
			if q < 0 && !q.IsUnlimited() {
				return nil, fmt.Errorf("%w: tier %q has negative limit %d", ErrInvalidCatalog, t.Key, q)
			}
		}
		t.SeverityLevels = slices.Clone(t.SeverityLevels)
		c.tiers[t.Key] = t
		c.keys = append(c.keys, t.Key)
	}
	return c, nil
}

// ParseCatalog reads a catalog document of the form {tiers: [...]}.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Tiers []Tier `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrInvalidCatalog, err)
	}
	if len(doc.Tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers defined", ErrInvalidCatalog)
	}
	return NewCatalog(doc.Tiers...)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog. It panics if the embedded data is
// malformed, which is a build defect.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("tier: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Get returns the tier for key or an error wrapping ErrUnknownTier.
func (c *Catalog) Get(key string) (Tier, error) {
	t, ok := c.tiers[key]
	if !ok {
		return Tier{}, fmt.Errorf("%w: %q", ErrUnknownTier, key)
	}
	t.SeverityLevels = slices.Clone(t.SeverityLevels)
	return t, nil
}

func (c *Catalog) Has(key string) bool {
	_, ok := c.tiers[key]
	return ok
}

// Keys returns tier keys in catalog order.
func (c *Catalog) Keys() []string {
	return slices.Clone(c.keys)
}

// All returns every tier in catalog order.
func (c *Catalog) All() []Tier {
	out := make([]Tier, 0, len(c.keys))
	for _, k := range c.keys {
		t, _ := c.Get(k)
		out = append(out, t)
	}
	return out
}
