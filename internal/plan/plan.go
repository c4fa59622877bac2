// Package plan holds the subscription plan catalog. Plans are fixed at
// startup from configured prices; there is no plan CRUD.
package plan

import (
	"errors"

	"github.com/regobertatangangwatangie-eng/farmpro/internal/config"
)

var ErrInvalidPlan = errors.New("invalid_plan")

// Plan describes a purchasable subscription tier.
type Plan struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PriceUSD    float64 `json:"price_usd"`
	Interval    string  `json:"interval"`
	Description string  `json:"description"`
}

// Catalog resolves plan ids against the configured tiers.
type Catalog struct {
	plans map[string]Plan
	order []string
}

// NewCatalog builds the catalog from configured prices.
func NewCatalog(cfg config.Config) *Catalog {
	plans := []Plan{
		{
			ID:          "basic",
			Name:        "Basic",
			PriceUSD:    cfg.PriceBasicUSD,
			Interval:    "month",
			Description: "$5/month (local)",
		},
		{
			ID:          "international",
			Name:        "International",
			PriceUSD:    cfg.PriceInternationalUSD,
			Interval:    "month",
			Description: "$10/month (international)",
		},
	}

	catalog := &Catalog{plans: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		catalog.plans[p.ID] = p
		catalog.order = append(catalog.order, p.ID)
	}
	return catalog
}

// Lookup returns the plan for an id.
func (c *Catalog) Lookup(id string) (Plan, error) {
	p, ok := c.plans[id]
	if !ok {
		return Plan{}, ErrInvalidPlan
	}
	return p, nil
}

// List returns all plans in catalog order.
func (c *Catalog) List() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}
