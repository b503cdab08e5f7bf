package plan

import (
	"context"
	"time"

	"esportfed/internal/logger"
	"esportfed/internal/metrics"

	"github.com/patrickmn/go-cache"
)

const activePlansKey = "plans:active"

// Catalog serves membership plans. It never fails: when the store errors or
// has no active plan, the built-in defaults are returned instead.
type Catalog struct {
	store Store
	cache *cache.Cache
}

func NewCatalog(store Store, ttl time.Duration) *Catalog {
	return &Catalog{
		store: store,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *Catalog) LoadPlans(ctx context.Context, locale string) []Plan {
	if cached, ok := c.cache.Get(activePlansKey); ok {
		return cached.([]Plan)
	}

	plans, err := c.store.ListActive(ctx)
	if err != nil {
		logger.Warn("plan store unavailable, serving default plans", "error", err)
		metrics.RecordCatalogFallback()
		return DefaultPlans(locale)
	}
	if len(plans) == 0 {
		logger.Warn("no active plans in store, serving default plans")
		metrics.RecordCatalogFallback()
		return DefaultPlans(locale)
	}

	c.cache.Set(activePlansKey, plans, cache.DefaultExpiration)
	return plans
}

func (c *Catalog) Find(ctx context.Context, locale, id string) (Plan, bool) {
	for _, p := range c.LoadPlans(ctx, locale) {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Views resolves every plan's category for the public listing.
func (c *Catalog) Views(ctx context.Context, locale string) []PlanView {
	plans := c.LoadPlans(ctx, locale)
	views := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		category := ResolveCategory(p)
		views = append(views, PlanView{
			Plan:             p,
			ResolvedCategory: category,
			RequiresPayment:  category.RequiresPayment(),
		})
	}
	return views
}

// Invalidate drops cached store results.
func (c *Catalog) Invalidate() {
	c.cache.Delete(activePlansKey)
}

