package services

import (
	"context"
	"fmt"
	"strings"

	"maternal-health-backend/cache"
	"maternal-health-backend/models"
)

// catalogSearchLimit caps how many catalog candidates are scored per lookup.
const catalogSearchLimit = 100

// IndicatorCatalog is the part of the GHO API the resolver needs.
type IndicatorCatalog interface {
	SearchIndicators(ctx context.Context, keywords []string, top int) ([]GHOIndicator, error)
}

// IndicatorResolver finds the WHO indicator code behind a keyword set.
type IndicatorResolver struct {
	catalog IndicatorCatalog
	cache   *cache.Cache
}

func NewIndicatorResolver(catalog IndicatorCatalog, c *cache.Cache) *IndicatorResolver {
	return &IndicatorResolver{catalog: catalog, cache: c}
}

// FindIndicatorCodeByKeywords searches the catalog for names containing any of
// keywords and keeps the candidate with the longest name. A nil match with a
// nil error means the catalog had no candidates; that outcome is not cached.
func (r *IndicatorResolver) FindIndicatorCodeByKeywords(ctx context.Context, keywords []string) (*models.IndicatorMatch, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	return cache.Load(ctx, r.cache, indicatorCacheKey(keywords), func(ctx context.Context) (*models.IndicatorMatch, error) {
		candidates, err := r.catalog.SearchIndicators(ctx, keywords, catalogSearchLimit)
		if err != nil {
			return nil, fmt.Errorf("search WHO indicators for %q: %w", strings.Join(keywords, "|"), err)
		}
		return bestIndicator(candidates), nil
	})
}

func indicatorCacheKey(keywords []string) string {
	return "indicator:" + strings.ToLower(strings.Join(keywords, "|"))
}

// bestIndicator scores by name length; the first candidate wins ties.
func bestIndicator(candidates []GHOIndicator) *models.IndicatorMatch {
	var best *GHOIndicator
	for i := range candidates {
		c := &candidates[i]
		if c.IndicatorCode == "" {
			continue
		}
		if best == nil || len(c.IndicatorName) > len(best.IndicatorName) {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	return &models.IndicatorMatch{Code: best.IndicatorCode, Name: best.IndicatorName}
}
