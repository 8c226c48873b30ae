package services

import (
	"context"
	"fmt"
	"strings"

	"maternal-health-backend/cache"
	"maternal-health-backend/models"
	"maternal-health-backend/utils"
)

// defaultUnit is used when the GHO row carries no unit of its own.
const defaultUnit = "%"

// FactSource is the part of the GHO API the fetcher needs.
type FactSource interface {
	LatestFacts(ctx context.Context, indicatorCode, country string, top int) ([]GHOFact, error)
}

// IndicatorFetcher reads indicator values for a country through the shared cache.
type IndicatorFetcher struct {
	source FactSource
	cache  *cache.Cache
}

func NewIndicatorFetcher(source FactSource, c *cache.Cache) *IndicatorFetcher {
	return &IndicatorFetcher{source: source, cache: c}
}

// FetchLatestIndicatorValue returns the most recent value of code for country.
// An empty country means Rwanda. A nil value with a nil error means the API had
// no usable row; that outcome is not cached.
func (f *IndicatorFetcher) FetchLatestIndicatorValue(ctx context.Context, code, country string) (*models.IndicatorValue, error) {
	if country == "" {
		country = utils.DefaultCountry
	}

	key := fmt.Sprintf("value:%s:%s", code, country)
	return cache.Load(ctx, f.cache, key, func(ctx context.Context) (*models.IndicatorValue, error) {
		facts, err := f.source.LatestFacts(ctx, code, country, 1)
		if err != nil {
			return nil, fmt.Errorf("fetch WHO value %s for %s: %w", code, country, err)
		}
		if len(facts) == 0 || facts[0].NumericValue == nil {
			return nil, nil
		}
		return toIndicatorValue(code, country, facts[0]), nil
	})
}

type dataSeries struct {
	Points []models.DataPoint `json:"points"`
}

// FetchRecentSeries returns up to n yearly values of code for country, oldest
// first. Rows without a numeric value are skipped.
func (f *IndicatorFetcher) FetchRecentSeries(ctx context.Context, code, country string, n int) ([]models.DataPoint, error) {
	if country == "" {
		country = utils.DefaultCountry
	}
	if n <= 0 {
		return nil, nil
	}

	key := fmt.Sprintf("series:%s:%s:%d", code, country, n)
	series, err := cache.Load(ctx, f.cache, key, func(ctx context.Context) (*dataSeries, error) {
		facts, err := f.source.LatestFacts(ctx, code, country, n)
		if err != nil {
			return nil, fmt.Errorf("fetch WHO series %s for %s: %w", code, country, err)
		}

		points := make([]models.DataPoint, 0, len(facts))
		// rows arrive newest first
		for i := len(facts) - 1; i >= 0; i-- {
			if facts[i].NumericValue == nil {
				continue
			}
			points = append(points, models.DataPoint{Year: facts[i].TimeDim, Value: *facts[i].NumericValue})
		}
		if len(points) == 0 {
			return nil, nil
		}
		return &dataSeries{Points: points}, nil
	})
	if err != nil || series == nil {
		return nil, err
	}
	return series.Points, nil
}

func toIndicatorValue(code, country string, fact GHOFact) *models.IndicatorValue {
	name := strings.TrimSpace(fact.IndicatorName)
	if name == "" {
		name = code
	}
	unit := strings.TrimSpace(fact.Unit)
	if unit == "" {
		unit = defaultUnit
	}
	return &models.IndicatorValue{
		IndicatorCode: code,
		IndicatorName: name,
		Country:       country,
		Year:          fact.TimeDim,
		Value:         *fact.NumericValue,
		Unit:          unit,
	}
}
