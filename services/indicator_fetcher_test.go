package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maternal-health-backend/models"
)

func newTestFetcher(t *testing.T, gho *fakeGHO) *IndicatorFetcher {
	client := NewGHOClient(testWHOConfig(gho.server.URL), newTestLogger())
	return NewIndicatorFetcher(client, newTestCache(t))
}

func TestFetchLatestIndicatorValue(t *testing.T) {
	gho := newFakeGHO(t)
	f := newTestFetcher(t, gho)

	v, err := f.FetchLatestIndicatorValue(context.Background(), "WHS4_154", "RWA")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, models.IndicatorValue{
		IndicatorCode: "WHS4_154",
		IndicatorName: "WHS4_154",
		Country:       "RWA",
		Year:          2021,
		Value:         45.2,
		Unit:          "%",
	}, *v)
}

func TestFetchLatestIndicatorValueDefaultsToRwanda(t *testing.T) {
	gho := newFakeGHO(t)
	f := newTestFetcher(t, gho)

	v, err := f.FetchLatestIndicatorValue(context.Background(), "MDG_0000000025", "")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "RWA", v.Country)
	assert.Equal(t, 2020, v.Year)
}

func TestFetchLatestIndicatorValueCachesPerCountry(t *testing.T) {
	gho := newFakeGHO(t)
	f := newTestFetcher(t, gho)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.FetchLatestIndicatorValue(ctx, "WHS4_154", "RWA")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, gho.factCalls.Load())

	kenya, err := f.FetchLatestIndicatorValue(ctx, "WHS4_154", "KEN")
	require.NoError(t, err)
	assert.Equal(t, 66.0, kenya.Value)
	assert.EqualValues(t, 2, gho.factCalls.Load())
}

func TestFetchLatestIndicatorValueNoRow(t *testing.T) {
	gho := newFakeGHO(t)
	f := newTestFetcher(t, gho)

	v, err := f.FetchLatestIndicatorValue(context.Background(), "MDG_0000000026", "RWA")
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestFetchLatestIndicatorValueSkipsNullNumericValue(t *testing.T) {
	gho := newFakeGHO(t)
	gho.mu.Lock()
	gho.facts["NULLS"] = []GHOFact{{IndicatorCode: "NULLS", SpatialDim: "RWA", TimeDim: 2020, Value: "No data"}}
	gho.mu.Unlock()
	f := newTestFetcher(t, gho)

	v, err := f.FetchLatestIndicatorValue(context.Background(), "NULLS", "RWA")
	assert.NoError(t, err)
	assert.Nil(t, v)
}

func TestFetchLatestIndicatorValueUpstreamError(t *testing.T) {
	gho := newFakeGHO(t)
	gho.failWith("WHS4_154", http.StatusInternalServerError)
	f := newTestFetcher(t, gho)

	v, err := f.FetchLatestIndicatorValue(context.Background(), "WHS4_154", "RWA")
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrUpstreamStatus)
}

func TestFetchRecentSeriesIsChronological(t *testing.T) {
	gho := newFakeGHO(t)
	f := newTestFetcher(t, gho)

	points, err := f.FetchRecentSeries(context.Background(), "WHS4_154", "RWA", 6)
	require.NoError(t, err)
	assert.Equal(t, []models.DataPoint{
		{Year: 2015, Value: 43.9},
		{Year: 2019, Value: 44.1},
		{Year: 2021, Value: 45.2},
	}, points)

	_, err = f.FetchRecentSeries(context.Background(), "WHS4_154", "RWA", 6)
	require.NoError(t, err)
	assert.EqualValues(t, 1, gho.factCalls.Load())
}

func TestFetchRecentSeriesEmpty(t *testing.T) {
	gho := newFakeGHO(t)
	f := newTestFetcher(t, gho)

	points, err := f.FetchRecentSeries(context.Background(), "MDG_0000000026", "RWA", 6)
	assert.NoError(t, err)
	assert.Empty(t, points)

	points, err = f.FetchRecentSeries(context.Background(), "WHS4_154", "RWA", 0)
	assert.NoError(t, err)
	assert.Empty(t, points)
}
