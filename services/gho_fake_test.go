package services

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"maternal-health-backend/cache"
	"maternal-health-backend/config"
)

var (
	containsClause = regexp.MustCompile(`contains\(IndicatorName,'((?:[^']|'')*)'\)`)
	spatialClause  = regexp.MustCompile(`SpatialDim eq '([A-Z]{3})'`)
)

// fakeGHO serves a small in-memory copy of the GHO OData API.
type fakeGHO struct {
	server *httptest.Server

	mu        sync.Mutex
	catalog   []GHOIndicator
	facts     map[string][]GHOFact
	failCodes map[string]int

	requests     atomic.Int32
	catalogCalls atomic.Int32
	factCalls    atomic.Int32
}

func newFakeGHO(t *testing.T) *fakeGHO {
	t.Helper()

	f := &fakeGHO{
		catalog: []GHOIndicator{
			{IndicatorCode: "WHS4_115", IndicatorName: "Antenatal care coverage - at least one visit (%)"},
			{IndicatorCode: "WHS4_154", IndicatorName: "Antenatal care coverage - at least four visits (%)"},
			{IndicatorCode: "MDG_0000000025", IndicatorName: "Births attended by skilled health personnel (%)"},
			{IndicatorCode: "MDG_0000000026", IndicatorName: "Maternal mortality ratio (per 100 000 live births)"},
		},
		facts:     map[string][]GHOFact{},
		failCodes: map[string]int{},
	}
	f.addFacts("WHS4_154", "RWA", map[int]float64{2021: 45.2, 2019: 44.1, 2015: 43.9})
	f.addFacts("MDG_0000000025", "RWA", map[int]float64{2020: 94.0})
	f.addFacts("WHS4_154", "KEN", map[int]float64{2022: 66.0})

	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeGHO) addFacts(code, country string, values map[int]float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for year, v := range values {
		v := v
		f.facts[code] = append(f.facts[code], GHOFact{
			IndicatorCode: code,
			SpatialDim:    country,
			TimeDim:       year,
			NumericValue:  &v,
			Value:         strconv.FormatFloat(v, 'f', -1, 64),
		})
	}
}

// failWith makes requests for code answer with status.
func (f *fakeGHO) failWith(code string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCodes[code] = status
}

func (f *fakeGHO) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests.Add(1)
	code := strings.TrimPrefix(r.URL.Path, "/")
	if status, ok := f.failCodes[code]; ok {
		http.Error(w, "upstream unavailable", status)
		return
	}

	filter := r.URL.Query().Get("$filter")
	top, _ := strconv.Atoi(r.URL.Query().Get("$top"))

	if code == "Indicator" {
		f.catalogCalls.Add(1)
		var rows []GHOIndicator
		for _, ind := range f.catalog {
			for _, m := range containsClause.FindAllStringSubmatch(filter, -1) {
				if strings.Contains(strings.ToLower(ind.IndicatorName), strings.ToLower(m[1])) {
					rows = append(rows, ind)
					break
				}
			}
		}
		writeOData(w, rows)
		return
	}

	f.factCalls.Add(1)
	country := ""
	if m := spatialClause.FindStringSubmatch(filter); m != nil {
		country = m[1]
	}
	var rows []GHOFact
	for _, fact := range f.facts[code] {
		if fact.SpatialDim == country {
			rows = append(rows, fact)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TimeDim > rows[j].TimeDim })
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	writeOData(w, rows)
}

func writeOData[T any](w http.ResponseWriter, rows []T) {
	if rows == nil {
		rows = []T{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(odataResponse[T]{Value: rows})
}

func testWHOConfig(baseURL string) config.WHOConfig {
	return config.WHOConfig{
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		MaxRetries:     1,
		RetryBackoff:   time.Millisecond,
		DefaultCountry: "RWA",
		SeriesPoints:   6,
	}
}

func newTestLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Options{TTL: time.Minute}, nil, newTestLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

// newTestMaternalService wires the full WHO pipeline against gho.
func newTestMaternalService(t *testing.T, gho *fakeGHO) *MaternalService {
	t.Helper()
	log := newTestLogger()
	client := NewGHOClient(testWHOConfig(gho.server.URL), log)
	c := newTestCache(t)
	return NewMaternalService(NewIndicatorResolver(client, c), NewIndicatorFetcher(client, c), log)
}
