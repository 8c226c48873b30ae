package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"maternal-health-backend/config"
	"maternal-health-backend/logger"
	"maternal-health-backend/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUpstreamStatus wraps non-2xx answers from the GHO API.
var ErrUpstreamStatus = errors.New("WHO API returned an error status")

// GHOIndicator is one row of the GHO indicator catalog.
type GHOIndicator struct {
	IndicatorCode string `json:"IndicatorCode"`
	IndicatorName string `json:"IndicatorName"`
}

// GHOFact is one row of an indicator time series.
type GHOFact struct {
	IndicatorCode string   `json:"IndicatorCode"`
	IndicatorName string   `json:"IndicatorName,omitempty"`
	SpatialDim    string   `json:"SpatialDim"`
	TimeDim       int      `json:"TimeDim"`
	NumericValue  *float64 `json:"NumericValue"`
	Value         string   `json:"Value"`
	Unit          string   `json:"Unit,omitempty"`
}

type odataResponse[T any] struct {
	Value []T `json:"value"`
}

// GHOClient talks to the WHO Global Health Observatory OData API. Every call
// shares one timeout and retry policy.
type GHOClient struct {
	baseURL      string
	httpClient   *http.Client
	maxRetries   int
	retryBackoff time.Duration
	log          logrus.FieldLogger
}

func NewGHOClient(cfg config.WHOConfig, log logrus.FieldLogger) *GHOClient {
	return &GHOClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		log:          log,
	}
}

// SearchIndicators returns up to top catalog entries whose name contains any keyword.
func (s *GHOClient) SearchIndicators(ctx context.Context, keywords []string, top int) ([]GHOIndicator, error) {
	clauses := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		clauses = append(clauses, fmt.Sprintf("contains(IndicatorName,'%s')", odataQuote(kw)))
	}

	endpoint := fmt.Sprintf("%s/Indicator?%s", s.baseURL, odataQuery(strings.Join(clauses, " or "), "", top))

	var resp odataResponse[GHOIndicator]
	if err := s.getJSON(ctx, "indicator", endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

// LatestFacts returns up to top rows of an indicator for one country, newest first.
func (s *GHOClient) LatestFacts(ctx context.Context, indicatorCode, country string, top int) ([]GHOFact, error) {
	filter := fmt.Sprintf("SpatialDim eq '%s'", odataQuote(country))
	endpoint := fmt.Sprintf("%s/%s?%s", s.baseURL, url.PathEscape(indicatorCode), odataQuery(filter, "TimeDim desc", top))

	var resp odataResponse[GHOFact]
	if err := s.getJSON(ctx, "facts", endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Value, nil
}

func (s *GHOClient) getJSON(ctx context.Context, name, endpoint string, out interface{}) error {
	start := time.Now()
	defer func() {
		metrics.WHORequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryBackoff * time.Duration(attempt)):
			}
		}

		body, retry, err := s.do(ctx, endpoint)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				metrics.WHORequests.WithLabelValues(name, "decode_error").Inc()
				return fmt.Errorf("decode WHO %s response: %w", name, err)
			}
			metrics.WHORequests.WithLabelValues(name, "ok").Inc()
			return nil
		}

		lastErr = err
		if !retry {
			break
		}
		logger.WithRequestID(s.log, ctx).WithFields(logrus.Fields{
			"endpoint": name,
			"attempt":  attempt + 1,
			"error":    err.Error(),
		}).Warn("WHO request failed, retrying")
	}

	metrics.WHORequests.WithLabelValues(name, "error").Inc()
	return lastErr
}

// do performs one GET. retry reports whether the failure is worth another attempt.
func (s *GHOClient) do(ctx context.Context, endpoint string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("WHO request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read WHO response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retry = resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("%w: %d %s", ErrUpstreamStatus, resp.StatusCode, truncate(string(body), 200))
	}

	return body, false, nil
}

// odataQuery encodes OData system query options. Spaces must be %20, not '+'.
func odataQuery(filter, orderBy string, top int) string {
	parts := []string{"$filter=" + escapeQuery(filter)}
	if orderBy != "" {
		parts = append(parts, "$orderby="+escapeQuery(orderBy))
	}
	if top > 0 {
		parts = append(parts, "$top="+strconv.Itoa(top))
	}
	return strings.Join(parts, "&")
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// odataQuote escapes a value for use inside a single-quoted OData literal.
func odataQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
