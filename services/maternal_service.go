package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"maternal-health-backend/logger"
	"maternal-health-backend/metrics"
	"maternal-health-backend/models"
	"maternal-health-backend/utils"
)

const defaultSeriesPoints = 6

// MaternalQuery is one maternal-health question. Intents, when set, replace
// detection from Message.
type MaternalQuery struct {
	Message  string
	Language string
	Country  string
	Intents  []models.IntentID
}

type answerOptions struct {
	trend        bool
	seriesPoints int
}

type AnswerOption func(*answerOptions)

// WithTrend attaches a trend computed over the last points values to every
// result. points <= 0 uses the default window.
func WithTrend(points int) AnswerOption {
	return func(o *answerOptions) {
		o.trend = true
		if points > 0 {
			o.seriesPoints = points
		}
	}
}

// MaternalService answers maternal-health questions with WHO indicator data.
type MaternalService struct {
	detector *utils.IntentDetector
	resolver *IndicatorResolver
	fetcher  *IndicatorFetcher
	log      logrus.FieldLogger
}

func NewMaternalService(resolver *IndicatorResolver, fetcher *IndicatorFetcher, log logrus.FieldLogger) *MaternalService {
	return &MaternalService{
		detector: utils.NewIntentDetector(),
		resolver: resolver,
		fetcher:  fetcher,
		log:      log.WithField("component", "maternal"),
	}
}

// AnswerMaternalQuestion resolves and fetches one WHO indicator per intent, in
// order. Intents whose lookup fails or has no data are left out of Results;
// the answer is always returned.
func (s *MaternalService) AnswerMaternalQuestion(ctx context.Context, q MaternalQuery, opts ...AnswerOption) *models.AnswerResult {
	o := answerOptions{seriesPoints: defaultSeriesPoints}
	for _, opt := range opts {
		opt(&o)
	}

	country := utils.NormalizeCountry(q.Country)
	lang := models.NormalizeLanguage(q.Language)

	intents := q.Intents
	if len(intents) == 0 {
		intents = s.detector.DetectIntents(q.Message)
	}

	log := logger.WithRequestID(s.log, ctx).WithField("country", country)

	results := make([]models.IndicatorResult, 0, len(intents))
	for _, id := range intents {
		result, outcome := s.answerIntent(ctx, log, id, country, o)
		metrics.IntentResults.WithLabelValues(string(id), outcome).Inc()
		if result != nil {
			results = append(results, *result)
		}
	}

	return &models.AnswerResult{
		Country:  country,
		Language: lang,
		Intents:  intents,
		Results:  results,
		Text:     RenderAnswer(results, lang),
	}
}

func (s *MaternalService) answerIntent(ctx context.Context, log *logrus.Entry, id models.IntentID, country string, o answerOptions) (*models.IndicatorResult, string) {
	log = log.WithField("intent", id)

	intent, ok := models.LookupIntent(id)
	if !ok {
		log.Debug("Skipping unknown intent")
		return nil, "unknown"
	}

	match, err := s.resolver.FindIndicatorCodeByKeywords(ctx, intent.IndicatorKeywords)
	if err != nil {
		log.WithError(err).Warn("Indicator lookup failed")
		return nil, "error"
	}
	if match == nil {
		log.Debug("No WHO indicator matched")
		return nil, "no_indicator"
	}

	value, err := s.fetcher.FetchLatestIndicatorValue(ctx, match.Code, country)
	if err != nil {
		log.WithError(err).WithField("indicator", match.Code).Warn("Indicator value fetch failed")
		return nil, "error"
	}
	if value == nil {
		log.WithField("indicator", match.Code).Debug("No WHO value for country")
		return nil, "no_value"
	}

	v := value.Value
	result := &models.IndicatorResult{
		Intent:        id,
		Label:         intent.Label,
		IndicatorCode: value.IndicatorCode,
		IndicatorName: indicatorName(value, match),
		Country:       value.Country,
		Year:          value.Year,
		Value:         &v,
		Unit:          value.Unit,
	}
	if intent.Unit != "" && value.Unit == defaultUnit {
		result.Unit = intent.Unit
	}

	if o.trend {
		s.attachTrend(ctx, log, result, intent, o.seriesPoints)
	}
	return result, "answered"
}

// attachTrend is best effort; a failed series lookup leaves the result without a trend.
func (s *MaternalService) attachTrend(ctx context.Context, log *logrus.Entry, result *models.IndicatorResult, intent models.Intent, points int) {
	series, err := s.fetcher.FetchRecentSeries(ctx, result.IndicatorCode, result.Country, points)
	if err != nil {
		log.WithError(err).Debug("Series fetch failed, no trend")
		return
	}
	if len(series) < 2 {
		return
	}

	trend := utils.ComputeTrend(series)
	if intent.LowerIsBetter {
		trend = utils.InvertTrend(trend)
	}
	result.Trend = trend
	result.DataPoints = len(series)
}

func indicatorName(value *models.IndicatorValue, match *models.IndicatorMatch) string {
	if value.IndicatorName != "" && value.IndicatorName != value.IndicatorCode {
		return value.IndicatorName
	}
	if match.Name != "" {
		return match.Name
	}
	return value.IndicatorCode
}
