package models

// IndicatorMatch is the WHO indicator chosen for a keyword set.
type IndicatorMatch struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// IndicatorValue is the most recent recorded value of an indicator for one country.
type IndicatorValue struct {
	IndicatorCode string  `json:"indicatorCode"`
	IndicatorName string  `json:"indicatorName"`
	Country       string  `json:"country"`
	Year          int     `json:"year"`
	Value         float64 `json:"value"`
	Unit          string  `json:"unit"`
}

// DataPoint is one reporting period of an indicator series.
type DataPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// IndicatorResult is an IndicatorValue tied to the intent that asked for it.
type IndicatorResult struct {
	Intent        IntentID `json:"intent"`
	Label         Label    `json:"label"`
	IndicatorCode string   `json:"indicatorCode"`
	IndicatorName string   `json:"indicatorName"`
	Country       string   `json:"country"`
	Year          int      `json:"year"`
	Value         *float64 `json:"value"`
	Unit          string   `json:"unit"`
	Trend         Trend    `json:"trend,omitempty"`
	DataPoints    int      `json:"dataPoints,omitempty"`
}

// AnswerResult is the orchestrator output for one question.
type AnswerResult struct {
	Country  string            `json:"country"`
	Language Language          `json:"language"`
	Intents  []IntentID        `json:"intents"`
	Results  []IndicatorResult `json:"results"`
	Text     string            `json:"text"`
}
