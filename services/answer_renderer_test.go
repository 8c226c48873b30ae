package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"maternal-health-backend/models"
)

func float(v float64) *float64 { return &v }

func TestRenderAnswerEmpty(t *testing.T) {
	assert.Equal(t,
		"I understood your question, but I could not retrieve up-to-date WHO data for this right now.",
		RenderAnswer(nil, models.LangEnglish))
	assert.Equal(t, noDataSentence.RW, RenderAnswer([]models.IndicatorResult{}, models.LangKinyarwanda))
}

func TestRenderAnswerLines(t *testing.T) {
	anc4, _ := models.LookupIntent(models.IntentANC4)
	mmr, _ := models.LookupIntent(models.IntentMMR)
	results := []models.IndicatorResult{
		{Intent: models.IntentANC4, Label: anc4.Label, Country: "RWA", Year: 2021, Value: float(45.24), Unit: "%"},
		{Intent: models.IntentMMR, Label: mmr.Label, Country: "RWA", Year: 2020, Value: float(259), Unit: mmr.Unit, Trend: models.TrendImproving},
	}

	got := RenderAnswer(results, models.LangEnglish)
	want := "Here is the latest WHO data related to your question:" +
		"\n• Antenatal care coverage (4+ visits): 45.2% (RWA, 2021)." +
		"\n• Maternal mortality ratio: 259 per 100 000 live births (RWA, 2020). Trend: improving."
	assert.Equal(t, want, got)

	rw := RenderAnswer(results, models.LangKinyarwanda)
	assert.True(t, strings.HasPrefix(rw, answerIntro.RW))
	assert.Contains(t, rw, "• "+anc4.Label.RW+": 45.2% (RWA, 2021).")
	assert.Contains(t, rw, "Imigendekere: biragenda neza.")
}

func TestRenderAnswerLabelFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		result models.IndicatorResult
		want   string
	}{
		{
			name:   "intent id without carried label",
			result: models.IndicatorResult{Intent: models.IntentSBA, IndicatorName: "ignored"},
			want:   "Births attended by skilled health personnel",
		},
		{
			name:   "unknown intent uses indicator name",
			result: models.IndicatorResult{Intent: "other", IndicatorName: "Some WHO indicator"},
			want:   "Some WHO indicator",
		},
		{
			name:   "no name uses code",
			result: models.IndicatorResult{IndicatorCode: "CODE_1"},
			want:   "CODE_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayLabel(tt.result, models.LangEnglish))
		})
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "45.2%", formatValue(float(45.2), "%"))
	assert.Equal(t, "12%", formatValue(float(12.04), "%"))
	assert.Equal(t, "19.5 per 1000 live births", formatValue(float(19.46), "per 1000 live births"))
	assert.Equal(t, "7", formatValue(float(7), ""))
	assert.Equal(t, "— %", formatValue(nil, "%"))
	assert.Equal(t, "— per 1000 live births", formatValue(nil, "per 1000 live births"))
	assert.Equal(t, "—", formatValue(nil, ""))
}
