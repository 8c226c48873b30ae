package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maternal-health-backend/models"
)

func TestAnswerMaternalQuestionAntenatalCare(t *testing.T) {
	gho := newFakeGHO(t)
	svc := newTestMaternalService(t, gho)

	answer := svc.AnswerMaternalQuestion(context.Background(), MaternalQuery{
		Message:  "antenatal care",
		Language: "en",
		Country:  "Rwanda",
	})

	assert.Equal(t, "RWA", answer.Country)
	assert.Equal(t, models.LangEnglish, answer.Language)
	assert.Equal(t, []models.IntentID{models.IntentANC4}, answer.Intents)

	require.Len(t, answer.Results, 1)
	r := answer.Results[0]
	assert.Equal(t, models.IntentANC4, r.Intent)
	assert.Equal(t, "RWA", r.Country)
	assert.Equal(t, 2021, r.Year)
	require.NotNil(t, r.Value)
	assert.Equal(t, 45.2, *r.Value)
	assert.Equal(t, "%", r.Unit)
	assert.Equal(t, "WHS4_154", r.IndicatorCode)
	assert.Equal(t, "Antenatal care coverage - at least four visits (%)", r.IndicatorName)
	assert.Equal(t, "Antenatal care coverage (4+ visits)", r.Label.EN)
	assert.Empty(t, r.Trend)

	assert.Contains(t, answer.Text, "45.2%")
}

func TestAnswerMaternalQuestionSkipsIntentsWithoutData(t *testing.T) {
	gho := newFakeGHO(t)
	svc := newTestMaternalService(t, gho)

	// "pregnant" selects anc4, sba and mmr; mmr has no Rwandan row
	answer := svc.AnswerMaternalQuestion(context.Background(), MaternalQuery{
		Message:  "I am pregnant",
		Language: "rw",
	})

	assert.Equal(t, []models.IntentID{models.IntentANC4, models.IntentSBA, models.IntentMMR}, answer.Intents)
	require.Len(t, answer.Results, 2)
	assert.Equal(t, models.IntentANC4, answer.Results[0].Intent)
	assert.Equal(t, models.IntentSBA, answer.Results[1].Intent)
	assert.Equal(t, models.LangKinyarwanda, answer.Language)
	assert.Contains(t, answer.Text, "94%")
}

func TestAnswerMaternalQuestionSkipsFailingLookups(t *testing.T) {
	gho := newFakeGHO(t)
	gho.failWith("WHS4_154", http.StatusServiceUnavailable)
	svc := newTestMaternalService(t, gho)

	answer := svc.AnswerMaternalQuestion(context.Background(), MaternalQuery{
		Message:  "antenatal checkup",
		Language: "en",
		Country:  "RWA",
	})

	assert.Equal(t, []models.IntentID{models.IntentANC4}, answer.Intents)
	assert.Empty(t, answer.Results)
	assert.Equal(t, noDataSentence.EN, answer.Text)
}

func TestAnswerMaternalQuestionExplicitIntents(t *testing.T) {
	gho := newFakeGHO(t)
	svc := newTestMaternalService(t, gho)

	answer := svc.AnswerMaternalQuestion(context.Background(), MaternalQuery{
		Message:  "antenatal care",
		Language: "en",
		Country:  "kenya",
		Intents:  []models.IntentID{models.IntentANC4, "unknown"},
	})

	assert.Equal(t, "KEN", answer.Country)
	require.Len(t, answer.Results, 1)
	assert.Equal(t, 66.0, *answer.Results[0].Value)
	assert.Equal(t, 2022, answer.Results[0].Year)
}

func TestAnswerMaternalQuestionWithTrend(t *testing.T) {
	gho := newFakeGHO(t)
	gho.mu.Lock()
	gho.catalog = append(gho.catalog, GHOIndicator{IndicatorCode: "MDG_0000000026_RWA", IndicatorName: "Maternal mortality ratio (per 100 000 live births), modelled"})
	gho.mu.Unlock()
	gho.addFacts("MDG_0000000026_RWA", "RWA", map[int]float64{2010: 480, 2015: 380, 2020: 259})
	svc := newTestMaternalService(t, gho)

	answer := svc.AnswerMaternalQuestion(context.Background(), MaternalQuery{
		Language: "en",
		Intents:  []models.IntentID{models.IntentANC4, models.IntentMMR},
	}, WithTrend(0))

	require.Len(t, answer.Results, 2)
	// 43.9 against mean(44.1, 45.2) is under the threshold
	assert.Equal(t, models.TrendStable, answer.Results[0].Trend)
	assert.Equal(t, 3, answer.Results[0].DataPoints)

	mmr := answer.Results[1]
	assert.Equal(t, "per 100 000 live births", mmr.Unit)
	// falling mortality reads as improving
	assert.Equal(t, models.TrendImproving, mmr.Trend)
	assert.Contains(t, answer.Text, "Trend: improving.")
}
