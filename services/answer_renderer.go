package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"maternal-health-backend/models"
)

const bulletSeparator = "\n• "

var (
	noDataSentence = models.Label{
		RW: "Nasobanukiwe ikibazo cyawe, ariko ubu sinashoboye kubona amakuru mashya ya WHO kuri iki kibazo.",
		EN: "I understood your question, but I could not retrieve up-to-date WHO data for this right now.",
	}
	answerIntro = models.Label{
		RW: "Dore amakuru mashya ya WHO ku bijyanye n'ikibazo cyawe:",
		EN: "Here is the latest WHO data related to your question:",
	}
	trendClauses = map[models.Trend]models.Label{
		models.TrendImproving: {RW: "Imigendekere: biragenda neza.", EN: "Trend: improving."},
		models.TrendDeclining: {RW: "Imigendekere: biragenda nabi.", EN: "Trend: declining."},
		models.TrendStable:    {RW: "Imigendekere: nta mpinduka nini.", EN: "Trend: stable."},
	}
)

// RenderAnswer turns indicator results into a short answer in lang. An empty
// result set yields a fixed apology sentence.
func RenderAnswer(results []models.IndicatorResult, lang models.Language) string {
	if len(results) == 0 {
		return noDataSentence.For(lang)
	}

	lines := make([]string, 0, len(results))
	for _, r := range results {
		lines = append(lines, renderLine(r, lang))
	}
	return answerIntro.For(lang) + bulletSeparator + strings.Join(lines, bulletSeparator)
}

func renderLine(r models.IndicatorResult, lang models.Language) string {
	line := fmt.Sprintf("%s: %s (%s, %d).", displayLabel(r, lang), formatValue(r.Value, r.Unit), r.Country, r.Year)
	if clause, ok := trendClauses[r.Trend]; ok {
		line += " " + clause.For(lang)
	}
	return line
}

// displayLabel prefers the label carried on the result, then the catalogue
// entry for its intent, then the WHO indicator name.
func displayLabel(r models.IndicatorResult, lang models.Language) string {
	if label := r.Label.For(lang); label != "" {
		return label
	}
	if intent, ok := models.LookupIntent(r.Intent); ok {
		if label := intent.Label.For(lang); label != "" {
			return label
		}
	}
	if r.IndicatorName != "" {
		return r.IndicatorName
	}
	return r.IndicatorCode
}

// formatValue prints v rounded to one decimal. Percentages hug the number
// ("45.2%"); other units are separated by a space. A missing value prints as
// an em-dash followed by the unit ("— %").
func formatValue(v *float64, unit string) string {
	if v == nil {
		if unit == "" {
			return "—"
		}
		return "— " + unit
	}
	s := strconv.FormatFloat(math.Round(*v*10)/10, 'f', -1, 64)
	switch {
	case unit == "":
		return s
	case unit == "%":
		return s + unit
	default:
		return s + " " + unit
	}
}
