package utils

import (
	"strings"

	"maternal-health-backend/models"
)

// IntentDetector maps a message to every maternal-health intent it mentions.
// It is broader than CategoryClassifier and only runs for pregnancy messages.
type IntentDetector struct {
	intents    []models.Intent
	broadTerms []string
}

func NewIntentDetector() *IntentDetector {
	return &IntentDetector{
		intents:    models.Intents,
		broadTerms: models.BroadMaternalTerms,
	}
}

// DetectIntents returns all matching intents in catalogue order. With no
// specific match it falls back to the default bundle for broad maternal
// wording, and to the single default intent otherwise. Never empty.
func (d *IntentDetector) DetectIntents(message string) []models.IntentID {
	message = strings.ToLower(message)

	var found []models.IntentID
	for _, in := range d.intents {
		if containsAnyKeyword(message, in.Keywords) {
			found = append(found, in.ID)
		}
	}
	if len(found) > 0 {
		return found
	}

	if containsAnyKeyword(message, d.broadTerms) {
		return append([]models.IntentID(nil), models.DefaultIntentBundle...)
	}

	return []models.IntentID{models.DefaultIntent}
}

// IntentsForCategory selects the intents that enrich an answer in category.
// Categories without WHO indicators return nil and are answered from static content.
func (d *IntentDetector) IntentsForCategory(category models.Category, message string) []models.IntentID {
	switch category {
	case models.CategoryPregnancy:
		return d.DetectIntents(message)
	case models.CategoryEmergency:
		return []models.IntentID{models.IntentMMR, models.IntentNMR}
	case models.CategoryNutrition:
		return []models.IntentID{models.IntentAnaemia}
	default:
		return nil
	}
}

// ParseIntentList parses a comma separated list of intent ids, dropping unknown
// ids and duplicates while keeping order.
func ParseIntentList(raw string) []models.IntentID {
	var out []models.IntentID
	seen := map[models.IntentID]bool{}
	for _, part := range strings.Split(raw, ",") {
		id := models.IntentID(strings.ToLower(strings.TrimSpace(part)))
		if id == "" || seen[id] {
			continue
		}
		if _, ok := models.LookupIntent(id); !ok {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
