package utils

import (
	"math"
	"strings"

	"maternal-health-backend/models"
)

// Classification is the outcome of classifying one message.
type Classification struct {
	Category        models.Category `json:"category"`
	MatchedKeywords []string        `json:"matchedKeywords,omitempty"`
	Confidence      float64         `json:"confidence"`
}

type CategoryClassifier struct {
	patterns []models.CategoryKeywords
}

func NewCategoryClassifier() *CategoryClassifier {
	return &CategoryClassifier{patterns: models.Categories}
}

// DetectCategory returns the first category, in declaration order, with a
// keyword contained in message. Unmatched messages are CategoryDefault.
func (cc *CategoryClassifier) DetectCategory(message string) models.Category {
	message = strings.ToLower(message)

	for _, p := range cc.patterns {
		if containsAnyKeyword(message, p.Keywords) {
			return p.Category
		}
	}

	return models.CategoryDefault
}

// Classify is DetectCategory plus the keywords that fired and a confidence score.
func (cc *CategoryClassifier) Classify(message string) Classification {
	message = strings.ToLower(message)

	for _, p := range cc.patterns {
		matched := matchingKeywords(message, p.Keywords)
		if len(matched) == 0 {
			continue
		}
		return Classification{
			Category:        p.Category,
			MatchedKeywords: matched,
			Confidence:      math.Min(0.95, 0.6+0.1*float64(len(matched))),
		}
	}

	return Classification{Category: models.CategoryDefault, Confidence: 0.3}
}

func containsAnyKeyword(message string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

func matchingKeywords(message string, keywords []string) []string {
	var matched []string
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}
