package utils

import (
	"math"

	"maternal-health-backend/models"
)

// TrendThreshold is the relative change between the older and newer halves of
// a series below which it is reported as stable.
const TrendThreshold = 0.05

// ComputeTrend compares the mean of the first half of points (oldest first)
// with the mean of the second half. Fewer than two points is stable.
func ComputeTrend(points []models.DataPoint) models.Trend {
	if len(points) < 2 {
		return models.TrendStable
	}

	mid := len(points) / 2
	older := mean(points[:mid])
	newer := mean(points[mid:])

	if older == 0 {
		switch {
		case newer > 0:
			return models.TrendImproving
		case newer < 0:
			return models.TrendDeclining
		default:
			return models.TrendStable
		}
	}

	change := (newer - older) / math.Abs(older)
	switch {
	case change > TrendThreshold:
		return models.TrendImproving
	case change < -TrendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// InvertTrend swaps improving and declining for indicators where lower is better.
func InvertTrend(t models.Trend) models.Trend {
	switch t {
	case models.TrendImproving:
		return models.TrendDeclining
	case models.TrendDeclining:
		return models.TrendImproving
	default:
		return t
	}
}

func mean(points []models.DataPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	return sum / float64(len(points))
}
