package services

import (
	"fmt"
	"strconv"

	"maternal-health-backend/models"
)

const (
	MinPregnancyWeek = 1
	MaxPregnancyWeek = 42
)

var ErrInvalidWeek = fmt.Errorf("pregnancy week must be between %d and %d", MinPregnancyWeek, MaxPregnancyWeek)

// ReferenceService serves the static reference content shown next to the chat.
type ReferenceService struct {
	centers  []models.HealthCenter
	contacts []models.EmergencyContact
}

func NewReferenceService() *ReferenceService {
	return &ReferenceService{
		centers: []models.HealthCenter{
			{
				ID:          1,
				Name:        "Kigali Central Hospital",
				Location:    "Kigali, Rwanda",
				Phone:       "+250 788 123 456",
				Hours:       "24/7 Emergency Services",
				Rating:      4.5,
				Coordinates: [2]float64{-1.9441, 30.0619},
			},
			{
				ID:          2,
				Name:        "King Faisal Hospital",
				Location:    "Kigali, Rwanda",
				Phone:       "+250 788 234 567",
				Hours:       "Mon-Fri: 8AM-6PM",
				Rating:      4.8,
				Coordinates: [2]float64{-1.9500, 30.0586},
			},
			{
				ID:          3,
				Name:        "Rwanda Military Hospital",
				Location:    "Kigali, Rwanda",
				Phone:       "+250 788 345 678",
				Hours:       "24/7 Emergency Services",
				Rating:      4.3,
				Coordinates: [2]float64{-1.9488, 30.0647},
			},
		},
		contacts: []models.EmergencyContact{
			{Name: "Emergency Hotline", Phone: "+250 788 123 456", Description: "24/7 emergency medical assistance"},
			{Name: "Maternal Health Support", Phone: "+250 788 234 567", Description: "Specialized maternal health support"},
			{Name: "Mental Health Crisis", Phone: "+250 788 345 678", Description: "Mental health crisis intervention"},
		},
	}
}

func (s *ReferenceService) HealthCenters() []models.HealthCenter {
	return append([]models.HealthCenter(nil), s.centers...)
}

func (s *ReferenceService) EmergencyContacts() []models.EmergencyContact {
	return append([]models.EmergencyContact(nil), s.contacts...)
}

// PregnancyWeek describes the baby and mother at week. lang defaults to Kinyarwanda.
func (s *ReferenceService) PregnancyWeek(week int, lang string) (*models.PregnancyWeek, error) {
	if week < MinPregnancyWeek || week > MaxPregnancyWeek {
		return nil, ErrInvalidWeek
	}

	language := models.NormalizeLanguage(lang)
	length := strconv.FormatFloat(2+0.5*float64(week), 'f', -1, 64)
	weight := strconv.Itoa(7 * week)

	var info models.WeekInfo
	if language == models.LangEnglish {
		info = models.WeekInfo{
			Baby:   fmt.Sprintf("Your baby is about %s cm long and weighs about %s grams.", length, weight),
			Mother: "You may feel abdominal pain and you may feel the baby moving.",
			Tips:   "Take your vitamins daily, drink plenty of water, and see your doctor.",
		}
	} else {
		info = models.WeekInfo{
			Baby:   fmt.Sprintf("Umwana wawe afite uburebure bwa cm %s kandi afite ibiro bya gram %s.", length, weight),
			Mother: "Ushobora kumva ububabare mu nda kandi ushobora kumva umwana akina.",
			Tips:   "Fata vitamini zawe buri munsi, unywa amazi menshi, kandi ujya kwa muganga.",
		}
	}

	return &models.PregnancyWeek{Week: week, Language: language, Info: info}, nil
}
