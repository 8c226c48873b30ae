package services

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"maternal-health-backend/logger"
	"maternal-health-backend/metrics"
	"maternal-health-backend/models"
	"maternal-health-backend/utils"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ErrHistoryUnavailable is returned when chat turns are not being stored.
var ErrHistoryUnavailable = errors.New("chat history is not available")

// MessageRepository stores chat turns.
type MessageRepository interface {
	Save(ctx context.Context, msg *models.Message) error
	ListBySession(ctx context.Context, sessionID string, limit int64) ([]models.Message, error)
}

var fallbackResponses = map[models.Category]models.Label{
	models.CategoryPregnancy: {
		RW: "Ubusanzwe ubuzima bwawe bwiza. Reba ko ufata vitamini zawe buri munsi kandi ujya kwa muganga.",
		EN: "Your pregnancy is going well. Make sure to take your vitamins daily and attend regular checkups.",
	},
	models.CategoryEmergency: {
		RW: "Ibi ni ibibazo by'ingenzi! Ijya kwa muganga vuba cyane cyane niba ufite amaraso cyangwa ububabare.",
		EN: "These are emergency symptoms! Go to the hospital immediately, especially if you have bleeding or severe pain.",
	},
	models.CategoryNutrition: {
		RW: "Fata ibiryo byuzuye amatungo, imboga, n'imbuto. Reba ko unywa amazi menshi.",
		EN: "Eat a balanced diet with proteins, vegetables, and fruits. Make sure to drink plenty of water.",
	},
	models.CategoryMentalHealth: {
		RW: "Ibyiyumvo byawe bifite agaciro. Vugana n'umuntu wizeye cyangwa umujyanama w'ubuzima, kandi uhamagare umurongo w'ubufasha niba wumva uremerewe.",
		EN: "Your feelings matter. Talk to someone you trust or a health worker, and call the support line if you feel overwhelmed.",
	},
	models.CategoryExercise: {
		RW: "Imyitozo yoroheje nko kugenda n'amaguru iminota 30 ku munsi ni myiza ku babyeyi batwite. Baza muganga mbere yo gutangira imyitozo mishya.",
		EN: "Gentle exercise such as a 30 minute walk each day is good during pregnancy. Ask your doctor before starting a new routine.",
	},
	models.CategoryDefault: {
		RW: "Nshobora kugufasha kugenzura ubuzima bwawe. Vuga ibibazo byawe cyangwa ibyo ushaka kumenya.",
		EN: "I can help you monitor your health. Tell me your concerns or what you want to know.",
	},
}

var showHealthCentersLabel = models.Label{
	RW: "Erekana ibigo nderabuzima",
	EN: "Show Health Centers",
}

var suggestions = map[models.Category]map[models.Language][]string{
	models.CategoryPregnancy: {
		models.LangEnglish:     {"How many antenatal visits do I need?", "What happens at week 20?", "Where is the nearest health center?"},
		models.LangKinyarwanda: {"Nkeneye kwipimisha inshuro zingahe?", "Bigenda bite ku cyumweru cya 20?", "Ikigo nderabuzima kinyegereye kiri he?"},
	},
	models.CategoryEmergency: {
		models.LangEnglish:     {"Call the emergency hotline", "Show health centers", "What are danger signs in pregnancy?"},
		models.LangKinyarwanda: {"Hamagara umurongo w'ubutabazi", "Erekana ibigo nderabuzima", "Ni ibihe bimenyetso mpuruza ku mugore utwite?"},
	},
	models.CategoryNutrition: {
		models.LangEnglish:     {"Which foods are rich in iron?", "Should I take folic acid?", "How much water should I drink?"},
		models.LangKinyarwanda: {"Ni ibihe biryo bikungahaye ku butare?", "Nkwiye gufata folic acid?", "Nkwiye kunywa amazi angana iki?"},
	},
	models.CategoryMentalHealth: {
		models.LangEnglish:     {"How can I manage stress?", "Who can I talk to?", "Call the mental health crisis line"},
		models.LangKinyarwanda: {"Nakwirinda nte umunaniro?", "Ni nde navugisha?", "Hamagara umurongo w'ihungabana"},
	},
	models.CategoryExercise: {
		models.LangEnglish:     {"Is yoga safe in pregnancy?", "How long should I walk each day?", "Which exercises should I avoid?"},
		models.LangKinyarwanda: {"Yoga ni nziza ku mugore utwite?", "Nkwiye kugenda iminota ingahe ku munsi?", "Ni iyihe myitozo nkwiye kwirinda?"},
	},
	models.CategoryDefault: {
		models.LangEnglish:     {"I am pregnant, what should I know?", "Show emergency contacts", "What should I eat?"},
		models.LangKinyarwanda: {"Ndatwite, ni iki nkwiye kumenya?", "Erekana nimero z'ubutabazi", "Nkwiye kurya iki?"},
	},
}

var pregnancyWeekPattern = regexp.MustCompile(`(?:\b(\d{1,2})\s*(?:weeks?|wks?)\b)|(?:\b(?:week|i?cyumweru(?:\s+cya)?|ibyumweru)\s+(\d{1,2})\b)`)

// ChatbotService answers chat messages: category first, then WHO data for the
// intents the category selects, then static content.
type ChatbotService struct {
	classifier     *utils.CategoryClassifier
	detector       *utils.IntentDetector
	maternal       *MaternalService
	reference      *ReferenceService
	repo           MessageRepository
	defaultCountry string
	seriesPoints   int
	log            logrus.FieldLogger
}

// NewChatbotService builds the chat pipeline. repo may be nil to skip storing turns.
func NewChatbotService(maternal *MaternalService, reference *ReferenceService, repo MessageRepository, defaultCountry string, seriesPoints int, log logrus.FieldLogger) *ChatbotService {
	if defaultCountry == "" {
		defaultCountry = utils.DefaultCountry
	}
	return &ChatbotService{
		classifier:     utils.NewCategoryClassifier(),
		detector:       utils.NewIntentDetector(),
		maternal:       maternal,
		reference:      reference,
		repo:           repo,
		defaultCountry: defaultCountry,
		seriesPoints:   seriesPoints,
		log:            log.WithField("component", "chatbot"),
	}
}

func (s *ChatbotService) ProcessMessage(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	lang := models.NormalizeLanguage(req.Language)
	classification := s.classifier.Classify(req.Message)

	country := req.Country
	if country == "" {
		country = s.defaultCountry
	}
	country = utils.NormalizeCountry(country)

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	var response *models.ChatResponse
	switch classification.Category {
	case models.CategoryEmergency:
		response = s.handleEmergency(ctx, req, lang, country)
	case models.CategoryPregnancy:
		response = s.handlePregnancy(ctx, req, lang, country)
	default:
		response = s.handleCategory(ctx, classification.Category, req, lang, country)
	}

	response.ID = uuid.NewString()
	response.SessionID = req.SessionID
	response.Type = "bot"
	response.Category = classification.Category
	response.Confidence = classification.Confidence
	response.Suggestions = suggestions[classification.Category][lang]
	response.Timestamp = time.Now().UTC()

	metrics.ChatMessages.WithLabelValues(string(response.Category), string(response.Source)).Inc()
	s.saveMessage(ctx, req, lang, response)

	return response, nil
}

func (s *ChatbotService) handleEmergency(ctx context.Context, req models.ChatRequest, lang models.Language, country string) *models.ChatResponse {
	response := s.handleCategory(ctx, models.CategoryEmergency, req, lang, country)

	// urgent advice always comes before any statistics
	if response.Source == models.SourceWHO {
		response.Content = fallbackResponses[models.CategoryEmergency].For(lang) + "\n\n" + response.Content
	}

	for _, contact := range s.reference.EmergencyContacts() {
		response.Actions = append(response.Actions, models.Action{
			Type:  "call",
			Label: contact.Name,
			Payload: map[string]interface{}{
				"number": contact.Phone,
			},
		})
	}
	response.Actions = append(response.Actions, models.Action{
		Type:  "show_health_centers",
		Label: showHealthCentersLabel.For(lang),
	})
	return response
}

func (s *ChatbotService) handlePregnancy(ctx context.Context, req models.ChatRequest, lang models.Language, country string) *models.ChatResponse {
	if week, ok := parsePregnancyWeek(req.Message); ok {
		if info, err := s.reference.PregnancyWeek(week, string(lang)); err == nil {
			return &models.ChatResponse{
				Content: strings.Join([]string{info.Info.Baby, info.Info.Mother, info.Info.Tips}, "\n"),
				Source:  models.SourceAPIData,
			}
		}
	}
	return s.handleCategory(ctx, models.CategoryPregnancy, req, lang, country)
}

// handleCategory answers with WHO indicators for the category's intents, or
// with the category's static text when there are none or none had data.
func (s *ChatbotService) handleCategory(ctx context.Context, category models.Category, req models.ChatRequest, lang models.Language, country string) *models.ChatResponse {
	intents := s.detector.IntentsForCategory(category, req.Message)
	if len(intents) > 0 {
		answer := s.maternal.AnswerMaternalQuestion(ctx, MaternalQuery{
			Message:  req.Message,
			Language: string(lang),
			Country:  country,
			Intents:  intents,
		}, WithTrend(s.seriesPoints))

		if len(answer.Results) > 0 {
			return &models.ChatResponse{
				Content:    answer.Text,
				Source:     models.SourceWHO,
				APIData:    answer.Results,
				DataPoints: countDataPoints(answer.Results),
				Country:    answer.Country,
				Intents:    answer.Intents,
			}
		}
	}

	fallback, ok := fallbackResponses[category]
	if !ok {
		fallback = fallbackResponses[models.CategoryDefault]
	}
	return &models.ChatResponse{
		Content: fallback.For(lang),
		Source:  models.SourceFallback,
	}
}

// saveMessage stores the turn. Failures are logged and never reach the user.
func (s *ChatbotService) saveMessage(ctx context.Context, req models.ChatRequest, lang models.Language, resp *models.ChatResponse) {
	if s.repo == nil {
		return
	}

	channel := req.Channel
	if channel == "" {
		channel = models.ChannelWeb
	}
	msg := &models.Message{
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		BotResponse: resp.Content,
		Category:    resp.Category,
		Intents:     resp.Intents,
		Source:      resp.Source,
		Language:    lang,
		Country:     resp.Country,
		Timestamp:   resp.Timestamp,
		Channel:     channel,
		Metadata: map[string]interface{}{
			"response_id": resp.ID,
			"confidence":  resp.Confidence,
		},
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		logger.WithRequestID(s.log, ctx).WithError(err).WithField("session_id", req.SessionID).Warn("Failed to save chat message")
	}
}

// History returns the stored turns of a session, newest first.
func (s *ChatbotService) History(ctx context.Context, sessionID string, limit int) ([]models.Message, error) {
	if s.repo == nil {
		return nil, ErrHistoryUnavailable
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.repo.ListBySession(ctx, sessionID, int64(limit))
}

// countDataPoints is the number of WHO values behind an answer: the series
// length where a trend was computed, otherwise the single latest value.
func countDataPoints(results []models.IndicatorResult) int {
	total := 0
	for _, r := range results {
		if r.DataPoints > 0 {
			total += r.DataPoints
		} else {
			total++
		}
	}
	return total
}

func parsePregnancyWeek(message string) (int, bool) {
	m := pregnancyWeekPattern.FindStringSubmatch(strings.ToLower(message))
	if m == nil {
		return 0, false
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	week, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return week, true
}
