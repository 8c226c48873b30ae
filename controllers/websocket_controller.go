package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"maternal-health-backend/logger"
	"maternal-health-backend/models"
	"maternal-health-backend/services"
)

const (
	wsReadLimit = 8 << 10
	wsIdleLimit = 5 * time.Minute
	wsMaxRunes  = 2000
)

// wsFrame is one inbound websocket chat message.
type wsFrame struct {
	Message  string `json:"message"`
	Language string `json:"language"`
	Country  string `json:"country"`
}

type WebSocketController struct {
	chatbotService *services.ChatbotService
	upgrader       websocket.Upgrader
	log            logrus.FieldLogger
}

// NewWebSocketController accepts upgrades from allowedOrigins only; "*" allows any.
func NewWebSocketController(chatbotService *services.ChatbotService, allowedOrigins []string, log logrus.FieldLogger) *WebSocketController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketController{
		chatbotService: chatbotService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		log: log.WithField("component", "websocket"),
	}
}

func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.WithRequestID(wc.log, ctx)

	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sessionID := c.Query("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	log = log.WithField("session_id", sessionID)

	conn.SetReadLimit(wsReadLimit)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsIdleLimit))

		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.WithError(err).Debug("WebSocket read ended")
			}
			return
		}

		frame.Message = strings.TrimSpace(frame.Message)
		if problem := validateFrame(frame); problem != "" {
			if err := conn.WriteJSON(gin.H{"error": problem}); err != nil {
				return
			}
			continue
		}

		response, err := wc.chatbotService.ProcessMessage(ctx, models.ChatRequest{
			Message:   frame.Message,
			Language:  frame.Language,
			Country:   frame.Country,
			SessionID: sessionID,
			Channel:   models.ChannelWebSocket,
		})
		if err != nil {
			log.WithError(err).Error("Failed to process websocket message")
			if err := conn.WriteJSON(gin.H{"error": "Failed to process message"}); err != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(response); err != nil {
			log.WithError(err).Debug("WebSocket write failed")
			return
		}
	}
}

// validateFrame returns the error sent back for an unusable frame, or "".
func validateFrame(frame wsFrame) string {
	switch {
	case frame.Message == "":
		return "Message is required"
	case len([]rune(frame.Message)) > wsMaxRunes:
		return "Message too long"
	default:
		return ""
	}
}
