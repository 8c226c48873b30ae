package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Language is a response language. Kinyarwanda is the default.
type Language string

const (
	LangKinyarwanda Language = "rw"
	LangEnglish     Language = "en"
)

// NormalizeLanguage maps anything other than "en" to Kinyarwanda.
func NormalizeLanguage(lang string) Language {
	if Language(lang) == LangEnglish {
		return LangEnglish
	}
	return LangKinyarwanda
}

// MessageChannel represents the communication channel
type MessageChannel string

const (
	ChannelWeb       MessageChannel = "web"
	ChannelWebSocket MessageChannel = "websocket"
)

// ResponseSource tells the client where the answer content came from.
type ResponseSource string

const (
	SourceWHO      ResponseSource = "who_api"
	SourceFallback ResponseSource = "fallback"
	SourceAPIData  ResponseSource = "api_data"
)

// Message is one stored chat turn.
type Message struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	SessionID   string                 `bson:"session_id" json:"session_id"`
	UserMessage string                 `bson:"user_message" json:"user_message"`
	BotResponse string                 `bson:"bot_response" json:"bot_response"`
	Category    Category               `bson:"category" json:"category"`
	Intents     []IntentID             `bson:"intents,omitempty" json:"intents,omitempty"`
	Source      ResponseSource         `bson:"source" json:"source"`
	Language    Language               `bson:"language" json:"language"`
	Country     string                 `bson:"country,omitempty" json:"country,omitempty"`
	Timestamp   time.Time              `bson:"timestamp" json:"timestamp"`
	Channel     MessageChannel         `bson:"channel,omitempty" json:"channel,omitempty"`
	Metadata    map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

type ChatRequest struct {
	Message   string         `json:"message" binding:"required,max=2000"`
	Language  string         `json:"language,omitempty" binding:"omitempty,oneof=rw en"`
	Country   string         `json:"country,omitempty" binding:"omitempty,max=64"`
	SessionID string         `json:"session_id,omitempty"`
	Channel   MessageChannel `json:"channel,omitempty"`
}

type ChatResponse struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id,omitempty"`
	Type        string            `json:"type"`
	Content     string            `json:"content"`
	Category    Category          `json:"category"`
	Confidence  float64           `json:"confidence"`
	Source      ResponseSource    `json:"source"`
	Suggestions []string          `json:"suggestions"`
	Actions     []Action          `json:"actions,omitempty"`
	APIData     []IndicatorResult `json:"apiData,omitempty"`
	DataPoints  int               `json:"dataPoints,omitempty"`
	Country     string            `json:"country,omitempty"`
	Intents     []IntentID        `json:"intents,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

type Action struct {
	Type    string                 `json:"type"`
	Label   string                 `json:"label"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}
