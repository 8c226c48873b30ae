package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maternal-health-backend/models"
	"maternal-health-backend/services"
)

type ChatbotController struct {
	chatbotService *services.ChatbotService
}

func NewChatbotController(chatbotService *services.ChatbotService) *ChatbotController {
	return &ChatbotController{
		chatbotService: chatbotService,
	}
}

// HandleChat processes chat messages
func (cc *ChatbotController) HandleChat(c *gin.Context) {
	var req models.ChatRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}
	req.Channel = models.ChannelWeb

	response, err := cc.chatbotService.ProcessMessage(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": "Something went wrong processing your request",
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetChatHistory returns the stored turns of one session.
func (cc *ChatbotController) GetChatHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "session_id is required",
		})
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid limit",
				"details": "limit must be a positive integer",
			})
			return
		}
		limit = l
	}

	history, err := cc.chatbotService.History(c.Request.Context(), sessionID, limit)
	if err != nil {
		if errors.Is(err, services.ErrHistoryUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": err.Error(),
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve chat history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"history":    history,
		"count":      len(history),
	})
}

// GetSupportedCategories lists the topics the chat understands.
func (cc *ChatbotController) GetSupportedCategories(c *gin.Context) {
	categories := make([]gin.H, 0, len(models.Categories))
	for _, cat := range models.Categories {
		categories = append(categories, gin.H{
			"category": cat.Category,
			"keywords": cat.Keywords,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}
