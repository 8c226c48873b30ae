package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maternal-health-backend/services"
	"maternal-health-backend/utils"
)

type WHOController struct {
	maternalService *services.MaternalService
}

func NewWHOController(maternalService *services.MaternalService) *WHOController {
	return &WHOController{
		maternalService: maternalService,
	}
}

// GetMaternal answers GET /api/who/maternal?country=&lang=&intents=&q=.
// intents is a comma separated list; unknown ids are ignored. Without
// intents they are detected from q.
func (wc *WHOController) GetMaternal(c *gin.Context) {
	query := services.MaternalQuery{
		Message:  c.Query("q"),
		Language: c.DefaultQuery("lang", "rw"),
		Country:  c.Query("country"),
		Intents:  utils.ParseIntentList(c.Query("intents")),
	}

	var opts []services.AnswerOption
	if c.Query("trend") == "true" {
		opts = append(opts, services.WithTrend(0))
	}

	answer := wc.maternalService.AnswerMaternalQuestion(c.Request.Context(), query, opts...)
	c.JSON(http.StatusOK, answer)
}
