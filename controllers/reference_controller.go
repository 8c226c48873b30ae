package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"maternal-health-backend/services"
)

type ReferenceController struct {
	referenceService *services.ReferenceService
}

func NewReferenceController(referenceService *services.ReferenceService) *ReferenceController {
	return &ReferenceController{
		referenceService: referenceService,
	}
}

func (rc *ReferenceController) GetHealthCenters(c *gin.Context) {
	c.JSON(http.StatusOK, rc.referenceService.HealthCenters())
}

func (rc *ReferenceController) GetEmergencyContacts(c *gin.Context) {
	c.JSON(http.StatusOK, rc.referenceService.EmergencyContacts())
}

// GetPregnancyInfo answers GET /api/pregnancy-info/:week?lang=
func (rc *ReferenceController) GetPregnancyInfo(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid week",
			"details": "week must be a number",
		})
		return
	}

	info, err := rc.referenceService.PregnancyWeek(week, c.Query("lang"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidWeek) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid week",
				"details": err.Error(),
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load pregnancy information",
		})
		return
	}

	c.JSON(http.StatusOK, info)
}
