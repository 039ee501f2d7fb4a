package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursepath/coursepath-backend/internal/services"
)

type DashboardHandler struct {
	statsService services.StatsService
}

func NewDashboardHandler(statsService services.StatsService) *DashboardHandler {
	return &DashboardHandler{statsService: statsService}
}

func (dh *DashboardHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, err := dh.statsService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, stats)
}
