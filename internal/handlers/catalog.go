package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/coursepath/coursepath-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
	statsService   services.StatsService
}

func NewCatalogHandler(catalogService services.CatalogService, statsService services.StatsService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, statsService: statsService}
}

func (ch *CatalogHandler) Browse(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fields, err := ch.catalogService.Browse(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"fields": fields})
}

func (ch *CatalogHandler) EnrolledCourses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courses, err := ch.statsService.EnrolledCourses(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	progress, err := ch.statsService.ProgressOverview(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"courses": courses, "progress": progress})
}
