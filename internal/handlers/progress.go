package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursepath/coursepath-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (ph *ProgressHandler) Record(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		TopicID        uuid.UUID `json:"topic_id"`
		ElapsedSeconds int       `json:"elapsed_seconds"`
		Completed      bool      `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_body", fmt.Errorf("invalid request body"))
		return
	}
	if req.TopicID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "bad_body", fmt.Errorf("topic_id required"))
		return
	}
	if req.ElapsedSeconds < 0 {
		RespondError(c, http.StatusBadRequest, "bad_body", fmt.Errorf("elapsed_seconds must not be negative"))
		return
	}
	row, err := ph.progressService.Record(c.Request.Context(), userID, req.TopicID, req.ElapsedSeconds, req.Completed)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": row})
}
