package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursepath/coursepath-backend/internal/services"
)

type CourseHandler struct {
	progressService   services.ProgressService
	populationService services.PopulationService
	enrollmentService services.EnrollmentService
	statsService      services.StatsService
}

func NewCourseHandler(
	progressService services.ProgressService,
	populationService services.PopulationService,
	enrollmentService services.EnrollmentService,
	statsService services.StatsService,
) *CourseHandler {
	return &CourseHandler{
		progressService:   progressService,
		populationService: populationService,
		enrollmentService: enrollmentService,
		statsService:      statsService,
	}
}

func courseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_id", fmt.Errorf("invalid course id"))
		return uuid.Nil, false
	}
	return id, true
}

// Topics returns the course page payload: the topic list annotated with the
// caller's watch state plus the rounded progress percentage.
func (ch *CourseHandler) Topics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	out, err := ch.progressService.CourseTopics(c.Request.Context(), userID, courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	pct, err := ch.statsService.CourseProgress(c.Request.Context(), userID, courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"course":       out.Course,
		"topics":       out.Topics,
		"completed":    out.Completed,
		"total_count":  out.TotalCount,
		"progress_pct": pct,
	})
}

// Refresh rebuilds the course's topic list. Only enrolled users may trigger
// it since it destroys watch progress for the course.
func (ch *CourseHandler) Refresh(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	enrolled, err := ch.enrollmentService.IsEnrolled(c.Request.Context(), userID, courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if !enrolled {
		RespondError(c, http.StatusForbidden, "not_enrolled", fmt.Errorf("not enrolled in course"))
		return
	}
	created, err := ch.populationService.Refresh(c.Request.Context(), courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"topics_created": created})
}
