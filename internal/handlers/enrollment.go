package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coursepath/coursepath-backend/internal/services"
)

type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Enroll accepts either a single course id or a list of them.
func (eh *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		CourseID  *uuid.UUID  `json:"course_id"`
		CourseIDs []uuid.UUID `json:"course_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_body", fmt.Errorf("invalid request body"))
		return
	}

	if req.CourseID != nil {
		res, err := eh.enrollmentService.Enroll(c.Request.Context(), userID, *req.CourseID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, res)
		return
	}
	if len(req.CourseIDs) == 0 {
		RespondError(c, http.StatusBadRequest, "bad_body", fmt.Errorf("course_id or course_ids required"))
		return
	}
	outcomes := eh.enrollmentService.EnrollBatch(c.Request.Context(), userID, req.CourseIDs)
	RespondOK(c, gin.H{"outcomes": outcomes})
}

// Reconcile replaces the caller's enrolled set with the posted one.
func (eh *EnrollmentHandler) Reconcile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		CourseIDs []uuid.UUID `json:"course_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_body", fmt.Errorf("invalid request body"))
		return
	}
	res, err := eh.enrollmentService.Reconcile(c.Request.Context(), userID, req.CourseIDs)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, res)
}

func (eh *EnrollmentHandler) Unenroll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := courseIDParam(c)
	if !ok {
		return
	}
	if err := eh.enrollmentService.Unenroll(c.Request.Context(), userID, courseID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true})
}
