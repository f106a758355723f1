package handler

import (
	"net/http"

	"github.com/courseloop/assessment-backend/internal/middleware"
	"github.com/courseloop/assessment-backend/internal/model"
	"github.com/courseloop/assessment-backend/internal/response"
	"github.com/courseloop/assessment-backend/internal/service"
	"github.com/courseloop/assessment-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GradingHandler handles manual grading endpoints.
type GradingHandler struct {
	gradingService *service.GradingService
	attemptService *service.AttemptService
}

// NewGradingHandler creates a new GradingHandler.
func NewGradingHandler(gradingService *service.GradingService, attemptService *service.AttemptService) *GradingHandler {
	return &GradingHandler{
		gradingService: gradingService,
		attemptService: attemptService,
	}
}

// ListAttemptTheoryAnswers godoc
// GET /api/v1/staff/attempts/:attempt_id/theory-answers
// The grading worksheet: theory answers joined with their questions.
func (h *GradingHandler) ListAttemptTheoryAnswers(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	answers, err := h.gradingService.ListForGrading(c.Request.Context(), claims, attemptID)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"theory_answers": answers})
}

// GetAttemptForGrading godoc
// GET /api/v1/staff/attempts/:attempt_id
// Full attempt view for staff, including objective answers.
func (h *GradingHandler) GetAttemptForGrading(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	review, err := h.attemptService.GetReview(c.Request.Context(), claims, attemptID)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": review})
}

// GradeTheoryAnswer godoc
// POST /api/v1/staff/theory-answers/:answer_id/grade
// Scores above the item's maximum marks are rejected.
func (h *GradingHandler) GradeTheoryAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	answerID, err := uuid.Parse(c.Param("answer_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GradeAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.gradingService.GradeSingle(c.Request.Context(), claims, answerID, &req)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answer": answer})
}

// BulkGradeAttempt godoc
// POST /api/v1/staff/attempts/:attempt_id/bulk-grade
// Clamps out-of-range scores and marks the attempt graded.
func (h *GradingHandler) BulkGradeAttempt(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.BulkGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	attempt, err := h.gradingService.BulkGrade(c.Request.Context(), claims, attemptID, &req)
	if err != nil {
		failDomain(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}
